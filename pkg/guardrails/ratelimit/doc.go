// Package ratelimit provides per-(operation, actor) call quotas for the
// guardrails engine.
//
// # Algorithm
//
// Each (operation, actor) pair owns a fixed window: a counter and a window
// start time. A check increments the counter and compares it to the
// operation's quota in a single locked step, so two concurrent callers can
// never both observe "below limit" and both proceed past it. Expired
// windows are reset lazily on the next call; an optional background
// sweeper prunes idle keys to bound the table.
//
//	limiter := ratelimit.NewLimiter(map[string]ratelimit.Quota{
//	    "database_query": {MaxCalls: 3, Window: time.Minute},
//	}, nil)
//	res := limiter.Check("database_query", "worker-1")
//	if !res.Allowed {
//	    // quota exhausted; retry after res.Reset
//	}
//
// Operations without a configured quota are unlimited.
//
// # Persistence
//
// Window state is in-memory by default. A SQLiteStore can be attached so
// counters survive a process restart; writes go through on every
// increment and reads happen once at construction.
package ratelimit
