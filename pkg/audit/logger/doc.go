// Package logger provides the DecisionLogger: the single writer to the
// decision record store.
//
// The logger assigns each record a time-ordered UUIDv7 id and a UTC
// timestamp, then commits synchronously — LogDecision does not return
// until the record is durable and visible to subsequent reads. Id and
// timestamp assignment is serialized so concurrent writers never collide
// and history queries see a consistent monotonic prefix; the serializing
// lock is released before the storage call, so it is never held across
// I/O.
package logger
