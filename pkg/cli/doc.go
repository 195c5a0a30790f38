/*
Package cli provides command-line interface utilities for Vigil.

Output Formatting:

Commands render results as text or JSON:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, records); err != nil {
		return err
	}

Signal Handling:

For cancelling long-lived commands on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
*/
package cli
