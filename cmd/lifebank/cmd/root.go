package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lifebank",
	Short: "A retail banking and monetary simulation engine",
	Long: `Lifebank simulates a simplified retail banking economy year by year:
accounts, loans, interest accrual, credit-scored loan pricing, and
macroeconomic cycles feeding back into the central bank's base rate.

It provides tools for:
  - Running multi-year simulations from a config file
  - Journaling every ledger entry and year-end snapshot to SQLite or CSV
  - Saving and restoring full engine state
  - Reproducible runs via a fixed random seed`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
