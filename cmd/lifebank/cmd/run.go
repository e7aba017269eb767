package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lifesim/lifebank/account"
	"github.com/lifesim/lifebank/bank"
	"github.com/lifesim/lifebank/config"
	"github.com/lifesim/lifebank/journal"
	"github.com/lifesim/lifebank/pkg/logging"
	"github.com/lifesim/lifebank/statefile"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation from a config file",
	Long: `Run a banking simulation using settings from a configuration file.

The config file specifies policy scalars, market regime weights, the
accounts to open at the start, and journal settings.

Example:
  lifebank run --config simulation.yaml`,
	RunE: runRun,
}

var (
	runConfigPath string
	runStateOut   string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.Flags().StringVar(&runStateOut, "save-state", "", "write full engine state to this file after the run")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return err
	}

	var j journal.Journal = journal.Discard{}
	switch cfg.Journal.Type {
	case "sqlite":
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
	case "csv":
		j, err = journal.NewCSV(cfg.Journal.EntriesFile, cfg.Journal.YearsFile)
	}
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	sys := bank.NewSystem(bank.Policy{
		ReserveRatio:   cfg.Policy.ReserveRatio,
		InsuranceLimit: cfg.Policy.InsuranceLimit,
		MaxLoanToValue: cfg.Policy.MaxLoanToValue,
		BaseRate:       cfg.Policy.BaseRate,
	},
		bank.WithSeed(cfg.Simulation.Seed),
		bank.WithRegimeWeights(cfg.RegimeWeights()),
		bank.WithInflationTarget(cfg.Policy.InflationTarget),
		bank.WithJournal(j),
		bank.WithEmitter(bank.LogEmitter{Log: log}),
	)

	startYear := cfg.Simulation.StartYear
	for _, seed := range cfg.Accounts {
		cat := account.Category(seed.Category)
		if cat.IsLiability() {
			_, err = sys.OriginateLoan(bank.LoanRequest{
				Category:        cat,
				Principal:       seed.Principal,
				TermYears:       seed.TermYears,
				CreditScore:     seed.CreditScore,
				CollateralValue: seed.CollateralValue,
				Year:            startYear,
			})
		} else {
			_, err = sys.OpenAccount(bank.OpenAccountRequest{
				Category: cat,
				Initial:  seed.Initial,
				Rate:     seed.Rate,
				Year:     startYear,
			})
		}
		if err != nil {
			return fmt.Errorf("seed account %s: %w", seed.Category, err)
		}
	}

	fmt.Printf("Running %d-year simulation from %d (seed %d)\n\n", cfg.Simulation.Years, startYear, cfg.Simulation.Seed)
	fmt.Printf("%-6s %-10s %8s %10s %12s %12s\n", "Year", "Regime", "Rate", "Inflation", "Interest", "Net")

	for i := 1; i <= cfg.Simulation.Years; i++ {
		year := startYear + i
		summary, err := sys.AdvanceYear(year)
		if err != nil {
			var pf *bank.PartialFailure
			if !errors.As(err, &pf) {
				return fmt.Errorf("advance year %d: %w", year, err)
			}
			for _, ferr := range pf.Errors {
				log.Warn().Int("year", year).Err(ferr).Msg("account skipped in yearly pass")
			}
		}
		fmt.Printf("%-6d %-10s %7.2f%% %9.2f%% %12.2f %12.2f\n",
			summary.Year, summary.Regime, summary.BaseRate*100, summary.Inflation*100,
			summary.DepositInterest, summary.NetPosition)
	}

	fmt.Printf("\nFinal Results:\n")
	fmt.Printf("  Net position: %.2f\n", sys.NetPosition())
	fmt.Printf("  Base rate: %.2f%%\n", sys.Policy().BaseRate*100)
	for _, a := range sys.Accounts() {
		status := "open"
		if a.Closed {
			status = "closed"
		}
		fmt.Printf("  %s %-13s %12.2f (%s)\n", a.ID, a.Category, a.Balance, status)
	}

	if runStateOut != "" {
		if err := statefile.Save(runStateOut, sys); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
		fmt.Printf("\nState saved to: %s\n", runStateOut)
	}

	return nil
}
