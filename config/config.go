package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lifesim/lifebank/account"
	"github.com/lifesim/lifebank/market"
)

// Config represents the complete simulation configuration
type Config struct {
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Policy     PolicyConfig     `json:"policy" yaml:"policy"`
	Market     MarketConfig     `json:"market" yaml:"market"`
	Accounts   []AccountSeed    `json:"accounts" yaml:"accounts"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
}

// SimulationConfig contains the run parameters
type SimulationConfig struct {
	StartYear int   `json:"start_year" yaml:"start_year"`
	Years     int   `json:"years" yaml:"years"`
	Seed      int64 `json:"seed" yaml:"seed"` // 0 means time-based, non-reproducible
}

// PolicyConfig contains the banking-system policy scalars
type PolicyConfig struct {
	ReserveRatio    float64 `json:"reserve_ratio" yaml:"reserve_ratio"`
	InsuranceLimit  float64 `json:"insurance_limit" yaml:"insurance_limit"`
	MaxLoanToValue  float64 `json:"max_loan_to_value" yaml:"max_loan_to_value"`
	BaseRate        float64 `json:"base_rate" yaml:"base_rate"`
	InflationTarget float64 `json:"inflation_target" yaml:"inflation_target"`
}

// MarketConfig contains the regime draw weights (empty means defaults)
type MarketConfig struct {
	Weights map[string]float64 `json:"weights,omitempty" yaml:"weights,omitempty"`
}

// AccountSeed opens one account at the start of the run. Asset
// categories use Initial/Rate; loan categories use Principal, TermYears
// and CreditScore.
type AccountSeed struct {
	Category        string  `json:"category" yaml:"category"`
	Initial         float64 `json:"initial,omitempty" yaml:"initial,omitempty"`
	Rate            float64 `json:"rate,omitempty" yaml:"rate,omitempty"`
	Principal       float64 `json:"principal,omitempty" yaml:"principal,omitempty"`
	TermYears       int     `json:"term_years,omitempty" yaml:"term_years,omitempty"`
	CreditScore     int     `json:"credit_score,omitempty" yaml:"credit_score,omitempty"`
	CollateralValue float64 `json:"collateral_value,omitempty" yaml:"collateral_value,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type        string `json:"type" yaml:"type"` // "sqlite", "csv" or "none"
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	EntriesFile string `json:"entries_file,omitempty" yaml:"entries_file,omitempty"`
	YearsFile   string `json:"years_file,omitempty" yaml:"years_file,omitempty"`
}

// LoggingConfig contains log output parameters
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // "console" or "json"
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// RegimeWeights converts the configured weights into market weights.
func (c *Config) RegimeWeights() market.Weights {
	if len(c.Market.Weights) == 0 {
		return nil
	}
	w := make(market.Weights, len(c.Market.Weights))
	for k, v := range c.Market.Weights {
		w[market.Regime(k)] = v
	}
	return w
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Simulation.Years <= 0 {
		return fmt.Errorf("simulation.years must be positive")
	}
	if c.Simulation.StartYear < 0 {
		return fmt.Errorf("simulation.start_year must be non-negative")
	}
	if c.Policy.BaseRate < 0 || c.Policy.BaseRate > 1 {
		return fmt.Errorf("policy.base_rate must be between 0 and 1")
	}
	if c.Policy.MaxLoanToValue <= 0 || c.Policy.MaxLoanToValue > 1 {
		return fmt.Errorf("policy.max_loan_to_value must be between 0 and 1")
	}
	if c.Policy.ReserveRatio < 0 || c.Policy.ReserveRatio > 1 {
		return fmt.Errorf("policy.reserve_ratio must be between 0 and 1")
	}
	for name, weight := range c.Market.Weights {
		if !market.Regime(name).Valid() {
			return fmt.Errorf("market.weights: unknown regime %q", name)
		}
		if weight < 0 {
			return fmt.Errorf("market.weights.%s must be non-negative", name)
		}
	}
	for i, seed := range c.Accounts {
		cat := account.Category(seed.Category)
		if !cat.Valid() {
			return fmt.Errorf("accounts[%d]: unknown category %q", i, seed.Category)
		}
		if cat.IsLiability() {
			if seed.Principal <= 0 {
				return fmt.Errorf("accounts[%d]: %s requires a positive principal", i, cat)
			}
			if cat.IsAmortizing() && seed.TermYears <= 0 {
				return fmt.Errorf("accounts[%d]: %s requires a positive term", i, cat)
			}
		} else if seed.Initial < 0 {
			return fmt.Errorf("accounts[%d]: initial amount must be non-negative", i)
		}
	}
	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite type")
		}
	case "csv":
		if c.Journal.EntriesFile == "" || c.Journal.YearsFile == "" {
			return fmt.Errorf("journal entries_file and years_file required for csv type")
		}
	case "none", "":
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'csv' or 'none'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			StartYear: 2025,
			Years:     30,
			Seed:      1,
		},
		Policy: PolicyConfig{
			ReserveRatio:    0.10,
			InsuranceLimit:  250000,
			MaxLoanToValue:  0.80,
			BaseRate:        0.03,
			InflationTarget: 0.02,
		},
		Accounts: []AccountSeed{
			{Category: "checking", Initial: 2500},
			{Category: "savings", Initial: 10000},
			{Category: "mortgage", Principal: 240000, TermYears: 30, CreditScore: 720, CollateralValue: 300000},
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./lifebank.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
