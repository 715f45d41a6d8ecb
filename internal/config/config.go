// Package config collects everything fintsync reads from the environment
// into one structure built once at startup. No component below the commands
// reads the environment directly.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the process configuration.
type Config struct {
	// Bank source. Exactly one of BridgeCommand or CSVFile must be set.
	BridgeCommand string // helper command owning the FinTS dialog
	CSVFile       string // ING CSV export used as an offline source
	IBAN          string

	// YNAB access.
	AccessToken string
	AccountID   string
	BudgetID    string
	FlagColor   string

	// Sync behavior.
	StateFile     string
	StartDate     time.Time // zero = no override, fall back to seven days ago
	SleepInterval time.Duration
	Debug         bool
	AuditLog      string // empty disables the audit log

	// YNABCursor resumes from the ledger's most recent transaction instead
	// of the local state file. The two strategies are not interchangeable
	// mid-deployment: switching can re-import or skip a window.
	YNABCursor bool
}

// Load reads the configuration from a .env file (when present) and the
// environment.
func Load() (*Config, error) {
	// A missing .env file is fine, the environment alone may be complete.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("STATE_FILE", "state")
	v.SetDefault("SLEEP_INTERVAL", 300)

	cfg := &Config{
		BridgeCommand: v.GetString("FINTS_BRIDGE_CMD"),
		CSVFile:       v.GetString("BANK_CSV_FILE"),
		IBAN:          v.GetString("ING_IBAN"),
		AccessToken:   v.GetString("YNAB_ACCESS_TOKEN"),
		AccountID:     v.GetString("YNAB_ACCOUNT_ID"),
		BudgetID:      v.GetString("YNAB_BUDGET_ID"),
		FlagColor:     v.GetString("YNAB_FLAG_COLOR"),
		StateFile:     v.GetString("STATE_FILE"),
		SleepInterval: time.Duration(v.GetInt("SLEEP_INTERVAL")) * time.Second,
		Debug:         v.GetString("DEBUG") == "1",
		AuditLog:      v.GetString("AUDIT_LOG"),
		YNABCursor:    v.GetString("YNAB_CURSOR") == "1",
	}

	if raw := v.GetString("START_DATE"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("parsing START_DATE: %w", err)
		}
		cfg.StartDate = date
	}

	return cfg, nil
}

// Validate checks the options every mode needs. Failures here are fatal to
// the process.
func (c *Config) Validate() error {
	if c.BridgeCommand == "" && c.CSVFile == "" {
		return fmt.Errorf("either FINTS_BRIDGE_CMD or BANK_CSV_FILE must be set")
	}
	if c.IBAN == "" {
		return fmt.Errorf("ING_IBAN must be set")
	}
	if c.AccessToken == "" {
		return fmt.Errorf("YNAB_ACCESS_TOKEN must be set")
	}
	if c.AccountID == "" {
		return fmt.Errorf("YNAB_ACCOUNT_ID must be set")
	}
	if c.BudgetID == "" {
		return fmt.Errorf("YNAB_BUDGET_ID must be set")
	}
	if c.SleepInterval <= 0 {
		return fmt.Errorf("SLEEP_INTERVAL must be positive")
	}
	return nil
}

// FallbackStartDate returns the configured start date override, or now minus
// seven days when none is set.
func (c *Config) FallbackStartDate(now time.Time) time.Time {
	if !c.StartDate.IsZero() {
		return c.StartDate
	}
	return now.AddDate(0, 0, -7)
}
