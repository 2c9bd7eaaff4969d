package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"nutri-go/internal/app"
	"nutri-go/internal/config"
	"nutri-go/internal/nutri"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the .env file and
// environment overrides on top of it.
func loadConfig() (*config.Config, map[string]string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, nil, fmt.Errorf("getting defaults: %w", err)
	}

	if err := config.LoadEnvFile(defaults["env_file"]); err != nil {
		return nil, nil, err
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}
	config.ApplyEnv(cfg)
	return cfg, defaults, nil
}

// newApp reads the config and creates a NutriApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "AddMeal", "SignUp").
func newApp(cmd *cobra.Command, operation, parameters string) (*app.NutriApp, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	requestID := ""
	if f := cmd.Flags().Lookup("request-id"); f != nil {
		requestID = f.Value.String()
	}

	a, err := app.NewNutriApp(cmd.Context(), cfg, operation, app.Options{
		RequestID:  requestID,
		Parameters: parameters,
		Verbose:    verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// addRequestIDFlag marks cmd as a mutating command that can be resubmitted safely.
func addRequestIDFlag(cmd *cobra.Command) {
	cmd.Flags().String("request-id", "", "Idempotency key; a command with an already used key is refused")
}

// addWindowFlags adds --days and --all to cmd.
func addWindowFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("days", "d", 7, "Only consider the last N days, today included")
	cmd.Flags().Bool("all", false, "Consider all records")
}

func windowFromFlags(cmd *cobra.Command) (nutri.Window, error) {
	if all, _ := cmd.Flags().GetBool("all"); all {
		return nutri.Window{}, nil
	}
	days, _ := cmd.Flags().GetInt("days")
	if days < 1 {
		return nutri.Window{}, fmt.Errorf("--days must be at least 1")
	}
	return nutri.LastDays(time.Now(), days), nil
}

func describeWindow(w nutri.Window) string {
	if w.IsAllTime() {
		return "all time"
	}
	return fmt.Sprintf("%s to %s", w.From.Format("2006-01-02"), w.To.AddDate(0, 0, -1).Format("2006-01-02"))
}

var rootCmd = &cobra.Command{
	Use:          "nutri",
	Short:        "Track meals and trainings, get meal suggestions",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration and database",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		installID := uuid.New().String()
		secret, err := randomSecret()
		if err != nil {
			return err
		}

		cfg := config.NewConfig(installID, defaults["base_dir"])
		cfg.Auth.Secret = secret

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		if err := app.MigrateDatabase(cfg); err != nil {
			return err
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Install ID: %s\n", installID)
		fmt.Printf("Base Dir:   %s\n", defaults["base_dir"])
		fmt.Printf("Secrets such as %s can go in %s\n", config.EnvRecipesAPIKey, defaults["env_file"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, defaults, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Install ID: %s\n", cfg.InstallID)
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Database:   %s %s\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Storage:    %s (%s)\n", cfg.Storage.Type, cfg.Storage.Name)
		fmt.Printf("Recipes:    %s (api key %s)\n", cfg.Recipes.BaseURL, setOrNot(cfg.Recipes.APIKey))
		fmt.Printf("Archive:    %s\n", cfg.Archive.Type)
		return nil
	},
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the photo store is reachable and writable",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "CheckStorage", "")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.CheckStorage(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Photo store OK")
		return nil
	},
}

// db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the database",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if err := app.MigrateDatabase(cfg); err != nil {
			return err
		}
		fmt.Println("Database is up to date")
		return nil
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := app.DatabaseStatus(cfg)
		if err != nil {
			return err
		}
		fmt.Printf("Version: %d\nLatest:  %d\nPending: %d\n", st.Version, st.Latest, st.Pending())
		if st.Dirty {
			fmt.Println("Dirty:   yes (a migration failed)")
		}
		return nil
	},
}

var dbBackupCmd = &cobra.Command{
	Use:   "backup PATH",
	Short: "Write a snapshot of the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "BackupDatabase", args[0])
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.BackupDatabase(args[0]); err != nil {
			return err
		}
		fmt.Printf("Database written to %s\n", args[0])
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd, "History", "")
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.History(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		for _, op := range ops {
			duration := ""
			if op.FinishedAt != nil {
				duration = op.FinishedAt.Sub(op.StartedAt).Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-15s  %s  %-8s  %-10s  %s\n",
				op.ID,
				op.Operation,
				op.StartedAt.Local().Format("2006-01-02 15:04:05"),
				op.Status,
				duration,
				op.RequestID,
			)
		}
		return nil
	},
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func setOrNot(s string) string {
	if s == "" {
		return "not set"
	}
	return "set"
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print info and debug logs to stderr")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configCheckCmd)

	// db subcommands
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbBackupCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")

	addAccountCommands(rootCmd)
	addMealCommands(rootCmd)
	addTrainingCommands(rootCmd)
	addAnalysisCommands(rootCmd)
	addArchiveCommands(rootCmd)
}
