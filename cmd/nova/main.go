package main

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/novahq/nova/internal/config"
	"github.com/novahq/nova/internal/storage"
)

var (
	dbPath  string
	Version = "dev"
	logger  = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	novaStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78"))

	failureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nova",
	Short: "Personal command assistant",
	Long: titleStyle.Render("nova") + " - A local personal assistant\n\n" +
		"Understands typed commands (time, weather, calculations, opening\n" +
		"apps and websites), keeps notes, and records every command it runs\n" +
		"in a local SQLite database.",
	// Bare `nova` drops straight into the interactive session.
	RunE: runREPL,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to database file (default $NOVA_DB_PATH or ~/.nova/nova.db)")

	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

func getStore(ctx context.Context, cfg *config.Config) (*storage.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, err
	}
	return storage.New(ctx, cfg.DBPath)
}

// localUser resolves the operator account every CLI command acts as.
func localUser(ctx context.Context, store *storage.Store, cfg *config.Config) (*storage.User, error) {
	return store.EnsureLocalUser(ctx, cfg.Username, cfg.Email)
}

// --- Init command ---

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := getStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if _, err := localUser(ctx, store, cfg); err != nil {
			return err
		}

		logger.Info("Database initialized", "path", dimStyle.Render(store.Path()))
		return nil
	},
}

// --- Stats command ---

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := getStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		user, err := localUser(ctx, store, cfg)
		if err != nil {
			return err
		}

		version, err := store.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		notes, err := store.ListNotes(ctx, user.ID, true)
		if err != nil {
			return err
		}
		categories, err := store.ListCategories(ctx)
		if err != nil {
			return err
		}

		println(titleStyle.Render("Database Statistics"))
		println()
		println("  " + dimStyle.Render("Path:") + "       " + store.Path())
		println("  " + dimStyle.Render("Schema:") + "     " + successStyle.Render(itoa64(version)))
		println("  " + dimStyle.Render("User:") + "       " + user.Username)
		println("  " + dimStyle.Render("Notes:") + "      " + successStyle.Render(itoa(len(notes))))
		println("  " + dimStyle.Render("Categories:") + " " + successStyle.Render(itoa(len(categories))))
		println("  " + dimStyle.Render("History:") + "    " + successStyle.Render(itoa(store.CountHistory(ctx, user.ID))))
		return nil
	},
}

// --- Version command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		println(titleStyle.Render("nova") + " " + dimStyle.Render(Version))
	},
}

// --- Helpers ---

func itoa(i int) string {
	return strconv.Itoa(i)
}

func itoa64(i int64) string {
	return strconv.FormatInt(i, 10)
}
