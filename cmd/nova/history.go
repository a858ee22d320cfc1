package main

import (
	"github.com/spf13/cobra"

	"github.com/novahq/nova/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect command history",
	RunE:  runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent commands, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
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

	// Bare `nova history` has no flags registered; the zero values fall
	// back to the store defaults.
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	prefix, _ := cmd.Flags().GetString("prefix")
	statusNames, _ := cmd.Flags().GetStringSlice("status")

	filter := storage.HistoryFilter{
		UserID:        user.ID,
		CommandPrefix: prefix,
		Limit:         limit,
		Offset:        offset,
	}
	for _, name := range statusNames {
		filter.Statuses = append(filter.Statuses, storage.Status(name))
	}

	entries, err := store.ListHistory(ctx, filter)
	if err != nil {
		return reportStorageError(err)
	}
	printHistory(entries)
	return nil
}

var historySearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search command and response text",
	Args:  cobra.ExactArgs(1),
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

		limit, _ := cmd.Flags().GetInt("limit")
		entries, err := store.SearchHistory(ctx, user.ID, args[0], limit)
		if err != nil {
			return reportStorageError(err)
		}
		printHistory(entries)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all command history (irreversible)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			logger.Error("This permanently deletes your history; re-run with --yes to confirm")
			return nil
		}

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

		n, err := store.ClearHistory(ctx, user.ID)
		if err != nil {
			return reportStorageError(err)
		}
		logger.Info("Cleared history", "deleted", n)
		return nil
	},
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum entries")
	historyListCmd.Flags().Int("offset", 0, "entries to skip")
	historyListCmd.Flags().String("prefix", "", "only commands starting with this text")
	historyListCmd.Flags().StringSlice("status", nil, "filter by status: success, failure, error")
	historySearchCmd.Flags().Int("limit", 20, "maximum entries")
	historyClearCmd.Flags().Bool("yes", false, "confirm deletion")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyClearCmd)
}

func printHistory(entries []*storage.HistoryEntry) {
	if len(entries) == 0 {
		logger.Info("No history entries found")
		return
	}
	for _, e := range entries {
		status := successStyle.Render(string(e.Status))
		if e.Status != storage.StatusSuccess {
			status = failureStyle.Render(string(e.Status))
		}
		line := dimStyle.Render(e.Timestamp.Format("2006-01-02 15:04")) +
			" " + e.Command + " " + status
		println(line)
		if e.Response != nil {
			println("  " + dimStyle.Render(*e.Response))
		}
	}
}
