package main

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/novahq/nova/internal/storage"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes",
}

var noteCreateCmd = &cobra.Command{
	Use:   "create <title> <content>",
	Short: "Create a new note",
	Args:  cobra.ExactArgs(2),
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

		tags, _ := cmd.Flags().GetStringSlice("tags")
		categoryID, _ := cmd.Flags().GetInt64("category")

		params := storage.NoteParams{
			Title:   args[0],
			Content: args[1],
			UserID:  user.ID,
			Tags:    tags,
		}
		if categoryID > 0 {
			params.CategoryID = &categoryID
		}

		note, err := store.CreateNote(ctx, params)
		if err != nil {
			return reportStorageError(err)
		}

		logger.Info("Created note",
			"id", note.ID,
			"title", novaStyle.Render(note.Title))
		return nil
	},
}

var noteGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := parseID(args[0])
		if err != nil {
			return err
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

		note, err := store.GetNote(ctx, id, user.ID)
		if err != nil {
			return reportStorageError(err)
		}

		printNote(note)
		return nil
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
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

		pinned, _ := cmd.Flags().GetBool("pinned")
		archived, _ := cmd.Flags().GetBool("archived")
		all, _ := cmd.Flags().GetBool("all")
		tag, _ := cmd.Flags().GetString("tag")
		categoryID, _ := cmd.Flags().GetInt64("category")

		var notes []*storage.Note
		switch {
		case pinned:
			notes, err = store.ListPinnedNotes(ctx, user.ID)
		case archived:
			notes, err = store.ListArchivedNotes(ctx, user.ID)
		case tag != "":
			notes, err = store.ListNotesByTag(ctx, user.ID, tag)
		case categoryID > 0:
			notes, err = store.ListNotesByCategory(ctx, user.ID, categoryID)
		default:
			notes, err = store.ListNotes(ctx, user.ID, all)
		}
		if err != nil {
			return reportStorageError(err)
		}

		if len(notes) == 0 {
			logger.Info("No notes found")
			return nil
		}
		for _, n := range notes {
			flags := ""
			if n.Pinned {
				flags += " " + successStyle.Render("[pinned]")
			}
			if n.Archived {
				flags += " " + dimStyle.Render("[archived]")
			}
			println(dimStyle.Render("#"+itoa64(n.ID)) + " " + novaStyle.Render(n.Title) + flags)
		}
		return nil
	},
}

var noteUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a note's title or content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := parseID(args[0])
		if err != nil {
			return err
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

		var patch storage.NotePatch
		if cmd.Flags().Changed("title") {
			title, _ := cmd.Flags().GetString("title")
			patch.Title = &title
		}
		if cmd.Flags().Changed("content") {
			content, _ := cmd.Flags().GetString("content")
			patch.Content = &content
		}
		if patch.Title == nil && patch.Content == nil {
			logger.Error("Nothing to update; pass --title or --content")
			return nil
		}

		if err := store.UpdateNote(ctx, id, user.ID, patch); err != nil {
			return reportStorageError(err)
		}
		logger.Info("Updated note", "id", id)
		return nil
	},
}

// noteAction builds the single-id note commands (delete, pin, archive);
// they differ only in the store call and the log line.
func noteAction(verb string, fn func(ctx context.Context, store *storage.Store, id, userID int64) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := parseID(args[0])
		if err != nil {
			return err
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

		if err := fn(ctx, store, id, user.ID); err != nil {
			return reportStorageError(err)
		}
		logger.Info(verb+" note", "id", id)
		return nil
	}
}

var noteDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: noteAction("Deleted", func(ctx context.Context, store *storage.Store, id, userID int64) error {
		return store.DeleteNote(ctx, id, userID)
	}),
}

var notePinCmd = &cobra.Command{
	Use:   "pin <id>",
	Short: "Pin a note",
	Args:  cobra.ExactArgs(1),
	RunE: noteAction("Pinned", func(ctx context.Context, store *storage.Store, id, userID int64) error {
		return store.SetNotePinned(ctx, id, userID, true)
	}),
}

var noteUnpinCmd = &cobra.Command{
	Use:   "unpin <id>",
	Short: "Unpin a note",
	Args:  cobra.ExactArgs(1),
	RunE: noteAction("Unpinned", func(ctx context.Context, store *storage.Store, id, userID int64) error {
		return store.SetNotePinned(ctx, id, userID, false)
	}),
}

var noteArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a note",
	Args:  cobra.ExactArgs(1),
	RunE: noteAction("Archived", func(ctx context.Context, store *storage.Store, id, userID int64) error {
		return store.SetNoteArchived(ctx, id, userID, true)
	}),
}

var noteUnarchiveCmd = &cobra.Command{
	Use:   "unarchive <id>",
	Short: "Unarchive a note",
	Args:  cobra.ExactArgs(1),
	RunE: noteAction("Unarchived", func(ctx context.Context, store *storage.Store, id, userID int64) error {
		return store.SetNoteArchived(ctx, id, userID, false)
	}),
}

var noteTagCmd = &cobra.Command{
	Use:   "tag <id> <tag>",
	Short: "Attach a tag to a note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := parseID(args[0])
		if err != nil {
			return err
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

		if err := store.AddNoteTag(ctx, id, user.ID, args[1]); err != nil {
			return reportStorageError(err)
		}
		logger.Info("Tagged note", "id", id, "tag", args[1])
		return nil
	},
}

var noteUntagCmd = &cobra.Command{
	Use:   "untag <id> <tag>",
	Short: "Detach a tag from a note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := parseID(args[0])
		if err != nil {
			return err
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

		if err := store.RemoveNoteTag(ctx, id, user.ID, args[1]); err != nil {
			return reportStorageError(err)
		}
		logger.Info("Untagged note", "id", id, "tag", args[1])
		return nil
	},
}

var noteCategorizeCmd = &cobra.Command{
	Use:   "category <id> [category-id]",
	Short: "Assign a note to a category, or clear it",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := parseID(args[0])
		if err != nil {
			return err
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

		var categoryID *int64
		if len(args) == 2 {
			cid, err := parseID(args[1])
			if err != nil {
				return err
			}
			categoryID = &cid
		}

		if err := store.AssignCategory(ctx, id, user.ID, categoryID); err != nil {
			return reportStorageError(err)
		}
		if categoryID == nil {
			logger.Info("Cleared note category", "id", id)
		} else {
			logger.Info("Categorized note", "id", id, "category", *categoryID)
		}
		return nil
	},
}

func init() {
	noteCreateCmd.Flags().StringSlice("tags", nil, "tags to attach")
	noteCreateCmd.Flags().Int64("category", 0, "category id")
	noteListCmd.Flags().Bool("pinned", false, "only pinned notes")
	noteListCmd.Flags().Bool("archived", false, "only archived notes")
	noteListCmd.Flags().Bool("all", false, "include archived notes")
	noteListCmd.Flags().String("tag", "", "only notes with this tag")
	noteListCmd.Flags().Int64("category", 0, "only notes in this category")
	noteUpdateCmd.Flags().String("title", "", "new title")
	noteUpdateCmd.Flags().String("content", "", "new content")

	noteCmd.AddCommand(noteCreateCmd)
	noteCmd.AddCommand(noteGetCmd)
	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteUpdateCmd)
	noteCmd.AddCommand(noteDeleteCmd)
	noteCmd.AddCommand(noteTagCmd)
	noteCmd.AddCommand(noteUntagCmd)
	noteCmd.AddCommand(noteCategorizeCmd)
	noteCmd.AddCommand(notePinCmd)
	noteCmd.AddCommand(noteUnpinCmd)
	noteCmd.AddCommand(noteArchiveCmd)
	noteCmd.AddCommand(noteUnarchiveCmd)
}

// --- Category commands ---

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage categories",
}

var categoryCreateCmd = &cobra.Command{
	Use:   "create <name> [description]",
	Short: "Create a category",
	Args:  cobra.RangeArgs(1, 2),
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

		description := ""
		if len(args) == 2 {
			description = args[1]
		}
		cat, err := store.CreateCategory(ctx, args[0], description)
		if err != nil {
			return reportStorageError(err)
		}
		logger.Info("Created category", "id", cat.ID, "name", novaStyle.Render(cat.Name))
		return nil
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
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

		cats, err := store.ListCategories(ctx)
		if err != nil {
			return reportStorageError(err)
		}
		if len(cats) == 0 {
			logger.Info("No categories found")
			return nil
		}
		for _, c := range cats {
			line := dimStyle.Render("#"+itoa64(c.ID)) + " " + novaStyle.Render(c.Name)
			if c.Description != nil {
				line += " " + dimStyle.Render(*c.Description)
			}
			println(line)
		}
		return nil
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category (notes keep their content)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := parseID(args[0])
		if err != nil {
			return err
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

		if err := store.DeleteCategory(ctx, id); err != nil {
			return reportStorageError(err)
		}
		logger.Info("Deleted category", "id", id)
		return nil
	},
}

func init() {
	categoryCmd.AddCommand(categoryCreateCmd)
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryDeleteCmd)
}

// --- Helpers ---

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id: " + s)
	}
	return id, nil
}

func printNote(n *storage.Note) {
	println(dimStyle.Render("#"+itoa64(n.ID)) + " " + titleStyle.Render(n.Title))
	if n.Pinned {
		println("  " + successStyle.Render("pinned"))
	}
	if n.Archived {
		println("  " + dimStyle.Render("archived"))
	}
	if len(n.Tags) > 0 {
		println("  " + dimStyle.Render("tags: "+strings.Join(n.Tags, ", ")))
	}
	if n.CategoryID != nil {
		println("  " + dimStyle.Render("category: #"+itoa64(*n.CategoryID)))
	}
	println()
	println(n.Content)
}

func reportStorageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		logger.Error("Not found")
		os.Exit(1)
	case errors.Is(err, storage.ErrValidation):
		logger.Error(err.Error())
		os.Exit(1)
	}
	return err
}
