package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/its-jojoo/clipshelf/internal/core"
	"github.com/its-jojoo/clipshelf/internal/usecase/search"
)

func (a *app) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"h"},
		Short:   "Work with the clipboard history",
	}

	var (
		query string
		rank  bool
		limit int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List history items, pinned first and then newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, done, err := a.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			var items []core.ClipboardItem
			if rank {
				items = search.Rank(lib.History(), query, search.Options{Limit: limit})
			} else {
				items = search.Filter(lib.History(), query)
				if limit > 0 && len(items) > limit {
					items = items[:limit]
				}
			}
			printHistory(cmd, items)
			return nil
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "only items containing this text (case-insensitive)")
	list.Flags().BoolVar(&rank, "rank", false, "order matches by relevance instead of display order")
	list.Flags().IntVarP(&limit, "limit", "n", 20, "maximum items to show")

	add := &cobra.Command{
		Use:   "add <text...|->",
		Short: "Add text to the history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := argOrStdin(cmd, args)
			if err != nil {
				return err
			}
			lib, done, err := a.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			return await(cmd, lib.AddHistoryItem(content), "saved", "(ignored)")
		},
	}

	pin := &cobra.Command{
		Use:   "pin <id>",
		Short: "Toggle the pinned flag of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, done, err := a.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			return await(cmd, lib.TogglePinHistoryItem(args[0]), "toggled", "(no such item)")
		},
	}

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a history item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, done, err := a.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			return await(cmd, lib.DeleteHistoryItem(args[0]), "deleted", "(ignored)")
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every unpinned item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, done, err := a.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			b := lib.ClearHistory()
			return await(cmd, b, fmt.Sprintf("cleared %d items", b.Len()), "(nothing to clear)")
		},
	}

	cmd.AddCommand(list, add, pin, del, clearCmd)
	return cmd
}

func printHistory(cmd *cobra.Command, items []core.ClipboardItem) {
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "(empty)")
		return
	}
	for i, it := range items {
		pin := " "
		if it.IsPinned {
			pin = "★"
		}
		fmt.Fprintf(out, "%2d %s %s %s\n", i+1, pin, it.ID, core.Preview(it.Content, 80))
	}
}
