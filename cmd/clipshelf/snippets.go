package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/its-jojoo/clipshelf/internal/core"
	"github.com/its-jojoo/clipshelf/internal/usecase/reconcile"
	"github.com/its-jojoo/clipshelf/internal/usecase/search"
)

func (a *app) snippetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snippet",
		Aliases: []string{"s"},
		Short:   "Work with saved snippets",
	}

	var category, query string
	list := &cobra.Command{
		Use:   "list",
		Short: "List snippets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, done, err := a.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			snippets := lib.Snippets()
			if category != "" {
				snippets = lib.SnippetsForCategory(category)
			}
			printSnippets(cmd, search.FilterSnippets(snippets, query))
			return nil
		},
	}
	list.Flags().StringVarP(&category, "category", "c", "", "only snippets in this category id")
	list.Flags().StringVarP(&query, "query", "q", "", "only snippets whose name or content contains this text")

	var in reconcile.SnippetInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Save a new snippet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(in.Name) == "" || in.Content == "" {
				return errors.New("--name and --content are required")
			}
			if in.Content == "-" {
				c, err := argOrStdin(cmd, []string{"-"})
				if err != nil {
					return err
				}
				in.Content = c
			}
			lib, done, err := a.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			return await(cmd, lib.AddSnippet(in), "saved", "(ignored)")
		},
	}
	add.Flags().StringVar(&in.Name, "name", "", "snippet name")
	add.Flags().StringVar(&in.Content, "content", "", "snippet content, - for stdin")
	add.Flags().StringVar(&in.CategoryID, "category", core.CategoryGeneral, "category id")

	var edit reconcile.SnippetInput
	update := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a snippet's name, content or category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, done, err := a.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			sn, ok := findSnippet(lib.Snippets(), args[0])
			if !ok {
				return fmt.Errorf("snippet %q not found", args[0])
			}
			if cmd.Flags().Changed("name") {
				sn.Name = edit.Name
			}
			if cmd.Flags().Changed("content") {
				sn.Content = edit.Content
			}
			if cmd.Flags().Changed("category") {
				sn.CategoryID = edit.CategoryID
			}
			return await(cmd, lib.UpdateSnippet(sn), "updated", "(ignored)")
		},
	}
	update.Flags().StringVar(&edit.Name, "name", "", "new name")
	update.Flags().StringVar(&edit.Content, "content", "", "new content")
	update.Flags().StringVar(&edit.CategoryID, "category", "", "new category id")

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a snippet",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, done, err := a.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			return await(cmd, lib.DeleteSnippet(args[0]), "deleted", "(ignored)")
		},
	}

	cmd.AddCommand(list, add, update, del)
	return cmd
}

func findSnippet(snippets []core.Snippet, id string) (core.Snippet, bool) {
	for _, sn := range snippets {
		if sn.ID == id {
			return sn, true
		}
	}
	return core.Snippet{}, false
}

func printSnippets(cmd *cobra.Command, snippets []core.Snippet) {
	out := cmd.OutOrStdout()
	if len(snippets) == 0 {
		fmt.Fprintln(out, "(empty)")
		return
	}
	for _, sn := range snippets {
		fmt.Fprintf(out, "%s [%s] %s: %s\n", sn.ID, sn.CategoryID, sn.Name, core.Preview(sn.Content, 60))
	}
}
