package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/its-jojoo/clipshelf/internal/core"
)

func (a *app) categoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"c"},
		Short:   "Work with snippet categories",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, done, err := a.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			out := cmd.OutOrStdout()
			for _, c := range lib.Categories() {
				mark := " "
				if core.IsReservedCategory(c.ID) {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %s %s (%d)\n", mark, c.ID, c.Name, len(lib.SnippetsForCategory(c.ID)))
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <name...>",
		Short: "Create a category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, done, err := a.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			return await(cmd, lib.AddCategory(strings.Join(args, " ")), "created", "(ignored)")
		},
	}

	rename := &cobra.Command{
		Use:   "rename <id> <name...>",
		Short: "Rename a category",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, done, err := a.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			c := core.SnippetCategory{ID: args[0], Name: strings.Join(args[1:], " ")}
			return await(cmd, lib.UpdateCategory(c), "renamed", "(ignored)")
		},
	}

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a category and every snippet in it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, done, err := a.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			b := lib.DeleteCategory(args[0])
			return await(cmd, b,
				fmt.Sprintf("deleted category and %d snippets", max(b.Len()-1, 0)),
				"(reserved categories cannot be deleted)")
		},
	}

	cmd.AddCommand(list, add, rename, del)
	return cmd
}
