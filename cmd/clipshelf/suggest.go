package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/its-jojoo/clipshelf/internal/adapter/suggest"
)

func (a *app) suggester() (suggest.Suggester, error) {
	oa, err := suggest.NewOpenAI(suggest.OpenAIConfig{
		APIKey:  a.cfg.Suggest.APIKey,
		Model:   a.cfg.Suggest.Model,
		BaseURL: a.cfg.Suggest.BaseURL,
		Logger:  a.log,
	})
	if err != nil {
		return nil, err
	}
	return oa, nil
}

func (a *app) suggestCmd() *cobra.Command {
	var text, application string
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask the model which saved snippets fit what you are typing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.suggester()
			if err != nil {
				return err
			}
			lib, done, err := a.openLibrary(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			history, snippets := lib.SuggestionContext()
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*syncTimeout)
			defer cancel()
			resp, err := s.Suggest(ctx, suggest.Request{
				CurrentApplication: application,
				CurrentText:        text,
				ClipboardHistory:   history,
				SavedSnippets:      snippets,
			})
			if err != nil {
				return fmt.Errorf("failed to get suggestions: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(resp.SuggestedSnippets) == 0 {
				fmt.Fprintln(out, "(no relevant snippets)")
				return nil
			}
			for _, sn := range resp.SuggestedSnippets {
				fmt.Fprintln(out, "-", sn)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "the text you are currently typing")
	cmd.Flags().StringVarP(&application, "app", "a", suggest.DefaultApplication, "the application in front")
	return cmd
}
