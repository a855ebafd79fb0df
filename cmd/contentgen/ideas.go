package main

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	ideaapp "github.com/contentgen/backend/internal/application/idea"
)

func (c *cli) ideasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ideas",
		Short: "Work with video ideas",
	}

	var (
		articleID string
		num       int
		styles    []string
	)
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate video ideas for a stored article",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := uuid.Parse(articleID)
			if err != nil {
				return fmt.Errorf("invalid --article %q: %w", articleID, err)
			}

			ctx, cancel, a, err := c.context(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			resp, err := a.Ideas.Generate(ctx, ideaapp.GenerateIdeasRequest{
				ArticleID: id,
				NumIdeas:  num,
				Styles:    styles,
			})
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), resp, func(w io.Writer) {
				fmt.Fprintf(w, "Generated %d ideas\n", resp.IdeasGenerated)
				for _, i := range resp.Ideas {
					fmt.Fprintf(w, "  %s  [%s] %s\n", i.ID, i.Style, i.Title)
					fmt.Fprintf(w, "      %s\n", i.VideoPrompt)
				}
			})
		},
	}
	generate.Flags().StringVar(&articleID, "article", "", "Article ID")
	generate.Flags().IntVar(&num, "num", 3, "Number of ideas (1-10)")
	generate.Flags().StringSliceVar(&styles, "style", nil, "Preferred styles, e.g. comedic,documentary")
	_ = generate.MarkFlagRequired("article")

	cmd.AddCommand(generate)
	return cmd
}
