package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	newsapp "github.com/contentgen/backend/internal/application/news"
)

func (c *cli) newsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news",
		Short: "Work with news headlines",
	}

	var req newsapp.FetchNewsRequest
	fetch := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch top headlines and store the new ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel, a, err := c.context(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			resp, err := a.News.FetchAndSave(ctx, req)
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), resp, func(w io.Writer) {
				fmt.Fprintf(w, "Saved %d new articles\n", resp.ArticlesFetched)
				for _, art := range resp.Articles {
					fmt.Fprintf(w, "  %s  %s\n", art.ID, art.Title)
				}
			})
		},
	}
	fetch.Flags().StringVar(&req.Category, "category", "general", "News category")
	fetch.Flags().StringVar(&req.Country, "country", "us", "Two-letter country code")
	fetch.Flags().IntVar(&req.PageSize, "page-size", 20, "Number of headlines to request (max 100)")
	fetch.Flags().StringVar(&req.Source, "source", newsapp.DefaultSource, "News source: newsapi, gnews or guardian")

	cmd.AddCommand(fetch)
	return cmd
}
