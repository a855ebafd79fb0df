package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	videoapp "github.com/contentgen/backend/internal/application/video"
)

func (c *cli) videoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "video",
		Short: "Create video generations and inspect models",
	}

	var (
		req     videoapp.CreateVideoRequest
		wait    bool
		pollFor time.Duration
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Start a video generation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(req.Prompt) == "" {
				return fmt.Errorf("--prompt is required")
			}

			ctx, cancel, a, err := c.context(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			created, err := a.Videos.Create(ctx, req)
			if err != nil {
				return err
			}
			result := created.Video
			if wait {
				done, err := a.Videos.Wait(ctx, result.ID, pollFor)
				if err != nil {
					return err
				}
				result = *done
				if _, err := a.Videos.Download(ctx, result.ID); err != nil {
					return err
				}
				result.Downloaded = true
			}

			return c.print(cmd.OutOrStdout(), result, func(w io.Writer) {
				fmt.Fprintf(w, "Video %s\n", result.ID)
				fmt.Fprintf(w, "  model:    %s (%s)\n", result.Model, result.Provider)
				fmt.Fprintf(w, "  status:   %s\n", result.Status)
				if result.Downloaded {
					fmt.Fprintf(w, "  stored:   yes\n")
				}
			})
		},
	}
	create.Flags().StringVar(&req.Prompt, "prompt", "", "Text prompt")
	create.Flags().StringVar(&req.Model, "model", "auto", "Model: auto, sora-2, sora-2-pro, veo-3.1 or wan-2.5")
	create.Flags().IntVar(&req.Seconds, "seconds", 0, "Clip length in seconds")
	create.Flags().StringVar(&req.Size, "size", "", "Resolution, e.g. 1280x720")
	create.Flags().StringVar(&req.ImageURL, "image-url", "", "Reference image for image-to-video models")
	create.Flags().BoolVar(&wait, "wait", false, "Wait for completion and download the file")
	create.Flags().DurationVar(&pollFor, "poll-timeout", 0, "Maximum wait with --wait (default: configured maximum)")

	models := &cobra.Command{
		Use:   "models",
		Short: "List available video models by provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, cancel, a, err := c.context(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			available := a.Videos.AvailableModels()
			return c.print(cmd.OutOrStdout(), available, func(w io.Writer) {
				providers := make([]string, 0, len(available))
				for p := range available {
					providers = append(providers, p)
				}
				sort.Strings(providers)
				for _, p := range providers {
					fmt.Fprintf(w, "%s: %s\n", p, strings.Join(available[p], ", "))
				}
			})
		},
	}

	cmd.AddCommand(create, models)
	return cmd
}
