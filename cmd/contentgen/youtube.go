package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/contentgen/backend/internal/domain/publishing"
)

func (c *cli) youtubeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "youtube",
		Short: "Manage the connected YouTube account",
	}

	auth := &cobra.Command{
		Use:   "auth",
		Short: "Connect a YouTube account through the OAuth consent screen",
		Long: `Prints the Google consent URL, then reads the authorisation code
pasted back from the browser. The token is stored as the YouTube credential
and, when a token file is configured, written there as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel, a, err := c.context(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			url, err := a.Credentials.AuthURL(ctx, string(publishing.PlatformYouTube))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Open this URL in a browser and grant access:")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "  "+url.AuthURL)
			fmt.Fprintln(out)
			fmt.Fprint(out, "Authorisation code: ")

			code, err := readLine(cmd.InOrStdin())
			if err != nil {
				return err
			}
			if code == "" {
				return fmt.Errorf("no authorisation code entered")
			}

			cred, err := a.Credentials.Authorize(ctx, code)
			if err != nil {
				return err
			}
			return c.print(out, cred, func(w io.Writer) {
				fmt.Fprintf(w, "Connected channel %s (%s)\n", cred.ChannelTitle, cred.ChannelID)
				if !cred.HasRefreshToken {
					fmt.Fprintln(w, "Warning: no refresh token was issued; re-run after revoking access to get offline access")
				}
			})
		},
	}

	channels := &cobra.Command{
		Use:   "channels",
		Short: "List channels owned by the connected account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel, a, err := c.context(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			list, err := a.YouTube.ListChannels(ctx)
			if err != nil {
				return err
			}
			return c.print(cmd.OutOrStdout(), list, func(w io.Writer) {
				if len(list) == 0 {
					fmt.Fprintln(w, "No channels found")
					return
				}
				for _, ch := range list {
					fmt.Fprintf(w, "%s  %s  (%d subscribers, %d videos)\n", ch.ID, ch.Title, ch.SubscriberCount, ch.VideoCount)
				}
			})
		},
	}

	cmd.AddCommand(auth, channels)
	return cmd
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
