package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eringen/blogster"
)

func newPublishCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <id>",
		Short: "Publish a post to the active relays",
		Long: `Sign the post as a long-form (kind 30023) event and send it to the
active relays. The post is marked Published when at least one relay
accepts it, and Failed otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(a *blogster.App) error {
				out, err := a.PublishPost(cmd.Context(), args[0])
				w := cmd.OutOrStdout()
				for _, r := range out.Results {
					if r.Err != nil {
						fmt.Fprintf(w, "  x %s: %v\n", r.Relay, r.Err)
					} else {
						fmt.Fprintf(w, "  ok %s\n", r.Relay)
					}
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Published %s as event %s to %s\n", out.Post.ID, out.EventID, strings.Join(out.Accepted, ", "))
				if addr, err := a.PostAddress(out.Post); err == nil {
					fmt.Fprintf(w, "Address: %s\n", addr)
				}
				return nil
			})
		},
	}
}

func newUploadCmd(flags *globalFlags) *cobra.Command {
	var featured bool
	cmd := &cobra.Command{
		Use:   "upload <id> <file>",
		Short: "Upload an image to Blossom and attach it to a post",
		Long: `Upload an image to the configured Blossom server. With --featured the
URL becomes the post's featured image; otherwise a Markdown image link is
appended to the body.

Example:
  blogster upload 3f2a... cover.jpg --featured`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(a *blogster.App) error {
				u, p, err := a.UploadImageFile(cmd.Context(), args[0], args[1], featured)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%s, %s)\n%s\n", u.Name, u.Type, blogster.HumanSize(u.Size), u.URL)
				if featured {
					fmt.Fprintf(cmd.OutOrStdout(), "Set as featured image of %s\n", p.ID)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&featured, "featured", false, "Use the image as the post's featured image")
	return cmd
}
