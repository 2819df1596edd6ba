package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eringen/blogster"
)

func newNewCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "new [title]",
		Short: "Create a new draft post",
		Long: `Create a new draft post and print its id.

Example:
  blogster new "Notes on relays"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := ""
			if len(args) == 1 {
				title = args[0]
			}
			return withApp(flags, func(a *blogster.App) error {
				p, err := a.CreatePost(title)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n%s\n", p.ID, p.FilePath)
				return nil
			})
		},
	}
}

func newListCmd(flags *globalFlags) *cobra.Command {
	var status, search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Long: `List posts, newest first.

Example:
  blogster list --status draft --search nostr`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := parseStatusFlag(status)
			if err != nil {
				return err
			}
			return withApp(flags, func(a *blogster.App) error {
				posts, err := a.ListPosts(search, st)
				if err != nil {
					return err
				}
				printPosts(cmd.OutOrStdout(), posts)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Only show posts with this status: draft, published, failed")
	cmd.Flags().StringVar(&search, "search", "", "Only show posts whose title, summary, content or tags match")
	return cmd
}

func parseStatusFlag(s string) (blogster.PostStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "draft", "drafts":
		return blogster.StatusDraft, nil
	case "published":
		return blogster.StatusPublished, nil
	case "failed":
		return blogster.StatusFailed, nil
	}
	return "", fmt.Errorf("unknown status %q (want draft, published or failed)", s)
}

func printPosts(out io.Writer, posts []blogster.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(out, "No posts.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tUPDATED\tTITLE")
	for _, p := range posts {
		title := p.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Status, p.UpdatedAt.Format("2006-01-02 15:04"), title)
	}
	w.Flush()
}

func newShowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a post's metadata and content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(a *blogster.App) error {
				p, err := a.GetPost(args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:       %s\n", p.ID)
				fmt.Fprintf(out, "Title:    %s\n", p.Title)
				fmt.Fprintf(out, "Summary:  %s\n", p.Summary)
				fmt.Fprintf(out, "Tags:     %s\n", blogster.JoinTags(p.Tags))
				fmt.Fprintf(out, "Image:    %s\n", p.Image)
				fmt.Fprintf(out, "Status:   %s\n", p.Status)
				fmt.Fprintf(out, "Created:  %s\n", p.CreatedAt.Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "Updated:  %s\n", p.UpdatedAt.Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "Words:    %d (%d min read)\n", p.WordCount(), p.ReadingTime())
				if p.EventID != "" {
					fmt.Fprintf(out, "Event:    %s\n", p.EventID)
					fmt.Fprintf(out, "Relays:   %s\n", strings.Join(p.PublishedRelays, ", "))
					if addr, err := a.PostAddress(p); err == nil {
						fmt.Fprintf(out, "Address:  %s\n", addr)
					}
				}
				fmt.Fprintf(out, "File:     %s\n\n%s\n", p.FilePath, p.Content)
				return nil
			})
		},
	}
}

func newEditCmd(flags *globalFlags) *cobra.Command {
	var (
		title, summary, image, contentFile string
		tags, untags                       []string
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a post's fields",
		Long: `Change a post's fields. Only the flags given are applied.

Use --content-file - to read the body from stdin.

Example:
  blogster edit 3f2a... --title "Relays" --tag nostr --tag go --content-file draft.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var e blogster.PostEdit
			f := cmd.Flags()
			if f.Changed("title") {
				e.Title = &title
			}
			if f.Changed("summary") {
				e.Summary = &summary
			}
			if f.Changed("image") {
				e.Image = &image
			}
			if contentFile != "" {
				content, err := readContent(cmd.InOrStdin(), contentFile)
				if err != nil {
					return err
				}
				e.Content = &content
			}
			e.AddTags = blogster.FilterEmpty(tags)
			e.RemoveTags = blogster.FilterEmpty(untags)

			return withApp(flags, func(a *blogster.App) error {
				p, err := a.UpdatePost(args[0], e)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", p.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Post title")
	cmd.Flags().StringVar(&summary, "summary", "", "Post summary")
	cmd.Flags().StringVar(&image, "image", "", "Featured image URL (empty clears it)")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "Read the Markdown body from this file")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Add a tag (repeatable)")
	cmd.Flags().StringArrayVar(&untags, "untag", nil, "Remove a tag (repeatable)")
	return cmd
}

func readContent(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	return string(data), nil
}

func newDeleteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(a *blogster.App) error {
				if err := a.DeletePost(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newImportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a Markdown file as a post",
		Long: `Import a Markdown file as a post. Frontmatter is read when present;
a file without it becomes a draft titled after its first heading.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(a *blogster.App) error {
				p, err := a.ImportPost(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %s (%s)\n", p.ID, p.Title)
				return nil
			})
		},
	}
}

func newExportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export <id> <dest>",
		Short: "Write a post with its frontmatter to a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(a *blogster.App) error {
				if err := a.ExportPost(args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", args[0], args[1])
				return nil
			})
		},
	}
}
