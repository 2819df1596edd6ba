// Command blogster writes Markdown posts and publishes them to Nostr relays.
//
// Posts live as Markdown files with YAML frontmatter in the config
// directory. Every operation of the web editor (blogster serve) is also
// available as a subcommand:
//
//	blogster keys generate
//	blogster new "My first post"
//	blogster edit <id> --content-file post.md --tag nostr
//	blogster upload <id> cover.png --featured
//	blogster publish <id>
package main

import (
	"fmt"
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
