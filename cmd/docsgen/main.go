// Package main generates markdown reference docs for the userctl commands.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"userctl/pkg/cli"
)

func main() {
	outDir := flag.String("outdir", "docs/reference/generated/cli", "output directory for generated docs")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: create output directory: %v\n", err)
		os.Exit(1)
	}

	root := cli.NewRootCommand()
	root.DisableAutoGenTag = true
	if err := doc.GenMarkdownTree(root, *outDir); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: generate CLI docs: %v\n", err)
		os.Exit(1)
	}
}
