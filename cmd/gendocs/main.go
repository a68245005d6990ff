package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/yoanbernabeu/frankenboot/internal/cmd"
)

const (
	formatMarkdown = "md"
	formatMan      = "man"
)

func main() {
	outputDir := flag.String("out", "docs/commands", "Output directory")
	format := flag.String("format", formatMarkdown, "Output format (md or man)")
	flag.Parse()

	if err := generate(cmd.GetRootCmd(), *outputDir, *format); err != nil {
		log.Fatalf("Failed to generate documentation: %v", err)
	}

	log.Printf("Documentation generated in %s", *outputDir)
}

// generate writes one page per command of root into dir
func generate(root *cobra.Command, dir, format string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Reproducible output: no "Auto generated ... on <date>" footer
	root.DisableAutoGenTag = true

	switch format {
	case formatMarkdown:
		return doc.GenMarkdownTree(root, dir)
	case formatMan:
		return doc.GenManTree(root, &doc.GenManHeader{
			Title:   "FRANKENBOOT",
			Section: "1",
			Source:  "frankenboot " + cmd.Version,
		}, dir)
	default:
		return fmt.Errorf("unknown format %q (use %s or %s)", format, formatMarkdown, formatMan)
	}
}
