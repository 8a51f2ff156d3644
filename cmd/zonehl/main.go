// Command zonehl runs the note highlighter over a file or stdin and prints
// the result for a terminal, as HTML lines or as JSON.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"zone/internal/highlight"
	"zone/internal/termstyle"
)

func main() {
	if err := newRootCommand(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "zonehl:", err)
		os.Exit(1)
	}
}

type options struct {
	html  bool
	json  bool
	links bool
	color string
}

func newRootCommand(stdin io.Reader, stdout io.Writer) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "zonehl [file]",
		Short: "Highlight a note the way the editor overlay does",
		Long: `zonehl tokenizes a note line by line and prints it painted for the
terminal. With no file, or with "-", it reads stdin.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.html && opts.json {
				return errors.New("--html and --json are mutually exclusive")
			}
			src, err := readSource(stdin, args)
			if err != nil {
				return err
			}
			return run(cmd.OutOrStdout(), src, opts)
		},
	}
	cmd.SetOut(stdout)
	cmd.Flags().BoolVar(&opts.html, "html", false, "print one HTML span tree per line")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the span tree as JSON")
	cmd.Flags().BoolVar(&opts.links, "links", false, "print the links found instead of the text")
	cmd.Flags().StringVar(&opts.color, "color", "auto", "colorize output: auto, always, never")
	return cmd
}

func readSource(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func run(w io.Writer, src string, opts options) error {
	lines, meta := highlight.HighlightLinks(src)
	switch {
	case opts.links:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	case opts.json:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(lines)
	case opts.html:
		_, err := io.WriteString(w, strings.Join(highlight.HTMLLines(lines), "\n")+"\n")
		return err
	}
	painter := termstyle.New(w, termstyle.ColorEnabled(opts.color, w))
	out := painter.Paint(lines)
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err := io.WriteString(w, out)
	return err
}
