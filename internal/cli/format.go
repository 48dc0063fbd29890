// Package cli implements the xrtcal commands and renders their results.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

const (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"
	red   = "\033[31m"
	green = "\033[32m"
)

// colorEnabled reports whether w is a terminal.
func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func colorize(w io.Writer, color, text string) string {
	if !colorEnabled(w) {
		return text
	}
	return color + text + reset
}

func header(w io.Writer, title string) string {
	return colorize(w, bold, title)
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// table aligns rows under a header line.
type table struct {
	tw     *tabwriter.Writer
	indent string
}

func newTable(w io.Writer, indent string, columns ...string) *table {
	t := &table{tw: tabwriter.NewWriter(w, 0, 4, 2, ' ', 0), indent: indent}
	t.row(columns...)
	under := make([]string, len(columns))
	for i, c := range columns {
		under[i] = strings.Repeat("-", len(c))
	}
	t.row(under...)
	return t
}

func (t *table) row(cells ...string) {
	fmt.Fprintln(t.tw, t.indent+strings.Join(cells, "\t"))
}

func (t *table) flush() error {
	return t.tw.Flush()
}

// field prints one aligned "label: value" line.
func field(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "    %-22s %v\n", colorize(w, dim, label+":"), value)
}
