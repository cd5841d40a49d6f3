package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --format
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// outputResult writes result in the configured format. table renders the
// human-readable form and is only called for the table format.
func (cli *CLI) outputResult(result interface{}, table func(w io.Writer)) error {
	format := strings.ToLower(cli.viperInst.GetString("format"))

	switch format {
	case formatJSON:
		encoder := json.NewEncoder(cli.out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case formatYAML:
		encoder := yaml.NewEncoder(cli.out)
		encoder.SetIndent(2)
		if err := encoder.Encode(result); err != nil {
			return err
		}
		return encoder.Close()
	case formatTable, "":
		w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
		table(w)
		return w.Flush()
	default:
		return NewValidationError("write output", "format", format, "Use --format table, json or yaml")
	}
}

// message prints a confirmation line in table mode. Structured formats get
// result instead so scripts can read the ids.
func (cli *CLI) message(result interface{}, format string, args ...interface{}) error {
	return cli.outputResult(result, func(w io.Writer) {
		fmt.Fprintf(w, format+"\n", args...)
	})
}

func relTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func dueLabel(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
