package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/codegrow/frontend/core/collection"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

type table struct {
	headers []string
	rows    [][]string
}

func (t *table) add(cols ...string) {
	t.rows = append(t.rows, cols)
}

// render writes v as JSON or YAML, or tbl as an aligned table.
func render(out io.Writer, format string, v interface{}, tbl *table) error {
	format = strings.ToLower(format)
	if tbl == nil && (format == formatTable || format == "") {
		format = formatYAML
	}
	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		// go through JSON so null.* fields and json tags are honored
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic interface{}
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	case formatTable, "":
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, strings.Join(tbl.headers, "\t"))
		for _, row := range tbl.rows {
			fmt.Fprintln(w, strings.Join(row, "\t"))
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// pageView is what list commands print in json/yaml.
type pageView[T any] struct {
	collection.Page[T]
	TotalPages int `json:"total_pages"`
}

func renderPage[T any](out io.Writer, format string, page collection.Page[T], tbl *table) error {
	if err := render(out, format, pageView[T]{Page: page, TotalPages: page.TotalPages()}, tbl); err != nil {
		return err
	}
	if format == formatTable || format == "" {
		if len(page.Items) == 0 {
			fmt.Fprintln(out, "No results.")
		}
		fmt.Fprintf(out, "page %d/%d (%d total)\n", page.CurrentPage, max(page.TotalPages(), 1), page.TotalCount)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
