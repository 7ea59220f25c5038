package cli

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/raysh454/configlens/internal/align"
	"github.com/raysh454/configlens/internal/app"
)

// Render formats a comparison result in the requested output format.
func Render(res *app.CompareResult, format string) (string, error) {
	switch format {
	case OutputText:
		return renderText(res), nil
	case OutputJSON:
		return renderJSON(res)
	case OutputHTML:
		return renderHTML(res), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

func renderText(res *app.CompareResult) string {
	var b strings.Builder
	rows := res.Structural.Rows
	for i, row := range rows {
		st := res.Structural.SourceTypes[i]
		tt := res.Structural.TargetTypes[i]
		switch {
		case st == align.Equal && tt == align.Equal:
			b.WriteString("  " + row.Source + "\n")
		case st == align.Ignore || tt == align.Ignore:
			b.WriteString("  " + pick(row.Source, row.Target) + "\n")
		default:
			if st == align.Delete || st == align.Replace || st == align.Reorder {
				b.WriteString("- " + row.Source + "\n")
			}
			if tt == align.Insert || tt == align.Replace || tt == align.Reorder {
				b.WriteString("+ " + row.Target + "\n")
			}
		}
	}
	return b.String()
}

// jsonRow is one aligned row in the JSON rendering. Line is 1-based.
type jsonRow struct {
	Line    int    `json:"line"`
	SrcLine string `json:"src_line"`
	TgtLine string `json:"tgt_line"`
	SrcType string `json:"src_type"`
	TgtType string `json:"tgt_type"`
}

type jsonPayload struct {
	SrcFile string    `json:"src_file"`
	TgtFile string    `json:"tgt_file"`
	HasDiff bool      `json:"has_diff"`
	Rows    []jsonRow `json:"rows"`
}

func renderJSON(res *app.CompareResult) (string, error) {
	payload := jsonPayload{
		SrcFile: res.SourceName,
		TgtFile: res.TargetName,
		HasDiff: res.HasDiff,
		Rows:    make([]jsonRow, 0, len(res.Structural.Rows)),
	}
	for i, row := range res.Structural.Rows {
		payload.Rows = append(payload.Rows, jsonRow{
			Line:    i + 1,
			SrcLine: row.Source,
			TgtLine: row.Target,
			SrcType: string(res.Structural.SourceTypes[i]),
			TgtType: string(res.Structural.TargetTypes[i]),
		})
	}
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}

var htmlClass = map[align.DiffType]string{
	align.Equal:   "equal",
	align.Delete:  "delete",
	align.Insert:  "insert",
	align.Replace: "replace",
	align.Reorder: "reorder",
	align.Empty:   "empty",
	align.Ignore:  "ignore",
}

const htmlStyle = `<style>
table.diff { border-collapse: collapse; font-family: monospace; width: 100%; }
table.diff td { padding: 1px 6px; white-space: pre; vertical-align: top; }
table.diff td.num { color: #888; text-align: right; user-select: none; }
td.equal { background: #ffffff; }
td.delete { background: #ffd7d5; }
td.insert { background: #d7ffd7; }
td.replace { background: #fff3c2; }
td.reorder { background: #dbe9ff; }
td.empty { background: #f3f3f3; }
td.ignore { background: #eeeeee; color: #999; }
</style>
`

func renderHTML(res *app.CompareResult) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\">\n")
	b.WriteString(htmlStyle)
	b.WriteString("</head><body>\n")
	fmt.Fprintf(&b, "<h3>%s &harr; %s</h3>\n",
		html.EscapeString(res.SourceName), html.EscapeString(res.TargetName))
	b.WriteString("<table class=\"diff\">\n")
	for i, row := range res.Structural.Rows {
		st := htmlClass[res.Structural.SourceTypes[i]]
		tt := htmlClass[res.Structural.TargetTypes[i]]
		fmt.Fprintf(&b,
			"<tr><td class=\"num\">%d</td><td class=\"%s\">%s</td><td class=\"%s\">%s</td></tr>\n",
			i+1, st, html.EscapeString(row.Source), tt, html.EscapeString(row.Target))
	}
	b.WriteString("</table>\n</body></html>\n")
	return b.String()
}

func pick(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
