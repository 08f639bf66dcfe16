package renderer

import (
	"fmt"
	"strings"
)

// cell escapes a free text to be printed in a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\n", " ")
	if s == "" {
		return " "
	}
	return s
}

// tableHeader prints the header row of a markdown table. align holds one
// character per column: 'l' or 'r'.
func tableHeader(b *strings.Builder, align string, columns ...string) {
	fmt.Fprintf(b, "| %s |\n", strings.Join(columns, " | "))
	seps := make([]string, len(columns))
	for i := range columns {
		seps[i] = ":---"
		if i < len(align) && align[i] == 'r' {
			seps[i] = "---:"
		}
	}
	fmt.Fprintf(b, "|%s|\n", strings.Join(seps, "|"))
}

// tableRow prints a row of a markdown table.
func tableRow(b *strings.Builder, cells ...string) {
	fmt.Fprintf(b, "| %s |\n", strings.Join(cells, " | "))
}
