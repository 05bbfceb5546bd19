package repl

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/zakazai/ulin-sql/internal/types"
)

// printFormattedResults formats and prints the results of a SELECT query in a tabular format
func printFormattedResults(w io.Writer, columns []string, rows [][]types.Value) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "Empty result set")
		return
	}

	// Calculate maximum width for each column
	columnWidths := make([]int, len(columns))
	for i, col := range columns {
		columnWidths[i] = utf8.RuneCountInString(col)
	}
	for _, row := range rows {
		for i, val := range row {
			if n := utf8.RuneCountInString(val.String()); n > columnWidths[i] {
				columnWidths[i] = n
			}
		}
	}

	// Print header
	for i, col := range columns {
		if i > 0 {
			fmt.Fprint(w, " | ")
		}
		fmt.Fprint(w, pad(col, columnWidths[i]))
	}
	fmt.Fprintln(w)

	// Print separator
	for i := range columns {
		if i > 0 {
			fmt.Fprint(w, "-+-")
		}
		fmt.Fprint(w, strings.Repeat("-", columnWidths[i]))
	}
	fmt.Fprintln(w)

	// Print data rows
	for _, row := range rows {
		for i, val := range row {
			if i > 0 {
				fmt.Fprint(w, " | ")
			}
			fmt.Fprint(w, pad(val.String(), columnWidths[i]))
		}
		fmt.Fprintln(w)
	}
}

// pad left-aligns s in width code points; %-*s would count bytes
func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(w, "No %s\n", title)
		return
	}
	for _, item := range items {
		fmt.Fprintln(w, item)
	}
}
