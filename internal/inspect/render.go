package inspect

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const separator = "---"

// Write prints report as one block followed by a blank line.
func Write(w io.Writer, report Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", report.File)
	if report.Err != nil {
		fmt.Fprintf(&b, "Error: %v\n\n", report.Err)
		_, err := io.WriteString(w, b.String())
		return err
	}

	names := make([]string, 0, len(report.FullNames))
	for _, n := range report.FullNames {
		names = append(names, fmt.Sprintf("%s (%s)", n.Value, n.Language))
	}
	fmt.Fprintf(&b, "PostScript name: %s\n", report.PostScriptName)
	fmt.Fprintf(&b, "Full names: %s\n", strings.Join(names, ", "))
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "Features: %s\n", strings.Join(report.Features, ", "))
	fmt.Fprintf(&b, "Glyphs: %d\n", report.Glyphs)
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "Regular: %t\n", report.Regular)
	fmt.Fprintf(&b, "Italic: %t\n", report.Italic)
	fmt.Fprintf(&b, "Bold: %t\n", report.Bold)
	fmt.Fprintf(&b, "Oblique: %t\n", report.Oblique)
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "Variable: %t\n", report.Variable)
	if report.Variable {
		b.WriteString("Variation axes:\n")
		for _, axis := range report.Axes {
			fmt.Fprintf(&b, "  - %s %s..%s, default %s\n",
				axis.Tag, formatFloat(axis.Min), formatFloat(axis.Max), formatFloat(axis.Default))
		}
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
