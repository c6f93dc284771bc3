package reporting

import (
	"fmt"
	"strings"
)

// RenderChartCSV renders a divisional document as CSV, one row per body.
// Each requested division contributes a sign-number column; D9 adds a part column.
func RenderChartCSV(d DivisionalDoc, divisions []int) string {
	var sb strings.Builder

	// Header
	sb.WriteString("body,sign_number,sign_name,degree")
	for _, n := range divisions {
		if n == 1 {
			continue
		}
		sb.WriteString(fmt.Sprintf(",d%d", n))
		if n == 9 {
			sb.WriteString(",d9_part")
		}
	}
	sb.WriteString(",error\n")

	// Rows
	for _, name := range sortedBodies(d) {
		b := d.Bodies[name]
		if b.Error != "" {
			sb.WriteString(fmt.Sprintf("%s,,,", name))
		} else {
			sb.WriteString(fmt.Sprintf("%s,%d,%s,%.4f", name, b.SignNumber, b.SignName, b.Degree))
		}
		for _, n := range divisions {
			if n == 1 {
				continue
			}
			p := b.Division(n)
			if p == nil {
				sb.WriteString(",")
				if n == 9 {
					sb.WriteString(",")
				}
				continue
			}
			sb.WriteString(fmt.Sprintf(",%d", p.SignNumber))
			if n == 9 {
				sb.WriteString(fmt.Sprintf(",%d", p.Part))
			}
		}
		sb.WriteString(fmt.Sprintf(",%s\n", csvEscape(b.Error)))
	}

	return sb.String()
}

func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
