package reporting

import (
	"fmt"
	"sort"
	"strings"

	"jyotish-lab/internal/content"
	"jyotish-lab/internal/divisional"
)

// RenderSadeSatiMarkdown renders a Sade Sati document as Markdown.
func RenderSadeSatiMarkdown(d SadeSatiDoc) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Sade Sati\n\n")
	sb.WriteString(fmt.Sprintf("Status: %s\n\n", d.Status))
	if d.Error != "" {
		sb.WriteString(fmt.Sprintf("**Error (%s):** %s\n\n", d.Kind, d.Error))
	}

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Natal Moon Sign | %s |\n", orDash(d.NatalMoonSign)))
	sb.WriteString(fmt.Sprintf("| Saturn Now | %s |\n", orDash(d.SaturnCurrentSign)))
	if d.PhaseLabel != "" {
		sb.WriteString(fmt.Sprintf("| Current Phase | %s (%s) |\n", d.PhaseLabel, d.CurrentPhase))
	} else {
		sb.WriteString(fmt.Sprintf("| Current Phase | %s |\n", d.CurrentPhase))
	}
	if d.CompletionPercentage != nil {
		sb.WriteString(fmt.Sprintf("| Completion | %.1f%% |\n", *d.CompletionPercentage))
	} else {
		sb.WriteString("| Completion | n/a |\n")
	}
	sb.WriteString(fmt.Sprintf("| Total Duration | %s |\n", d.TotalDuration))
	sb.WriteString("\n")

	// Window
	sb.WriteString("## Window\n\n")
	sb.WriteString("| Boundary | Date |\n")
	sb.WriteString("|----------|------|\n")
	sb.WriteString(fmt.Sprintf("| Phase 1 start | %s |\n", orDash(d.Phase1Start)))
	sb.WriteString(fmt.Sprintf("| Phase 2 start | %s |\n", orDash(d.Phase2Start)))
	sb.WriteString(fmt.Sprintf("| Phase 3 start | %s |\n", orDash(d.Phase3Start)))
	sb.WriteString(fmt.Sprintf("| End | %s |\n", orDash(d.EndDate)))
	sb.WriteString("\n")

	if d.PhaseDescription != "" {
		sb.WriteString(d.PhaseDescription)
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderDivisionalMarkdown renders one table per requested division.
func RenderDivisionalMarkdown(d DivisionalDoc, divisions []int) string {
	var sb strings.Builder
	c := content.Default()

	sb.WriteString("# Divisional Charts\n\n")
	sb.WriteString(fmt.Sprintf("Moment: %s | Status: %s\n\n", d.Moment, d.Status))

	names := sortedBodies(d)

	// Rasi
	sb.WriteString("## D1 Rasi\n\n")
	sb.WriteString("| Body | Sign | Degree |\n")
	sb.WriteString("|------|------|--------|\n")
	for _, name := range names {
		b := d.Bodies[name]
		if b.Error != "" {
			sb.WriteString(fmt.Sprintf("| %s | error: %s | |\n", name, b.Error))
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %.2f |\n", name, b.SignName, b.Degree))
	}
	sb.WriteString("\n")

	for _, n := range divisions {
		div, err := divisional.Lookup(n)
		if err != nil || n == 1 {
			continue
		}
		sb.WriteString(fmt.Sprintf("## %s %s\n\n", div.Code, div.Name))
		if sig := c.Signification(div.Code); sig != "" {
			sb.WriteString(sig + "\n\n")
		}
		sb.WriteString("| Body | Sign | House |\n")
		sb.WriteString("|------|------|-------|\n")
		for _, name := range names {
			b := d.Bodies[name]
			p := b.Division(n)
			if p == nil {
				continue
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %d |\n", name, p.SignName, p.SignNumber))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func sortedBodies(d DivisionalDoc) []string {
	names := make([]string, 0, len(d.Bodies))
	for name := range d.Bodies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
