package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/samber/lo"

	"github.com/five82/atlas/internal/restcountries"
)

// DetailsMarkdown describes a country as Markdown. borders holds the
// resolved border countries; codes missing from it are shown raw.
func DetailsMarkdown(c restcountries.Country, borders []restcountries.Country) string {
	var b strings.Builder

	title := c.Name.Official
	if title == "" {
		title = c.Name.Common
	}
	fmt.Fprintf(&b, "# %s\n\n", strings.TrimSpace(c.Flag+" "+title))
	if c.Name.Common != "" && c.Name.Common != title {
		fmt.Fprintf(&b, "_%s_\n\n", c.Name.Common)
	}

	fmt.Fprintf(&b, "- **Capital:** %s\n", Capital(c))
	region := c.Region
	if c.Subregion != "" {
		region += " · " + c.Subregion
	}
	fmt.Fprintf(&b, "- **Region:** %s\n", orNA(region))
	fmt.Fprintf(&b, "- **Population:** %s\n", Population(c.Population))
	fmt.Fprintf(&b, "- **Area:** %s\n", Area(c.Area))
	if codes := lo.Compact([]string{c.CCA2, c.CCA3}); len(codes) > 0 {
		fmt.Fprintf(&b, "- **Codes:** %s\n", strings.Join(codes, " / "))
	}

	section(&b, "Languages", c.LanguageNames())
	section(&b, "Currencies", c.CurrencyLabels())
	section(&b, "Timezones", c.Timezones)
	section(&b, "Border Countries", BorderLabels(c.Borders, borders))

	if c.Maps.OpenStreetMaps != "" || c.Maps.GoogleMaps != "" {
		b.WriteString("\n## Maps\n\n")
		if c.Maps.OpenStreetMaps != "" {
			fmt.Fprintf(&b, "- %s\n", c.Maps.OpenStreetMaps)
		}
		if c.Maps.GoogleMaps != "" {
			fmt.Fprintf(&b, "- %s\n", c.Maps.GoogleMaps)
		}
	}
	return b.String()
}

// BorderLabels names each border code using resolved, falling back to the
// code itself.
func BorderLabels(codes []string, resolved []restcountries.Country) []string {
	names := make(map[string]string, len(resolved))
	for _, c := range resolved {
		names[strings.ToUpper(c.CCA3)] = strings.TrimSpace(c.Flag + " " + c.Name.Common)
	}
	labels := make([]string, 0, len(codes))
	for _, code := range codes {
		if name, ok := names[strings.ToUpper(code)]; ok && name != "" {
			labels = append(labels, fmt.Sprintf("%s (%s)", name, code))
			continue
		}
		labels = append(labels, code)
	}
	return labels
}

// Markdown renders md for a terminal of the given width. An empty style
// detects the terminal background; otherwise it names a glamour standard
// style such as "dark" or "dracula".
func Markdown(md string, width int, style string) (string, error) {
	if width <= 0 {
		width = 80
	}
	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

func section(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}
