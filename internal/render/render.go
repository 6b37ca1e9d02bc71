// Package render formats countries for the command line: lipgloss tables,
// JSON, YAML and glamour-rendered details.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/five82/atlas/internal/restcountries"
)

// Format selects an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formats lists the accepted --output values.
var Formats = []Format{FormatTable, FormatJSON, FormatYAML}

// ParseFormat accepts a format name case-insensitively; empty means table.
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", value)
	}
}

// NotAvailable stands in for missing values such as a capital.
const NotAvailable = "N/A"

// Population formats n with thousands separators.
func Population(n int64) string {
	return humanize.Comma(n)
}

// Area formats a surface in square kilometres.
func Area(km2 float64) string {
	return humanize.CommafWithDigits(km2, 1) + " km²"
}

// Capital returns the primary capital or NotAvailable.
func Capital(c restcountries.Country) string {
	if capital := c.PrimaryCapital(); capital != "" {
		return capital
	}
	return NotAvailable
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Countries writes countries in the given format. Empty input in table form
// prints emptyMessage instead of an empty grid.
func Countries(w io.Writer, format Format, countries []restcountries.Country, emptyMessage string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, nonNil(countries))
	case FormatYAML:
		return writeYAML(w, nonNil(countries))
	}

	if len(countries) == 0 {
		_, err := fmt.Fprintln(w, emptyMessage)
		return err
	}
	rows := make([][]string, 0, len(countries))
	for _, c := range countries {
		rows = append(rows, []string{
			c.CCA3,
			strings.TrimSpace(c.Flag + " " + c.Name.Common),
			c.Region,
			Capital(c),
			Population(c.Population),
			Area(c.Area),
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("CODE", "NAME", "REGION", "CAPITAL", "POPULATION", "AREA").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// Details writes one country. Table format renders the details Markdown
// through glamour at the given wrap width.
func Details(w io.Writer, format Format, c restcountries.Country, borders []restcountries.Country, width int) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, c)
	case FormatYAML:
		return writeYAML(w, c)
	}
	out, err := Markdown(DetailsMarkdown(c, borders), width, "")
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func nonNil(items []restcountries.Country) []restcountries.Country {
	if items == nil {
		return []restcountries.Country{}
	}
	return items
}
