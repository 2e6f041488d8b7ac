package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.trai.ch/venvcache/internal/core/domain"
	"go.trai.ch/venvcache/internal/ui/output"
	"go.trai.ch/venvcache/internal/ui/style"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Output formats of the list command.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

const listTitle = "Cached Python environments"

func (c *CLI) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached environments, most recently used first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("format")
			if !validFormat(format) {
				return zerr.With(zerr.New("unsupported output format"), "format", format)
			}

			entries, err := c.app.List(cmd.Context(), c.options())
			if err != nil {
				return err
			}
			return renderEntries(cmd.OutOrStdout(), format, entries)
		},
	}
	cmd.Flags().StringP("format", "f", FormatTable, "Output format: table, json or yaml")
	return cmd
}

func validFormat(format string) bool {
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// entryRecord is the serialized form of a cache entry. Fields are in key order.
type entryRecord struct {
	Datetime string `json:"datetime" yaml:"datetime"`
	Hostname string `json:"hostname" yaml:"hostname"`
	ID       string `json:"id" yaml:"id"`
}

func toRecords(entries []domain.Entry) []entryRecord {
	records := make([]entryRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, entryRecord{
			Datetime: domain.FormatTimestamp(e.Timestamp),
			Hostname: e.Hostname,
			ID:       e.ID.String(),
		})
	}
	return records
}

func renderEntries(w io.Writer, format string, entries []domain.Entry) error {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(toRecords(entries)); err != nil {
			return zerr.Wrap(err, "failed to encode entries as JSON")
		}
		_, err := w.Write(buf.Bytes())
		return err
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(toRecords(entries)); err != nil {
			return zerr.Wrap(err, "failed to encode entries as YAML")
		}
		if err := enc.Close(); err != nil {
			return zerr.Wrap(err, "failed to encode entries as YAML")
		}
		_, err := w.Write(buf.Bytes())
		return err
	default:
		return renderTable(w, entries)
	}
}

// renderTable prints nothing for an empty cache.
func renderTable(w io.Writer, entries []domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(output.ColorProfile())

	header := r.NewStyle().Bold(true).Foreground(style.Iris).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.NewStyle().Foreground(style.Slate)).
		Headers("ID", "Hostname", "Last used").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, e := range entries {
		t.Row(e.ID.String(), e.Hostname, e.Timestamp.UTC().Format("2006-01-02 15:04:05"))
	}

	title := r.NewStyle().Bold(true).Render(listTitle)
	_, err := fmt.Fprintf(w, "%s\n%s\n", title, t.Render())
	return err
}
