package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.trai.ch/venvcache/internal/core/domain"
	"go.trai.ch/venvcache/internal/ui/output"
	"go.trai.ch/venvcache/internal/ui/style"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the virtual environment is cached and up to date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := c.app.Status(cmd.Context(), c.options())
			if err != nil {
				return err
			}
			return renderStatus(cmd.OutOrStdout(), status)
		},
	}
}

func renderStatus(w io.Writer, s domain.Status) error {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(output.ColorProfile())

	label := r.NewStyle().Foreground(style.Slate).Width(13)
	good := r.NewStyle().Foreground(style.Green)
	bad := r.NewStyle().Foreground(style.Yellow)

	cached := bad.Render(style.Circle + " not cached")
	if s.Cached {
		cached = good.Render(style.Dot + " cached")
	}

	var env string
	switch {
	case !s.EnvPresent:
		env = bad.Render(style.Circle + " missing")
	case !s.Cached:
		env = bad.Render(style.Dot + " present")
	case s.InSync:
		env = good.Render(style.Check + " matches cache")
	default:
		env = bad.Render(style.Warning + " differs from cache")
	}

	lines := []string{
		label.Render("key") + s.Key.String(),
		label.Render("entry") + cached,
	}
	if s.Usage != nil {
		lines = append(lines, label.Render("last used")+
			fmt.Sprintf("%s on %s", s.Usage.Timestamp.UTC().Format("2006-01-02 15:04:05"), s.Usage.Hostname))
	}
	lines = append(lines, label.Render("environment")+env)

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
