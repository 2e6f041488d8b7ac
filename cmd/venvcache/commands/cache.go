package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _, err := c.app.Init(c.options())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func (c *CLI) newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Replace the virtual environment with the cached copy for the current lock files",
		Long: "Replace the virtual environment with the cached copy for the current lock files.\n" +
			"Exits with status 1 when no cached environment matches.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := c.app.Restore(cmd.Context(), c.options())
			return err
		},
	}
}

func (c *CLI) newStoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "store",
		Short: "Save the virtual environment in the cache and trim it to its configured size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := c.app.Store(cmd.Context(), c.options())
			return err
		},
	}
}

func (c *CLI) newTrimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trim",
		Short: "Remove the least recently used entries beyond the configured cache size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			evicted, err := c.app.Trim(cmd.Context(), c.options())
			if err != nil {
				return err
			}
			for _, key := range evicted {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}
}

func (c *CLI) newEraseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "erase",
		Short: "Delete the whole cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Erase(cmd.Context(), c.options())
		},
	}
}
