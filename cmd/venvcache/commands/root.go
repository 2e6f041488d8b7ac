// Package commands implements the CLI commands for venvcache.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.trai.ch/venvcache/internal/app"
	"go.trai.ch/venvcache/internal/build"
	"go.trai.ch/venvcache/internal/core/domain"
)

// Settings keys shared by the persistent flags and their environment variables.
const (
	keyConfigPath = "config_path"
	keyWorkDir    = "work_dir"
	keyVerbose    = "verbose"
	keyLogFormat  = "log_format"
)

// CLI represents the command line interface for venvcache.
type CLI struct {
	app      Application
	settings *viper.Viper
	rootCmd  *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Init(opts app.Options) (string, domain.Config, error)
	Restore(ctx context.Context, opts app.Options) (domain.CacheKey, error)
	Store(ctx context.Context, opts app.Options) (domain.CacheKey, error)
	List(ctx context.Context, opts app.Options) ([]domain.Entry, error)
	Trim(ctx context.Context, opts app.Options) ([]domain.CacheKey, error)
	Erase(ctx context.Context, opts app.Options) error
	Status(ctx context.Context, opts app.Options) (domain.Status, error)
	SetVerbose(enable bool)
	SetLogFormat(format string) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "venvcache",
		Short:         "Cache Python virtual environments keyed by their lock files",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	// Persistent flags go first so the version flag does not take the -v shorthand.
	flags := rootCmd.PersistentFlags()
	flags.StringP("config-path", "c", "", "Configuration file (default: .virtualenv_cache.toml in the work dir)")
	flags.StringP("work-dir", "w", "", "Project root that relative paths are resolved against (default: current directory)")
	flags.BoolP("verbose", "v", false, "Show debug output")
	flags.String("log-format", app.LogFormatPretty, "Log format: pretty or json")

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	settings := viper.New()
	_ = settings.BindPFlag(keyConfigPath, flags.Lookup("config-path"))
	_ = settings.BindPFlag(keyWorkDir, flags.Lookup("work-dir"))
	_ = settings.BindPFlag(keyVerbose, flags.Lookup("verbose"))
	_ = settings.BindPFlag(keyLogFormat, flags.Lookup("log-format"))
	_ = settings.BindEnv(keyConfigPath, "VIRTUALENV_CACHE_CONFIG_PATH")
	_ = settings.BindEnv(keyWorkDir, "VIRTUALENV_CACHE_WORK_DIR")

	c := &CLI{
		app:      a,
		settings: settings,
		rootCmd:  rootCmd,
	}

	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		c.app.SetVerbose(c.settings.GetBool(keyVerbose))
		return c.app.SetLogFormat(c.settings.GetString(keyLogFormat))
	}

	rootCmd.AddCommand(c.newInitCmd())
	rootCmd.AddCommand(c.newRestoreCmd())
	rootCmd.AddCommand(c.newStoreCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newTrimCmd())
	rootCmd.AddCommand(c.newEraseCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func (c *CLI) options() app.Options {
	return app.Options{
		ConfigPath: c.settings.GetString(keyConfigPath),
		WorkDir:    c.settings.GetString(keyWorkDir),
	}
}
