// Package cli implements the formkit command: render, serve, prompt and
// import form definitions.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formkit/pkg/renderers/tui"
)

// EnvPrefix prefixes environment overrides: FORMKIT_LOG_LEVEL sets
// log.level.
const EnvPrefix = "FORMKIT"

const defaultEnvFile = ".env"

// Option configures the command tree.
type Option func(*app)

// WithPromptDriver replaces the terminal driver used by prompt and
// render --renderer tui.
func WithPromptDriver(driver tui.PromptDriver) Option {
	return func(a *app) {
		a.driver = driver
	}
}

type app struct {
	v      *viper.Viper
	logger *logrus.Logger
	driver tui.PromptDriver

	configFile string
	envFile    string

	selector       theme.ThemeSelector
	selectorLoaded bool
}

// Execute runs the root command with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the formkit command tree. Each call gets its own
// viper instance and logger.
func NewRootCommand(options ...Option) *cobra.Command {
	a := &app{
		v:      viper.New(),
		logger: logrus.New(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}

	root := &cobra.Command{
		Use:   "formkit",
		Short: "Render, serve and fill declarative forms",
		Long: `formkit turns YAML or JSON form definitions into HTML forms, serves
them with validation, fills them in the terminal, and imports them from
OpenAPI request bodies.

Configuration is read from --config (default .formkit.yaml in the current
or home directory), from FORMKIT_* environment variables and from a .env
file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default is .formkit.yaml)")
	flags.StringVar(&a.envFile, "env-file", "", "dotenv file to load (default is .env when present)")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text or json)")
	flags.String("theme-file", "", "YAML file with theme manifests")
	flags.String("theme", "", "theme name to apply")
	flags.String("variant", "", "theme variant to apply")

	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = a.v.BindPFlag("theme.file", flags.Lookup("theme-file"))
	_ = a.v.BindPFlag("theme.name", flags.Lookup("theme"))
	_ = a.v.BindPFlag("theme.variant", flags.Lookup("variant"))

	root.AddCommand(
		newRenderCommand(a),
		newPromptCommand(a),
		newServeCommand(a),
		newImportCommand(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	if err := a.loadEnvFile(); err != nil {
		return err
	}

	a.v.SetEnvPrefix(EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
	} else {
		a.v.SetConfigName(".formkit")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home)
		}
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("cli: read config: %w", err)
		}
	}

	a.logger.SetOutput(cmd.ErrOrStderr())
	if err := configureLogger(a.logger, a.v.GetString("log.level"), a.v.GetString("log.format")); err != nil {
		return err
	}
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.WithField("file", used).Debug("formkit: using config file")
	}
	return nil
}

// loadEnvFile loads --env-file, or .env when it exists. Variables already
// set in the environment win.
func (a *app) loadEnvFile() error {
	path := a.envFile
	if path == "" {
		if _, err := os.Stat(defaultEnvFile); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("cli: load env file %s: %w", path, err)
	}
	return nil
}

func configureLogger(logger *logrus.Logger, level, format string) error {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return fmt.Errorf("cli: %w", err)
	}
	logger.SetLevel(lvl)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("cli: unknown log format %q", format)
	}
	return nil
}
