package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/quickrecap/internal/config"
	"github.com/alnah/quickrecap/internal/lang"
	"github.com/alnah/quickrecap/internal/logging"
)

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/quickrecap/config.
Settings can also be provided via environment variables.
API keys are read from the environment only and never stored.

Supported settings:
  output-dir       Default directory for output files (env: QUICKRECAP_OUTPUT_DIR)
  provider         Hosted model provider: openai, gemini (env: QUICKRECAP_PROVIDER)
  openai-model     OpenAI chat model (env: QUICKRECAP_OPENAI_MODEL)
  gemini-model     Gemini model (env: QUICKRECAP_GEMINI_MODEL)
  local-model-url  Local model server URL (env: QUICKRECAP_LOCAL_MODEL_URL)
  languages        Caption language preference, e.g. fr,en (env: QUICKRECAP_LANGUAGES)
  log-level        debug, info, warn, error (env: QUICKRECAP_LOG_LEVEL)
  log-format       text, json (env: QUICKRECAP_LOG_FORMAT)
  log-file         Rotating log file path (env: QUICKRECAP_LOG_FILE)`,
		Example: `  quickrecap config set output-dir ~/Documents/recaps
  quickrecap config set provider gemini
  quickrecap config get languages
  quickrecap config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

Values are validated before they are saved. For output-dir, the
directory is created if it doesn't exist.`,
		Example: `  quickrecap config set output-dir ~/Documents/recaps
  quickrecap config set local-model-url http://localhost:8080`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(env, args[0], args[1])
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value.

Prints the value to stdout, or nothing if not set.`,
		Example: `  quickrecap config get output-dir`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(env, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration values.

Shows both values from the config file and environment variable fallbacks.`,
		Example: `  quickrecap config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(env)
		},
	}
}

// runConfigSet handles the "config set" command.
func runConfigSet(env *Env, key, value string) error {
	if !config.IsKnownKey(key) {
		return unknownKeyError(key)
	}

	value, err := validateConfigValue(key, value)
	if err != nil {
		return err
	}

	if err := config.Save(key, value); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, value)
	return nil
}

// validateConfigValue checks a value for key and returns its stored form.
func validateConfigValue(key, value string) (string, error) {
	value = strings.TrimSpace(value)

	switch key {
	case config.KeyOutputDir:
		expanded := config.ExpandPath(value)
		if err := config.EnsureOutputDir(expanded); err != nil {
			return "", fmt.Errorf("invalid output-dir: %w", err)
		}
		return expanded, nil
	case config.KeyProvider:
		if value == "" {
			return "", fmt.Errorf("provider cannot be empty: %w", ErrInvalidProvider)
		}
		if _, err := ParseProvider(value); err != nil {
			return "", err
		}
	case config.KeyLanguages:
		langs, err := lang.ParseList(value)
		if err != nil {
			return "", err
		}
		return strings.Join(langs, ","), nil
	case config.KeyLogLevel, config.KeyLogFormat:
		opts := logging.Options{Level: value}
		if key == config.KeyLogFormat {
			opts = logging.Options{Format: value}
		}
		_, closer, err := logging.New(opts)
		if err != nil {
			return "", err
		}
		_ = closer.Close()
	case config.KeyLocalModelURL:
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return "", fmt.Errorf("local-model-url must start with http:// or https://: %w", ErrInvalidConfig)
		}
	}

	if value == "" {
		return "", fmt.Errorf("%s cannot be empty: %w", key, ErrInvalidConfig)
	}
	return value, nil
}

// runConfigGet handles the "config get" command.
func runConfigGet(env *Env, key string) error {
	if !config.IsKnownKey(key) {
		return unknownKeyError(key)
	}

	value, err := config.Get(key)
	if err != nil {
		return err
	}

	// Check environment variable fallback.
	if value == "" {
		value = env.Getenv(config.EnvFor(key))
	}

	if value != "" {
		fmt.Fprintln(env.Stdout, value)
	}

	return nil
}

// runConfigList handles the "config list" command.
func runConfigList(env *Env) error {
	data, err := config.List()
	if err != nil {
		return err
	}

	// Add environment variable values for completeness.
	for _, key := range config.Keys {
		if _, ok := data[key]; ok {
			continue
		}
		if envVal := env.Getenv(config.EnvFor(key)); envVal != "" {
			data[key] = envVal + " (from env)"
		}
	}

	if len(data) == 0 {
		fmt.Fprintln(env.Stdout, "No configuration set.")
		fmt.Fprintln(env.Stdout, "\nAvailable settings:")
		for _, key := range config.Keys {
			fmt.Fprintf(env.Stdout, "  %s\n", key)
		}
		return nil
	}

	for _, key := range config.Keys {
		if value, ok := data[key]; ok {
			fmt.Fprintf(env.Stdout, "%s=%s\n", key, value)
		}
	}

	return nil
}

func unknownKeyError(key string) error {
	return fmt.Errorf("unknown config key %q (valid keys: %s): %w",
		key, strings.Join(config.Keys, ", "), config.ErrInvalidKey)
}
