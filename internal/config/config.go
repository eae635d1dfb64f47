package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Config keys.
const (
	KeyOutputDir     = "output-dir"
	KeyProvider      = "provider"
	KeyOpenAIModel   = "openai-model"
	KeyGeminiModel   = "gemini-model"
	KeyLocalModelURL = "local-model-url"
	KeyLanguages     = "languages"
	KeyLogLevel      = "log-level"
	KeyLogFormat     = "log-format"
	KeyLogFile       = "log-file"
)

// Environment variable fallbacks.
const (
	EnvOutputDir     = "QUICKRECAP_OUTPUT_DIR"
	EnvProvider      = "QUICKRECAP_PROVIDER"
	EnvOpenAIModel   = "QUICKRECAP_OPENAI_MODEL"
	EnvGeminiModel   = "QUICKRECAP_GEMINI_MODEL"
	EnvLocalModelURL = "QUICKRECAP_LOCAL_MODEL_URL"
	EnvLanguages     = "QUICKRECAP_LANGUAGES"
	EnvLogLevel      = "QUICKRECAP_LOG_LEVEL"
	EnvLogFormat     = "QUICKRECAP_LOG_FORMAT"
	EnvLogFile       = "QUICKRECAP_LOG_FILE"
)

// appName names the directory under the user config home.
const appName = "quickrecap"

// ErrInvalidKey indicates a key that cannot be stored in the config file.
var ErrInvalidKey = errors.New("invalid config key")

// Keys lists every supported key in display order.
var Keys = []string{
	KeyOutputDir,
	KeyProvider,
	KeyOpenAIModel,
	KeyGeminiModel,
	KeyLocalModelURL,
	KeyLanguages,
	KeyLogLevel,
	KeyLogFormat,
	KeyLogFile,
}

var envFallbacks = map[string]string{
	KeyOutputDir:     EnvOutputDir,
	KeyProvider:      EnvProvider,
	KeyOpenAIModel:   EnvOpenAIModel,
	KeyGeminiModel:   EnvGeminiModel,
	KeyLocalModelURL: EnvLocalModelURL,
	KeyLanguages:     EnvLanguages,
	KeyLogLevel:      EnvLogLevel,
	KeyLogFormat:     EnvLogFormat,
	KeyLogFile:       EnvLogFile,
}

// IsKnownKey reports whether key is a supported setting.
func IsKnownKey(key string) bool {
	return slices.Contains(Keys, key)
}

// EnvFor returns the environment variable that backs key, or "".
func EnvFor(key string) string {
	return envFallbacks[key]
}

// Config holds user configuration loaded from ~/.config/quickrecap/config.
// Secrets are never stored here; they come from the environment only.
type Config struct {
	OutputDir     string
	Provider      string
	OpenAIModel   string
	GeminiModel   string
	LocalModelURL string
	Languages     string
	LogLevel      string
	LogFormat     string
	LogFile       string
}

// fields maps keys to the Config field they fill.
func (c *Config) fields() map[string]*string {
	return map[string]*string{
		KeyOutputDir:     &c.OutputDir,
		KeyProvider:      &c.Provider,
		KeyOpenAIModel:   &c.OpenAIModel,
		KeyGeminiModel:   &c.GeminiModel,
		KeyLocalModelURL: &c.LocalModelURL,
		KeyLanguages:     &c.Languages,
		KeyLogLevel:      &c.LogLevel,
		KeyLogFormat:     &c.LogFormat,
		KeyLogFile:       &c.LogFile,
	}
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/quickrecap.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// path returns the full path to the config file.
func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config"), nil
}

// Load reads the configuration file and environment variables.
// Precedence: config file values, then environment variable fallbacks.
// A missing file is not an error.
func Load() (Config, error) {
	return load(os.Getenv)
}

// LoadWithEnv is Load with an injected environment lookup.
func LoadWithEnv(getenv func(string) string) (Config, error) {
	return load(getenv)
}

func load(getenv func(string) string) (Config, error) {
	var cfg Config

	p, err := path()
	if err != nil {
		return cfg, err
	}

	data, err := parseFile(p)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	for key, field := range cfg.fields() {
		if v := data[key]; v != "" {
			*field = v
			continue
		}
		*field = getenv(envFallbacks[key])
	}

	return cfg, nil
}

// parseFile reads a key=value config file.
// Format: one key=value per line, # comments, empty lines ignored.
func parseFile(p string) (map[string]string, error) {
	f, err := os.Open(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid syntax at line %d: %q", lineNum, line)
		}
		data[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return data, nil
}

// validateKey rejects keys that would corrupt the file format.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty: %w", ErrInvalidKey)
	}
	if strings.ContainsAny(key, "=\n\r#") || strings.TrimSpace(key) != key {
		return fmt.Errorf("key %q contains forbidden characters: %w", key, ErrInvalidKey)
	}
	return nil
}

// Save writes a single key=value to the config file.
// Creates the config directory and file if they don't exist.
// Preserves existing key=value pairs but discards comments.
func Save(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if strings.ContainsAny(value, "\n\r") {
		return fmt.Errorf("value for %q contains a newline: %w", key, ErrInvalidKey)
	}

	p, err := path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	existing, _ := parseFile(p)
	if existing == nil {
		existing = make(map[string]string)
	}
	existing[key] = value

	return writeFile(p, existing)
}

// writeFile writes the config map to a file with keys in sorted order.
func writeFile(p string, data map[string]string) error {
	// #nosec G302 G304 -- config file with standard permissions, path from home dir
	f, err := os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if _, err := fmt.Fprintf(f, "%s=%s\n", key, data[key]); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	return nil
}

// Get reads a single value from the config file.
// Returns empty string if the key doesn't exist.
func Get(key string) (string, error) {
	p, err := path()
	if err != nil {
		return "", err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	return data[key], nil
}

// List returns all config values as a map.
func List() (map[string]string, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}

	return data, nil
}

// ResolveOutputPath resolves the final output path using the following precedence:
//  1. If output is absolute, use it as-is
//  2. If output is relative and outputDir is set, join them
//  3. If output is empty, use defaultName in outputDir (or cwd if no outputDir)
func ResolveOutputPath(output, outputDir, defaultName string) string {
	if output != "" && filepath.IsAbs(output) {
		return filepath.Clean(output)
	}

	if output != "" {
		if outputDir != "" {
			return filepath.Clean(filepath.Join(outputDir, output))
		}
		return filepath.Clean(output)
	}

	if outputDir != "" {
		return filepath.Clean(filepath.Join(outputDir, defaultName))
	}
	return filepath.Clean(defaultName)
}

// EnsureOutputDir checks that d is a writable directory, creating it when missing.
func EnsureOutputDir(d string) error {
	if d == "" {
		return fmt.Errorf("output-dir cannot be empty")
	}

	d = ExpandPath(d)

	info, err := os.Stat(d)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(d, 0750); err != nil { // #nosec G301 -- user output dir
				return fmt.Errorf("cannot create directory: %w", err)
			}
			return nil
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", d)
	}

	testFile := filepath.Join(d, ".quickrecap-write-test")
	f, err := os.Create(testFile) // #nosec G304 -- path is constructed from validated dir
	if err != nil {
		return fmt.Errorf("directory is not writable: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(testFile)
		return fmt.Errorf("directory is not writable: %w", err)
	}
	_ = os.Remove(testFile)

	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}

// Dir returns the configuration directory path.
func Dir() (string, error) {
	return dir()
}
