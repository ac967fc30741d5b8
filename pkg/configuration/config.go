package configuration

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	ConfigFileName = ".ai-agent-config.json"

	ScanBasic    = "basic"
	ScanStandard = "standard"
	ScanThorough = "thorough"

	ProviderGemini = "gemini"
	ProviderOllama = "ollama"

	DefaultGeminiModel = "gemini-1.5-pro"
	DefaultOllamaModel = "llama3.1"
	DefaultTimeoutSec  = 120
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// SecurityRules toggles the areas the model is asked to analyse.
type SecurityRules struct {
	InputValidation bool `json:"inputValidation"`
	Authentication  bool `json:"authentication"`
	DataExposure    bool `json:"dataExposure"`
	Dependencies    bool `json:"dependencies"`
	Injection       bool `json:"injection"`
	Filesystem      bool `json:"filesystem"`
}

// Config is the persisted settings file. A loaded Config is treated as an
// immutable snapshot: With returns a modified copy.
type Config struct {
	APIKey             string        `json:"apiKey"`
	DefaultProjectsDir string        `json:"defaultProjectsDir"`
	AutoSave           bool          `json:"autoSave"`
	ScanLevel          string        `json:"scanLevel"`
	AutoFix            bool          `json:"autoFix"`
	MonitoringEnabled  bool          `json:"monitoringEnabled"`
	BackupOriginalFile bool          `json:"backupOriginalFile"`
	SecurityRules      SecurityRules `json:"securityRules"`

	Provider       string `json:"provider,omitempty"`
	Model          string `json:"model,omitempty"`
	TimeoutSeconds int    `json:"timeoutSeconds,omitempty"`
}

// NewConfig returns the default configuration.
func NewConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DefaultProjectsDir: filepath.Join(home, "ai-projects"),
		AutoSave:           true,
		ScanLevel:          ScanStandard,
		BackupOriginalFile: true,
		SecurityRules: SecurityRules{
			InputValidation: true,
			Authentication:  true,
			DataExposure:    true,
			Dependencies:    true,
			Injection:       true,
			Filesystem:      true,
		},
		Provider:       ProviderGemini,
		Model:          DefaultGeminiModel,
		TimeoutSeconds: DefaultTimeoutSec,
	}
}

// DefaultPath returns the config file location in the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get user home directory: %w", err)
	}
	return filepath.Join(home, ConfigFileName), nil
}

// Load reads path over the defaults and validates the result. A missing
// file yields the defaults.
func Load(path string) (Config, error) {
	cfg := NewConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("error loading config file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return NewConfig(), fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return NewConfig(), fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) fillDefaults() {
	if c.ScanLevel == "" {
		c.ScanLevel = ScanStandard
	}
	if c.Provider == "" {
		c.Provider = ProviderGemini
	}
	if c.Model == "" {
		c.Model = defaultModel(c.Provider)
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = DefaultTimeoutSec
	}
}

func defaultModel(provider string) string {
	if provider == ProviderOllama {
		return DefaultOllamaModel
	}
	return DefaultGeminiModel
}

// Save writes the configuration as indented JSON readable only by the owner.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("error saving config file %s: %w", path, err)
	}
	return nil
}

// Validate checks enumerated and numeric fields.
func (c Config) Validate() error {
	switch c.ScanLevel {
	case ScanBasic, ScanStandard, ScanThorough:
	default:
		return fmt.Errorf("%w: scan level must be basic, standard or thorough, got %q", ErrInvalidConfig, c.ScanLevel)
	}
	switch c.Provider {
	case ProviderGemini, ProviderOllama:
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, c.Provider)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: timeoutSeconds must be positive", ErrInvalidConfig)
	}
	return nil
}

// Timeout is the per-request deadline for model calls.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RequiresAPIKey reports whether the configured provider needs a key.
func (c Config) RequiresAPIKey() bool {
	return c.Provider != ProviderOllama
}

// EnabledRules returns the names of the active security rules, sorted.
func (c Config) EnabledRules() []string {
	var names []string
	for name, on := range c.ruleMap() {
		if *on {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (c *Config) ruleMap() map[string]*bool {
	return map[string]*bool{
		"inputValidation": &c.SecurityRules.InputValidation,
		"authentication":  &c.SecurityRules.Authentication,
		"dataExposure":    &c.SecurityRules.DataExposure,
		"dependencies":    &c.SecurityRules.Dependencies,
		"injection":       &c.SecurityRules.Injection,
		"filesystem":      &c.SecurityRules.Filesystem,
	}
}

// Keys lists the names accepted by With.
func Keys() []string {
	keys := []string{
		"apiKey", "defaultProjectsDir", "autoSave", "scanLevel", "autoFix",
		"monitoringEnabled", "backupOriginalFile", "provider", "model", "timeoutSeconds",
	}
	var c Config
	for name := range c.ruleMap() {
		keys = append(keys, "rules."+name)
	}
	sort.Strings(keys)
	return keys
}

// With returns a copy of c with key set to value. The copy is validated.
func (c Config) With(key, value string) (Config, error) {
	next := c
	var err error
	switch key {
	case "apiKey":
		if value == "" {
			return c, fmt.Errorf("%w: API key can't be empty", ErrInvalidConfig)
		}
		next.APIKey = value
	case "defaultProjectsDir":
		next.DefaultProjectsDir = value
	case "autoSave":
		next.AutoSave, err = parseBool(key, value)
	case "scanLevel", "securityLevel":
		next.ScanLevel = strings.ToLower(value)
	case "autoFix":
		next.AutoFix, err = parseBool(key, value)
	case "monitoringEnabled":
		next.MonitoringEnabled, err = parseBool(key, value)
	case "backupOriginalFile", "backup":
		next.BackupOriginalFile, err = parseBool(key, value)
	case "provider":
		next.Provider = strings.ToLower(value)
		if next.Provider != c.Provider {
			next.Model = defaultModel(next.Provider)
		}
	case "model":
		next.Model = value
	case "timeoutSeconds":
		next.TimeoutSeconds, err = strconv.Atoi(value)
		if err != nil {
			err = fmt.Errorf("%w: timeoutSeconds must be a number", ErrInvalidConfig)
		}
	default:
		name, ok := strings.CutPrefix(key, "rules.")
		if !ok {
			return c, fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, key)
		}
		rule, ok := next.ruleMap()[name]
		if !ok {
			return c, fmt.Errorf("%w: unknown security rule %q", ErrInvalidConfig, name)
		}
		*rule, err = parseBool(key, value)
	}
	if err != nil {
		return c, err
	}
	if err := next.Validate(); err != nil {
		return c, err
	}
	return next, nil
}

func parseBool(key, value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true", "yes", "y", "on", "1":
		return true, nil
	case "false", "no", "n", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: %s expects true or false, got %q", ErrInvalidConfig, key, value)
}

// Redacted returns a copy safe for display.
func (c Config) Redacted() Config {
	r := c
	if len(r.APIKey) > 8 {
		r.APIKey = r.APIKey[:4] + strings.Repeat("*", len(r.APIKey)-8) + r.APIKey[len(r.APIKey)-4:]
	} else if r.APIKey != "" {
		r.APIKey = "****"
	}
	return r
}
