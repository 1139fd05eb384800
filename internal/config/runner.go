package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ScreenshotMode controls when the runner captures the page
type ScreenshotMode string

const (
	ScreenshotOff           ScreenshotMode = "off"
	ScreenshotOn            ScreenshotMode = "on"
	ScreenshotOnlyOnFailure ScreenshotMode = "only-on-failure"
)

// ProjectConfig names the browser engine and the emulated device
type ProjectConfig struct {
	Name   string `yaml:"name"`
	Device string `yaml:"device"`
}

// RunnerConfig holds everything the scenario runner needs
type RunnerConfig struct {
	BaseURL         string         `yaml:"baseURL"`
	Retries         int            `yaml:"retries"`
	Workers         int            `yaml:"workers"`
	Screenshot      ScreenshotMode `yaml:"screenshot"`
	Project         ProjectConfig  `yaml:"project"`
	Headless        bool           `yaml:"headless"`
	ActionTimeout   time.Duration  `yaml:"actionTimeout"`
	ScenarioTimeout time.Duration  `yaml:"scenarioTimeout"`
	OutputDir       string         `yaml:"outputDir"`
}

// DefaultRunnerConfig returns the settings used when nothing is configured
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		BaseURL:    "https://www.ozon.ru",
		Retries:    4,
		Workers:    4,
		Screenshot: ScreenshotOnlyOnFailure,
		Project: ProjectConfig{
			Name:   "chromium",
			Device: "Desktop Chrome",
		},
		Headless:        true,
		ActionTimeout:   30 * time.Second,
		ScenarioTimeout: 2 * time.Minute,
		OutputDir:       "test-results",
	}
}

// LoadRunnerConfig layers defaults, the YAML file named by E2E_CONFIG (if any) and
// E2E_* environment variables, in that order.
func LoadRunnerConfig(getenv func(string) string) (*RunnerConfig, error) {
	config := DefaultRunnerConfig()

	if path := getenv("E2E_CONFIG"); path != "" {
		if err := config.MergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := config.mergeEnv(getenv); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// MergeFile overrides the fields present in the YAML file at path
func (c *RunnerConfig) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read runner config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse runner config %s: %w", path, err)
	}
	return nil
}

func (c *RunnerConfig) mergeEnv(getenv func(string) string) error {
	if v := getenv("E2E_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := getenv("E2E_SCREENSHOT"); v != "" {
		c.Screenshot = ScreenshotMode(v)
	}
	if v := getenv("E2E_BROWSER"); v != "" {
		c.Project.Name = v
	}
	if v := getenv("E2E_DEVICE"); v != "" {
		c.Project.Device = v
	}
	if v := getenv("E2E_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}

	var err error
	if c.Retries, err = envInt(getenv, "E2E_RETRIES", c.Retries); err != nil {
		return err
	}
	if c.Workers, err = envInt(getenv, "E2E_WORKERS", c.Workers); err != nil {
		return err
	}
	if c.ActionTimeout, err = envDuration(getenv, "E2E_ACTION_TIMEOUT", c.ActionTimeout); err != nil {
		return err
	}
	if c.ScenarioTimeout, err = envDuration(getenv, "E2E_SCENARIO_TIMEOUT", c.ScenarioTimeout); err != nil {
		return err
	}
	if v := getenv("E2E_HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("E2E_HEADLESS must be a boolean: %w", err)
		}
		c.Headless = headless
	}
	return nil
}

// Validate checks ranges and enumerations
func (c *RunnerConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries cannot be negative")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	switch c.Screenshot {
	case ScreenshotOff, ScreenshotOn, ScreenshotOnlyOnFailure:
	default:
		return fmt.Errorf("unknown screenshot mode %q", c.Screenshot)
	}
	switch c.Project.Name {
	case "chromium", "firefox", "webkit":
	default:
		return fmt.Errorf("unknown browser %q", c.Project.Name)
	}
	if c.ActionTimeout <= 0 {
		return fmt.Errorf("action timeout must be positive")
	}
	if c.ScenarioTimeout <= 0 {
		return fmt.Errorf("scenario timeout must be positive")
	}
	return nil
}

func envInt(getenv func(string) string, key string, fallback int) (int, error) {
	v := getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func envDuration(getenv func(string) string, key string, fallback time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
