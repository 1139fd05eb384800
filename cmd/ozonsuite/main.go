package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/ozonqa/storefront-e2e/internal/browser"
	internalcli "github.com/ozonqa/storefront-e2e/internal/cli"
	"github.com/ozonqa/storefront-e2e/internal/config"
	"github.com/ozonqa/storefront-e2e/internal/database"
	"github.com/ozonqa/storefront-e2e/internal/repository"
	"github.com/ozonqa/storefront-e2e/internal/runner"
	"github.com/ozonqa/storefront-e2e/internal/scenario"
	"github.com/ozonqa/storefront-e2e/internal/services"
)

var version = "0.1.0"

// newLogger configures the standard logrus logger from E2E_LOG_LEVEL
func newLogger() *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(os.Getenv("E2E_LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// connectResults opens the results database and returns a service over it
func connectResults(log logrus.FieldLogger) (services.ResultService, error) {
	pgConfig, err := config.LoadPostgresConfig(os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("missing required database configuration: %w", err)
	}
	if err := database.Connect(pgConfig); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Connected to database successfully")

	if err := database.RunMigrations(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	return services.NewResultService(repository.NewScenarioRunRepository()), nil
}

// loadRunnerConfig layers command line flags over the file and environment settings
func loadRunnerConfig(c *cli.Context) (*config.RunnerConfig, error) {
	getenv := os.Getenv
	if path := c.String("config"); path != "" {
		getenv = func(key string) string {
			if key == "E2E_CONFIG" {
				return path
			}
			return os.Getenv(key)
		}
	}

	cfg, err := config.LoadRunnerConfig(getenv)
	if err != nil {
		return nil, err
	}
	if c.IsSet("retries") {
		cfg.Retries = c.Int("retries")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if c.IsSet("browser") {
		cfg.Project.Name = c.String("browser")
	}
	if c.Bool("headed") {
		cfg.Headless = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// startFixture serves the fixture storefront on a free port and returns its URL
func startFixture(log logrus.FieldLogger) (string, func(), error) {
	deps, err := internalcli.BuildFixtureDependencies(config.ServerConfig{Port: "0"}, log)
	if err != nil {
		return "", nil, err
	}
	listener, server, err := internalcli.StartServer(deps)
	if err != nil {
		return "", nil, err
	}
	port := listener.Addr().(*net.TCPAddr).Port
	stop := func() {
		server.Close()
		listener.Close()
	}
	return fmt.Sprintf("http://localhost:%d", port), stop, nil
}

var selectionFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "suite",
		Usage: "run only this suite (" + strings.Join(scenario.Suites(scenario.Catalogue()), ", ") + ")",
	},
	&cli.StringFlag{Name: "grep", Usage: "run only scenarios whose title contains this text"},
}

// RunCommand returns the run command
func RunCommand(log *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the storefront scenarios in a browser",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML runner config, same as E2E_CONFIG"},
			&cli.IntFlag{Name: "retries", Usage: "retries per failing scenario"},
			&cli.IntFlag{Name: "workers", Usage: "scenarios run in parallel"},
			&cli.StringFlag{Name: "base-url", Usage: "storefront to test"},
			&cli.StringFlag{Name: "browser", Usage: "chromium, firefox or webkit"},
			&cli.BoolFlag{Name: "headed", Usage: "show the browser window"},
			&cli.BoolFlag{Name: "fixture", Usage: "test the built-in fixture storefront"},
			&cli.BoolFlag{Name: "record", Usage: "store results in PostgreSQL"},
		}, selectionFlags...),
		Action: func(c *cli.Context) error {
			cfg, err := loadRunnerConfig(c)
			if err != nil {
				return err
			}

			if c.Bool("fixture") {
				url, stop, err := startFixture(log)
				if err != nil {
					return fmt.Errorf("failed to start fixture storefront: %w", err)
				}
				defer stop()
				cfg.BaseURL = url
			}

			var results services.ResultService = services.NopResultService{}
			if c.Bool("record") {
				if results, err = connectResults(log); err != nil {
					return err
				}
				defer database.Close()
			}

			launcher, err := browser.Launch(browser.LaunchOptions{
				Profile: browser.Profile{
					Name:     cfg.Project.Name,
					Device:   cfg.Project.Device,
					Headless: cfg.Headless,
				},
				BaseURL:       cfg.BaseURL,
				ActionTimeout: cfg.ActionTimeout,
			})
			if err != nil {
				return err
			}
			defer func() {
				if err := launcher.Close(); err != nil {
					log.WithError(err).Warn("Failed to close browser")
				}
			}()

			ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer cancel()

			log.WithFields(logrus.Fields{
				"baseURL": cfg.BaseURL,
				"browser": cfg.Project.Name,
				"device":  cfg.Project.Device,
			}).Info("Browser launched")

			return internalcli.RunSuite(ctx, internalcli.SuiteDependencies{
				Sessions: runner.Launcher{Launcher: launcher},
				Results:  results,
				Options:  runner.OptionsFrom(cfg),
				Log:      log,
				Out:      c.App.Writer,
			}, c.String("suite"), c.String("grep"))
		},
	}
}

// ListCommand returns the list command
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the scenarios without running them",
		Flags: selectionFlags,
		Action: func(c *cli.Context) error {
			if err := internalcli.CheckSuite(c.String("suite")); err != nil {
				return err
			}
			if internalcli.ListScenarios(c.App.Writer, c.String("suite"), c.String("grep")) == 0 {
				return fmt.Errorf("no scenarios match")
			}
			return nil
		},
	}
}

// HistoryCommand returns the history command
func HistoryCommand(log *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recorded scenario runs",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Value: 20, Usage: "number of runs to show"},
			&cli.StringFlag{Name: "run", Usage: "show every scenario of this run ID"},
		},
		Action: func(c *cli.Context) error {
			results, err := connectResults(log)
			if err != nil {
				return err
			}
			defer database.Close()

			if runID := c.String("run"); runID != "" {
				return internalcli.PrintRun(c.App.Writer, results, runID)
			}
			return internalcli.PrintHistory(c.App.Writer, results, c.Int("limit"))
		},
	}
}

// FixtureCommand returns the fixture command
func FixtureCommand(log *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:  "fixture",
		Usage: "Serve the fixture storefront until interrupted",
		Action: func(c *cli.Context) error {
			deps, err := internalcli.BuildFixtureDependencies(config.LoadServerConfig(os.Getenv), log)
			if err != nil {
				return err
			}
			return internalcli.RunServe(deps)
		},
	}
}

func main() {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	log := newLogger()
	if envErr != nil {
		log.Debug(".env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "ozonsuite",
		Usage:   "End-to-end browser scenarios for the Ozon storefront",
		Version: version,
		Commands: []*cli.Command{
			RunCommand(log),
			ListCommand(),
			HistoryCommand(log),
			FixtureCommand(log),
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
