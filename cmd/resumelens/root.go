package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/resumelens/internal/client"
	"github.com/amishk599/resumelens/internal/config"
	"github.com/amishk599/resumelens/internal/model"
	"github.com/amishk599/resumelens/internal/store"
	"github.com/amishk599/resumelens/internal/workflow"
)

const defaultConfigPath = "resumelens.yaml"

var (
	cfgPath string
	debug   bool
	apiURL  string
)

// errReported marks a failure whose details were already printed.
var errReported = errors.New("analysis reported an error")

var rootCmd = &cobra.Command{
	Use:   "resumelens",
	Short: "Resume analysis from the terminal",
	Long:  "resumelens submits a resume, optionally with a job description, to the resume analysis service and renders the result.",
	// With no subcommand, open the interactive view.
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: RESUMELENS_CONFIG env var or ./resumelens.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "analysis service base URL (overrides config and "+config.EnvAPI+")")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > RESUMELENS_CONFIG env var > "./resumelens.yaml".
// Only the implicit default may be missing, in which case built-in defaults apply.
func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	explicit := true
	if path == "" {
		if env := os.Getenv("RESUMELENS_CONFIG"); env != "" {
			path = env
		} else {
			path = defaultConfigPath
			explicit = false
		}
	}

	var cfg *config.Config
	if _, err := os.Stat(path); !explicit && errors.Is(err, os.ErrNotExist) {
		cfg = config.Default()
		config.ApplyEnv(cfg)
	} else {
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}

	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogger(dbg bool, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// session bundles what every command that talks to the service needs.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	history model.HistoryStore
	wf      *workflow.Workflow
	closers []func() error
}

func newSession(logOut io.Writer) (*session, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := setupLogger(debug, logOut)

	s := &session{cfg: cfg, logger: logger}

	if err := s.openHistory(); err != nil {
		return nil, err
	}

	contract, err := client.ContractByName(cfg.API.Contract)
	if err != nil {
		s.Close()
		return nil, err
	}
	httpClient := &http.Client{Timeout: cfg.API.Timeout}
	api := client.New(cfg.API.BaseURL, contract, httpClient, logger)
	s.wf = workflow.New(api, s.history, cfg.Validation.StrictPDF, logger)

	logger.Debug("config loaded",
		"base_url", cfg.API.BaseURL,
		"contract", contract.Name,
		"timeout", cfg.API.Timeout.String(),
		"strict_pdf", cfg.Validation.StrictPDF,
		"history", cfg.History.Enabled,
	)
	return s, nil
}

func (s *session) openHistory() error {
	if !s.cfg.History.Enabled {
		s.history = store.NewNopStore()
		return nil
	}
	db, err := store.NewSQLiteStore(s.cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	s.history = db
	s.closers = append(s.closers, db.Close)
	return nil
}

// Close releases the session's resources.
func (s *session) Close() {
	for _, c := range s.closers {
		if err := c(); err != nil {
			s.logger.Warn("close failed", "error", err)
		}
	}
}
