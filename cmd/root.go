package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/wrongbook/internal/analyzer"
	"github.com/abhisek/wrongbook/internal/config"
	"github.com/abhisek/wrongbook/internal/llm"
	"github.com/abhisek/wrongbook/internal/logger"
	"github.com/abhisek/wrongbook/internal/notebook"
	"github.com/abhisek/wrongbook/internal/store"
)

var rootCmd = &cobra.Command{
	Use:           "wrongbook",
	Short:         "AI error notebook for K12 students",
	Long:          "wrongbook reads photos of questions a student got wrong, explains them with a vision model, tags them with grade-appropriate knowledge points and schedules practice.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides WRONGBOOK_DB)")
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/wrongbook/config.yaml)")
	pf.String("log-mode", "", "Log format: dev or prod")
	pf.String("user", "", "User ID owning items and custom tags")

	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// app holds what a command needs; build it with setup and release it with
// close.
type app struct {
	cfg   config.Config
	log   *logger.Logger
	store *store.Store
}

func setup(cmd *cobra.Command) (*app, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if m, _ := cmd.Flags().GetString("log-mode"); m != "" {
		cfg.LogMode = m
	}
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		cfg.UserID = u
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug("store opened", "path", dbPath)
	return &app{cfg: cfg, log: log, store: st}, nil
}

func (a *app) close() {
	a.store.Close()
	a.log.Sync()
}

// resolveDBPath prefers --db, then the config file, then WRONGBOOK_DB and
// the XDG default.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// provider builds the configured model provider with retries and event
// recording.
func (a *app) provider(ctx context.Context) (llm.Provider, error) {
	cfg := a.cfg.LLM
	if !llm.Discover(&cfg) {
		return nil, fmt.Errorf("no LLM provider configured: set WRONGBOOK_LLM_PROVIDER and its API key")
	}
	p, err := llm.NewProvider(ctx, cfg, a.store.EventRepo(), a.log)
	if err != nil {
		return nil, err
	}
	a.log.Debug("llm provider ready", "provider", cfg.Provider, "model", p.ModelID())
	return p, nil
}

// notebook builds the notebook service. withModel=false skips provider
// setup for commands that only read the store.
func (a *app) notebook(ctx context.Context, withModel bool) (*notebook.Service, error) {
	var an *analyzer.Service
	if withModel {
		p, err := a.provider(ctx)
		if err != nil {
			return nil, err
		}
		an = analyzer.New(p, a.cfg.Analyzer(), a.log)
	}
	return notebook.New(a.store, an, a.log), nil
}

// modelContext bounds a command's model calls by the configured timeout.
func (a *app) modelContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.LLM.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.cfg.LLM.Timeout)
}
