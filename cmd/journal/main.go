package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pbaille/journal/internal/config"
	"github.com/pbaille/journal/internal/fetcher"
	"github.com/pbaille/journal/internal/journal"
	"github.com/pbaille/journal/internal/logging"
	"github.com/pbaille/journal/internal/prompt"
	"github.com/pbaille/journal/internal/store"
	"github.com/pbaille/journal/internal/suggest"
	"github.com/spf13/cobra"
)

// app carries what the commands share: settings, the logger and the
// collaborators tests may swap.
type app struct {
	envFile  string
	dbPath   string
	logLevel string

	cfg *config.Config
	log logging.Logger

	fetcher     *fetcher.Fetcher
	suggestOpts []suggest.Option
}

func newApp() *app {
	return &app{fetcher: fetcher.New()}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(newApp()).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "journal",
		Short:        "A personal journal stored in SQLite",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.dbPath, "db", "", "database path (default ~/.journal/journal.db)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file to load")

	rootCmd.AddCommand(createCmd(a))
	rootCmd.AddCommand(listCmd(a))
	rootCmd.AddCommand(deleteCmd(a))
	rootCmd.AddCommand(showCmd(a))
	rootCmd.AddCommand(editCmd(a))
	rootCmd.AddCommand(tagsCmd(a))
	rootCmd.AddCommand(searchCmd(a))
	rootCmd.AddCommand(tuiCmd(a))
	rootCmd.AddCommand(serveCmd(a))

	return rootCmd
}

// configure resolves settings: defaults, .env, environment, then flags.
func (a *app) configure(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath = a.dbPath
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}

	log, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	return nil
}

// openJournal opens the store and loads the journal. The returned func
// closes the store.
func (a *app) openJournal(ctx context.Context) (*journal.Journal, func(), error) {
	if err := os.MkdirAll(filepath.Dir(a.cfg.DBPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("%w: create db dir: %v", store.ErrInit, err)
	}

	s, err := store.Open(ctx, a.cfg.DBPath, a.log)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := s.Close(); err != nil {
			a.log.Warn(ctx, "close store", "err", err)
		}
	}

	j, err := journal.New(ctx, s, a.log)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return j, closeFn, nil
}

// prompter reads from the terminal when the command runs on stdin, and
// from the command's streams otherwise.
func (a *app) prompter(cmd *cobra.Command) *prompt.Prompter {
	if cmd.InOrStdin() == os.Stdin {
		return prompt.NewStdio(a.cfg.Editor)
	}
	return prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())
}

func (a *app) suggester() (*suggest.Suggester, error) {
	return suggest.New(a.cfg.AnthropicKey, a.cfg.AnthropicModel, a.suggestOpts...)
}
