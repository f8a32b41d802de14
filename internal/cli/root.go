// Package cli implements geodashctl, a command line client that can share a
// store with a running server.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/playperu/geodash/internal/app"
	"github.com/playperu/geodash/internal/config"
)

// opener opens the app the commands operate on.
type opener func(ctx context.Context) (*app.App, error)

type session struct {
	open    opener
	app     *app.App
	jsonOut bool
}

// newRootCommand builds the geodashctl command tree. The app is opened
// before a subcommand runs and must be released with session.close.
func newRootCommand(open opener) (*cobra.Command, *session) {
	s := &session{open: open}

	root := &cobra.Command{
		Use:   "geodashctl",
		Short: "Inspect and manage GeoDash progress",
		Long: `geodashctl reads and changes the exploration and mini-game progress
stored by the GeoDash server. It uses the same configuration as the server
(environment variables or a .env file), so point it at the same store.

Every change is applied to the stored record inside a store transaction, so
changes made here and by a running server never overwrite each other. A
running server shows them in its responses after its next change to the same
track; live runs on the server are not cancelled by reset here.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			s.app = a
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&s.jsonOut, "json", false, "Print results as JSON")

	root.AddCommand(
		s.statusCmd(),
		s.territoriesCmd(),
		s.renameCmd(),
		s.gamesCmd(),
		s.reportScoreCmd(),
		s.checkUnlocksCmd(),
		s.unlockGameCmd(),
		s.recordWinCmd(),
		s.resetCmd(),
	)
	return root, s
}

func (s *session) close() error {
	if s.app == nil {
		return nil
	}
	err := s.app.Close()
	s.app = nil
	return err
}

// Execute runs geodashctl against the configured store.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root, s := newRootCommand(func(ctx context.Context) (*app.App, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
		a, err := app.Open(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("opening %s store: %w", cfg.StoreBackend, err)
		}
		return a, nil
	})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	defer s.close()
	return root.ExecuteContext(ctx)
}

// print writes v as indented JSON when --json is set, otherwise calls text.
func (s *session) print(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	if s.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
