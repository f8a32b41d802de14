package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/playperu/geodash/internal/geodash"
)

var errResetAborted = errors.New("reset aborted")

func (s *session) gamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List the mini-game catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			games := s.app.Arcade.Games()
			return s.print(cmd, games, func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tCATEGORY\tDIFFICULTY\tHIGH SCORE\tPLAYED\tSTATUS")
				for _, g := range games {
					status := "unlocked"
					if !g.Unlocked {
						status = fmt.Sprintf("locked (%d)", g.UnlockRequirement)
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
						g.ID, g.Category, g.Difficulty, g.HighScore, g.TimesPlayed, status)
				}
				tw.Flush()
			})
		},
	}
}

func (s *session) reportScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report-score GAME SCORE",
		Short: "Record a finished play and unlock games the new total qualifies for",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("score %q is not a number", args[1])
			}
			res, err := s.app.ReportScore(cmd.Context(), args[0], score)
			if err != nil {
				return err
			}
			return s.print(cmd, res, func(w io.Writer) {
				fmt.Fprintf(w, "%s: high score %d, total score %d\n",
					res.Game.ID, res.Game.HighScore, res.Stats.TotalScore)
				printUnlocked(w, res.Unlocked)
			})
		},
	}
}

func (s *session) checkUnlocksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-unlocks",
		Short: "Unlock every game whose requirement the total score covers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			unlocked, err := s.app.Arcade.CheckUnlocks(cmd.Context())
			if err != nil {
				return err
			}
			if unlocked == nil {
				unlocked = []geodash.MiniGame{}
			}
			return s.print(cmd, unlocked, func(w io.Writer) {
				if len(unlocked) == 0 {
					fmt.Fprintln(w, "No new games unlocked")
				}
				printUnlocked(w, unlocked)
			})
		},
	}
}

func (s *session) unlockGameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock-game GAME",
		Short: "Unlock a game regardless of its requirement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := s.app.Arcade.UnlockGame(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return s.print(cmd, g, func(w io.Writer) {
				fmt.Fprintf(w, "%s unlocked\n", g.Name)
			})
		},
	}
}

func (s *session) recordWinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record-win",
		Short: "Add one to the win counter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := s.app.Arcade.RecordWin(cmd.Context())
			if err != nil {
				return err
			}
			return s.print(cmd, stats, func(w io.Writer) {
				fmt.Fprintf(w, "Wins: %d\n", stats.TotalWins)
			})
		},
	}
}

func (s *session) resetCmd() *cobra.Command {
	var games, exploration, yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase progress",
		Long: `Erase stored progress. With neither --games nor --exploration both
tracks are reset. Without --yes the command asks for confirmation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !games && !exploration {
				games, exploration = true, true
			}
			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "This permanently erases progress. Type 'yes' to continue: ")
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if strings.TrimSpace(line) != "yes" {
					return errResetAborted
				}
			}

			ctx := cmd.Context()
			if exploration {
				if err := s.app.ResetExploration(ctx); err != nil {
					return fmt.Errorf("resetting exploration: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Exploration progress reset")
			}
			if games {
				if err := s.app.ResetGames(ctx); err != nil {
					return fmt.Errorf("resetting games: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Game progress reset")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&games, "games", false, "Reset the mini-game track")
	cmd.Flags().BoolVar(&exploration, "exploration", false, "Reset the exploration track")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func printUnlocked(w io.Writer, games []geodash.MiniGame) {
	for _, g := range games {
		fmt.Fprintf(w, "Unlocked %s\n", g.Name)
	}
}
