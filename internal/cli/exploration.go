package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/playperu/geodash/internal/geodash"
)

type statusView struct {
	Progress geodash.UserData    `json:"progress"`
	Stats    geodash.PlayerStats `json:"stats"`
}

func (s *session) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show exploration progress and game statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := statusView{Progress: s.app.Explorer.Snapshot(), Stats: s.app.Arcade.Stats()}
			return s.print(cmd, v, func(w io.Writer) {
				u := v.Progress
				fmt.Fprintf(w, "Player:       %s (level %d)\n", u.Username, u.Level)
				fmt.Fprintf(w, "Points:       %d\n", u.TotalPoints)
				fmt.Fprintf(w, "Captured:     %d POIs\n", len(u.CapturedPOIs))
				fmt.Fprintf(w, "Territories:  %v\n", u.UnlockedTerritories)
				fmt.Fprintf(w, "Game score:   %d over %d games, %d wins\n",
					v.Stats.TotalScore, v.Stats.GamesPlayed, v.Stats.TotalWins)
			})
		},
	}
}

func (s *session) territoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "territories",
		Short: "Unlock every territory the capture count qualifies for and list them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			unlocked, err := s.app.Explorer.CheckTerritoryUnlock(cmd.Context())
			if err != nil {
				return err
			}
			u := s.app.Explorer.Snapshot()
			return s.print(cmd, u.UnlockedTerritories, func(w io.Writer) {
				for _, t := range unlocked {
					fmt.Fprintf(w, "Unlocked %s\n", t.Name)
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "TERRITORY\tNEEDS\tSTATUS")
				for _, t := range geodash.Territories {
					status := "locked"
					if u.HasTerritory(t.ID) {
						status = "unlocked"
					}
					fmt.Fprintf(tw, "%s\t%d\t%s\n", t.ID, t.UnlockAt, status)
				}
				tw.Flush()
			})
		},
	}
}

func (s *session) renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename NAME",
		Short: "Change the player name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := s.app.Explorer.SetUsername(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return s.print(cmd, u, func(w io.Writer) {
				fmt.Fprintf(w, "Player renamed to %s\n", u.Username)
			})
		},
	}
}
