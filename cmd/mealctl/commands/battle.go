package commands

import (
	"fmt"

	"mealmax/internal/adapter/metrics/inmemory"
	"mealmax/internal/app/battle"

	"github.com/spf13/cobra"
)

func battleCmd(app *appContext) *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "battle [meal] [meal]",
		Short: "Battle two meals and record the result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				seed = app.cfg.RandomSeed
			}
			recorder := inmemory.NewRecorder()
			session := battle.NewSession(app.repos.Meals, &battle.Model{
				Stats:   app.repos.Meals,
				Tx:      app.repos.Tx,
				Random:  battle.NewRandomSource(seed),
				Metrics: recorder,
				Logger:  app.logger,
			})
			for _, name := range args {
				if _, err := session.PrepByName(cmd.Context(), name); err != nil {
					return err
				}
			}
			result, err := session.Battle(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s defeats %s (scores %.2f vs %.2f, delta %.4f, roll %.4f)\n",
				result.Winner.Name, result.Loser.Name, result.Score1, result.Score2, result.Delta, result.Roll)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 picks one at random)")
	return cmd
}
