package commands

import (
	"fmt"
	"strconv"

	"mealmax/internal/app/kitchen"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func createCmd(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "create [meal] [cuisine] [price] [difficulty]",
		Short: "Create a meal (difficulty is LOW, MED or HIGH)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("invalid price %q: %w", args[2], err)
			}
			created, err := app.kitchen.CreateMeal(cmd.Context(), kitchen.CreateMealRequest{
				Name:       args[0],
				Cuisine:    args[1],
				Price:      price,
				Difficulty: args[3],
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), created)
		},
	}
}

func deleteCmd(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Soft-delete a meal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid meal id %q", args[0])
			}
			if err := app.kitchen.DeleteMeal(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted meal %d\n", id)
			return nil
		},
	}
}

func getCmd(app *appContext) *cobra.Command {
	var byID bool
	cmd := &cobra.Command{
		Use:   "get [meal]",
		Short: "Show a meal by name, or by id with --id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if byID {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid meal id %q", args[0])
				}
				m, err := app.kitchen.GetMealByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), m)
			}
			m, err := app.kitchen.GetMealByName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), m)
		},
	}
	cmd.Flags().BoolVar(&byID, "id", false, "treat the argument as a meal id")
	return cmd
}

func leaderboardCmd(app *appContext) *cobra.Command {
	var sortBy string
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "List meals that have battled, best first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.kitchen.Leaderboard(cmd.Context(), kitchen.LeaderboardRequest{SortBy: sortBy})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", "wins", "sort key: wins or win_pct")
	return cmd
}

func clearCmd(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every meal from the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.kitchen.ClearMeals(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cleared meals")
			return nil
		},
	}
}
