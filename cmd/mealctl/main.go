package main

import (
	"os"

	"mealmax/cmd/mealctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
