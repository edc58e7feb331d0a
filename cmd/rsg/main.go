// Package main is the entry point for the random scenario generator CLI
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rsg",
	Short: "Random scenario generator",
	Long:  `rsg generates random playable scenarios for tile-based fantasy strategy maps from Lua templates, game catalogs and a seed.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateCmd)
}
