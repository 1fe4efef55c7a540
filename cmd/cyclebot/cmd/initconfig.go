package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cyclebot/config"
)

var initconfigCmd = &cobra.Command{
	Use:   "initconfig",
	Short: "Write a default config file",
	RunE:  runInitconfig,
}

func init() {
	rootCmd.AddCommand(initconfigCmd)
}

func runInitconfig(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("refusing to overwrite existing %s", cfgPath)
	}
	if err := config.Default().SaveToFile(cfgPath); err != nil {
		return err
	}
	fmt.Printf("Wrote default config to %s\n", cfgPath)
	fmt.Println("Set ALPACA_API_KEY and ALPACA_SECRET_KEY in the environment or a .env file.")
	return nil
}
