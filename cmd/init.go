package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/routemap/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize routemap configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure routemap for your project and generates a .routemap.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
