package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"coursehub/cmd/server"
	"coursehub/common/global"
)

var rootCmd = &cobra.Command{
	Use:          "coursehub",
	Short:        "coursehub",
	SilenceUsage: true,
	Long:         `coursehub course progress service`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 {
			return errors.New("requires at least one arg")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("coursehub %s\n", global.Version)
	},
}

func init() {
	rootCmd.AddCommand(server.StartCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(-1)
	}
}
