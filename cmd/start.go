package cmd

import (
	"github.com/spf13/cobra"

	"lpd/pkg/client"
)

var startCmd = &cobra.Command{
	Use:   "start <project> <component>",
	Short: "Start a single component",
	Args:  cobra.ExactArgs(2),
	Run:   execStartCmd,
}

func init() {
	setupCommandPreRun(startCmd, ensureDaemonRunning)
	rootCmd.AddCommand(startCmd)
}

func execStartCmd(cmd *cobra.Command, args []string) {
	res := printResult(client.StartComponent(args[0], args[1]))

	for _, row := range res.Overview {
		printOverviewRow(&row)
	}
}
