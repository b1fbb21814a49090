package cmd

import (
	"github.com/spf13/cobra"

	"lpd/pkg/client"
)

var pauseCmd = &cobra.Command{
	Use:   "pause <project> <component>",
	Short: "Pause a running component",
	Args:  cobra.ExactArgs(2),
	Run:   execPauseCmd,
}

func init() {
	setupCommandPreRun(pauseCmd, requireDaemonRunning)
	rootCmd.AddCommand(pauseCmd)
}

func execPauseCmd(cmd *cobra.Command, args []string) {
	res := printResult(client.PauseComponent(args[0], args[1]))

	for _, row := range res.Overview {
		printOverviewRow(&row)
	}
}
