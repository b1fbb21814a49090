package cmd

import (
	"github.com/spf13/cobra"

	"lpd/pkg/client"
)

var stopCmd = &cobra.Command{
	Use:   "stop <project> <component>",
	Short: "Stop a single component",
	Args:  cobra.ExactArgs(2),
	Run:   execStopCmd,
}

func init() {
	setupCommandPreRun(stopCmd, requireDaemonRunning)
	rootCmd.AddCommand(stopCmd)
}

func execStopCmd(cmd *cobra.Command, args []string) {
	res := printResult(client.StopComponent(args[0], args[1]))

	for _, row := range res.Overview {
		printOverviewRow(&row)
	}
}
