package cmd

import (
	"github.com/spf13/cobra"

	"lpd/pkg/client"
)

var teardownCmd = &cobra.Command{
	Use:   "teardown <project>",
	Short: "Stop every component of a project",
	Args:  cobra.ExactArgs(1),
	Run:   execTeardownCmd,
}

func init() {
	setupCommandPreRun(teardownCmd, requireDaemonRunning)
	rootCmd.AddCommand(teardownCmd)
}

func execTeardownCmd(cmd *cobra.Command, args []string) {
	res := printResult(client.Teardown(args[0]))

	for _, row := range res.Overview {
		printOverviewRow(&row)
	}
}
