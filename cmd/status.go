package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"lpd/pkg/client"
)

var statusCmd = &cobra.Command{
	Use:   "status [project]",
	Short: "Show project overview",
	Args:  cobra.MaximumNArgs(1),
	Run:   execStatusCmd,
}

func init() {
	setupCommandPreRun(statusCmd, requireDaemonRunning)
	rootCmd.AddCommand(statusCmd)
}

func execStatusCmd(cmd *cobra.Command, args []string) {
	var res = client.Overview()
	if len(args) == 1 {
		res = client.OverviewFor(args[0])
	}

	res = printResult(res)

	if len(res.Overview) == 0 {
		fmt.Println("No projects found.")
		return
	}

	for _, row := range res.Overview {
		printOverviewRow(&row)
	}
}
