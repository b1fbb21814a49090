package cmd

import (
	"github.com/spf13/cobra"

	"lpd/pkg/client"
)

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload the project catalog",
	Run:   execReloadCmd,
}

func init() {
	setupCommandPreRun(reloadCmd, requireDaemonRunning)
	rootCmd.AddCommand(reloadCmd)
}

func execReloadCmd(cmd *cobra.Command, args []string) {
	res := printResult(client.Reload())

	for _, row := range res.Overview {
		printOverviewRow(&row)
	}
}
