package cmd

import (
	"github.com/spf13/cobra"

	"lpd/pkg/client"
)

var launchProfile string

var launchCmd = &cobra.Command{
	Use:   "launch <project>",
	Short: "Launch every component of a project",
	Args:  cobra.ExactArgs(1),
	Run:   execLaunchCmd,
}

func init() {
	launchCmd.Flags().StringVarP(&launchProfile, "profile", "p", "", "Launch with the given profile")

	// launch 命令特殊处理：daemon 没起来就顺手拉起来
	setupCommandPreRun(launchCmd, ensureDaemonRunning)
	rootCmd.AddCommand(launchCmd)
}

func execLaunchCmd(cmd *cobra.Command, args []string) {
	res := printResult(client.Launch(args[0], launchProfile))

	for _, row := range res.Overview {
		printOverviewRow(&row)
	}
}
