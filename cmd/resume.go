package cmd

import (
	"github.com/spf13/cobra"

	"lpd/pkg/client"
)

var resumeCmd = &cobra.Command{
	Use:   "resume <project> <component>",
	Short: "Resume a paused component",
	Args:  cobra.ExactArgs(2),
	Run:   execResumeCmd,
}

func init() {
	setupCommandPreRun(resumeCmd, requireDaemonRunning)
	rootCmd.AddCommand(resumeCmd)
}

func execResumeCmd(cmd *cobra.Command, args []string) {
	res := printResult(client.ResumeComponent(args[0], args[1]))

	for _, row := range res.Overview {
		printOverviewRow(&row)
	}
}
