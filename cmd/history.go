package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lpd/pkg/client"
)

var historyCmd = &cobra.Command{
	Use:   "history <project>",
	Short: "Show the operation history of a project",
	Args:  cobra.ExactArgs(1),
	Run:   execHistoryCmd,
}

func init() {
	setupCommandPreRun(historyCmd, requireDaemonRunning)
	rootCmd.AddCommand(historyCmd)
}

func execHistoryCmd(cmd *cobra.Command, args []string) {
	res := printResult(client.History(args[0]))

	if len(res.History) == 0 {
		fmt.Println("No history yet.")
		return
	}

	for _, entry := range res.History {
		fmt.Printf("%s\t%s\n", entry.At.Format(time.RFC3339), entry.Text)
	}
}
