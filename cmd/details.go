package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"lpd/pkg/client"
	"lpd/pkg/codec"
)

var showLogs bool

var detailsCmd = &cobra.Command{
	Use:   "details [project]",
	Short: "Show component details of one or all projects",
	Args:  cobra.MaximumNArgs(1),
	Run:   execDetailsCmd,
}

func init() {
	detailsCmd.Flags().BoolVarP(&showLogs, "logs", "L", false, "Include buffered component output")

	setupCommandPreRun(detailsCmd, requireDaemonRunning)
	rootCmd.AddCommand(detailsCmd)
}

func execDetailsCmd(cmd *cobra.Command, args []string) {
	if len(args) == 1 {
		res := printResult(client.Details(args[0]))
		if res.Detail != nil {
			printDetail(res.Detail)
		}
		return
	}

	res := printResult(client.DetailsAll())
	for i := range res.Details {
		printDetail(&res.Details[i])
		fmt.Println()
	}
}

func printDetail(detail *codec.ProjectDetail) {
	printOverviewRow(&detail.Overview)

	if len(detail.Overview.Tags) > 0 {
		fmt.Printf("  tags: %v\n", detail.Overview.Tags)
	}

	for i := range detail.Components {
		printComponentInfo(&detail.Components[i])
		if showLogs {
			printLogLines(detail.Components[i].Logs)
		}
	}

	for _, link := range detail.QuickLinks {
		fmt.Printf("  link: %s (%s)\n", link.Label, link.URL)
	}
	for _, folder := range detail.Folders {
		fmt.Printf("  folder: %s (%s)\n", folder.Label, folder.Path)
	}
	if len(detail.Profiles) > 1 {
		fmt.Printf("  profiles: %v\n", detail.Profiles)
	}
}
