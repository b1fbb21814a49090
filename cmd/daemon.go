package cmd

import (
	"fmt"
	"log"

	"lpd/pkg/config"
	"lpd/pkg/engine"
	"lpd/pkg/utils"
	"lpd/pkg/utils/constants"

	"github.com/spf13/cobra"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the launch engine as a daemon",
	Run:   execDaemonCmd,
}

func init() {
	daemonCmd.PersistentFlags().BoolVarP(&config.ForegroundFlag, "foreground", "f", false, "Run the daemon in the foreground")

	daemonCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		rootCmd.PersistentPreRun(cmd, args)
		execDaemonPersistentPreRun()
	}
	rootCmd.AddCommand(daemonCmd)
}

func execDaemonPersistentPreRun() {
	err := utils.CheckPerm(constants.LpdHome)
	if err != nil {
		log.Fatal(err)
	}
}

func execDaemonCmd(cmd *cobra.Command, args []string) {
	if isDaemonRunning() {
		fmt.Println("Lpd daemon is running. Don't start again.")
		return
	}

	engine.Daemon()
}
