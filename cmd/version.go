package cmd

import (
	"fmt"
	"runtime"

	"lpd/pkg/utils"

	"github.com/spf13/cobra"
)

// Version 在构建时通过 -ldflags 注入
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run:   execVersionCmd,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func execVersionCmd(cmd *cobra.Command, args []string) {
	fmt.Printf("%s %s (%s/%s)\n", utils.RuntimeModuleName, Version, runtime.GOOS, runtime.GOARCH)
}
