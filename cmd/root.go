// Package cmd
package cmd

import (
	"log"
	"os"

	"lpd/pkg/config"
	"lpd/pkg/utils"
	"lpd/pkg/utils/constants"

	"github.com/spf13/cobra"
)

var showVersion bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           utils.RuntimeModuleName,
	Short:         utils.RuntimeModuleName + " cli",
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			execVersionCmd(cmd, args)
			os.Exit(0)
		}

		_ = cmd.Usage()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Configure cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Set global flags
	rootCmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Print version and exit")
	rootCmd.PersistentFlags().StringVarP(&config.LogLevelFlag, "loglevel", "l", "", "Set log level (default "+constants.DefaultLogLevel+")")
	rootCmd.PersistentFlags().StringVarP(&utils.GlobalConfigFile, "config", "c", "", "The path to the config file")
	rootCmd.PersistentFlags().StringVarP(&config.ProjectsFlag, "projects", "P", "", "The path to the project catalog directory")

	// Register persistent function for all commands
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		execRootPersistentPreRun()
	}
}

func execRootPersistentPreRun() {
	utils.InitEnv()
	config.SetConfig(utils.GlobalConfigFile)
}
