package cmd

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"syscall"
	"time"

	"lpd/pkg/codec"
	"lpd/pkg/config"
	"lpd/pkg/utils"

	"github.com/spf13/cobra"
)

func isDaemonRunning() bool {
	daemonPid, err := utils.ReadPid(config.GetConfig().PidFile)
	if err != nil {
		return false
	}

	if daemonPid < 0 {
		return false
	}

	return isPidActive(daemonPid)
}

func isPidActive(p int) bool {
	_, err := syscall.Getpgid(p)

	return err == nil
}

func tryRunDaemon() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}

	args := make([]string, 0)
	args = append(args, "daemon")

	cmd := exec.Command(exe, args...)
	cmd.Stderr = os.Stderr
	cmd.Stdout = os.Stdout
	cmd.Stdin = os.Stdin

	return cmd.Start()
}

// setupCommandPreRun 给子命令挂上统一的前置检查，先跑根命令的初始化
func setupCommandPreRun(cmd *cobra.Command, pre func()) {
	cmd.PersistentPreRun = func(c *cobra.Command, args []string) {
		rootCmd.PersistentPreRun(c, args)
		pre()
	}
}

// requireDaemonRunning 检查守护进程是否运行，未运行时直接退出
func requireDaemonRunning() {
	if !isDaemonRunning() {
		log.Fatalln("ERROR: Lpd daemon has not started. Run 'lpd daemon' first.")
	}
}

// ensureDaemonRunning 守护进程没起来就先拉起来
func ensureDaemonRunning() {
	if isDaemonRunning() {
		return
	}

	fmt.Printf("Lpd daemon is not running. Starting daemon...\n\n")

	if err := tryRunDaemon(); err != nil {
		log.Fatal(err)
	}

	// 等 daemon 建好 socket
	time.Sleep(1 * time.Second)
}

func printOverviewRow(row *codec.OverviewRow) {
	mark := " "
	if row.Favorite {
		mark = "*"
	}

	fmt.Printf("%s %-16s %-10s %d/%d running\tprofile: %s\tusage: %.1fh\n",
		mark, row.Name, row.Status, row.Running, row.Total, row.Profile, row.UsageHours)
}

func printComponentInfo(info *codec.ComponentInfo) {
	if info.Pid > 0 {
		fmt.Printf("  %-12s %-10s PID: %d\n", info.Name, info.State, info.Pid)
	} else {
		fmt.Printf("  %-12s %-10s\n", info.Name, info.State)
	}

	for _, health := range info.Health {
		fmt.Printf("    [%s] %s: %s\n", health.Status, health.Label, health.Detail)
	}
}

func printLogLines(lines []codec.LogLine) {
	for _, line := range lines {
		fmt.Printf("    [%s] %s: %s\n", line.At.Format("15:04"), line.Source, line.Text)
	}
}

// printResult 打印通用响应，通信失败时结束进程
func printResult(res *codec.ResponseMsg) *codec.ResponseMsg {
	if res == nil {
		os.Exit(1)
	}

	fmt.Printf("%d\t%s\n\n", res.Code, res.Message)
	return res
}
