// Package utils 提供跨包共享的运行时辅助函数和进程级通道
package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"lpd/pkg/utils/constants"
)

const RuntimeModuleName = "lpd"

// DaemonPid 是当前进程的 PID，daemon 模式下由子进程继承后更新
var DaemonPid = os.Getpid()

// GlobalConfigFile 由命令行 --config 选项填充，空值时按默认路径搜索
var GlobalConfigFile string

// StopChan 接收操作系统终止信号
var StopChan = make(chan os.Signal, 1)

// FinishChan 用来通知控制服务退出监听循环
var FinishChan = make(chan struct{}, 1)

// InitEnv 确保 ~/.lpd 下的目录结构存在
func InitEnv() {
	for _, dir := range []string{constants.LpdHome, constants.DataDirPath, constants.ProjectsDirPath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "create directory %q error: %v\n", dir, err)
			os.Exit(1)
		}
	}
}

// CheckPerm 检查目录是否可写
func CheckPerm(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return os.MkdirAll(dir, 0755)
		}
		return err
	}

	if !info.IsDir() {
		return &os.PathError{Op: "dirname", Path: dir, Err: os.ErrInvalid}
	}

	probe := fmt.Sprintf("%s/.perm", dir)
	f, err := os.OpenFile(probe, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_ = f.Close()

	return os.Remove(probe)
}

// ReadPid 从 PID 文件中读取进程号
func ReadPid(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return -1, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return -1, err
	}

	return pid, nil
}

// WriteDaemonPid 把 daemon 进程号写入 PID 文件
func WriteDaemonPid(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644)
}
