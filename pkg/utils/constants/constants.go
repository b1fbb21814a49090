// Package constants
package constants

import (
	"fmt"
	"os"
)

const (
	DefaultLogLevel   = "info"
	DefaultDaemonName = "lpd"
)

var LpdHome = getHome()

var DaemonLogFilePath = getDaemonPath("log")
var DaemonPidFilePath = getDaemonPath("pid")
var DaemonSockFilePath = getDaemonPath("sock")

// DataDirPath 是 badger 数据库目录，保存各项目的历史记录和使用时长
var DataDirPath = fmt.Sprintf("%s/data", LpdHome)

// ProjectsDirPath 是项目配置目录，每个项目一个 YAML 文件
var ProjectsDirPath = fmt.Sprintf("%s/projects", LpdHome)

func getHome() string {
	return fmt.Sprintf("%s/.lpd", os.Getenv("HOME"))
}

func getDaemonPath(suffix string) string {
	return fmt.Sprintf("%s/%s.%s", LpdHome, DefaultDaemonName, suffix)
}
