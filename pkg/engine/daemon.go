// Package engine 提供 Daemon 管理功能
package engine

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lpd/pkg/catalog"
	"lpd/pkg/config"
	"lpd/pkg/logger"
	"lpd/pkg/utils"

	"github.com/gnuos/daemon"
)

var daemonCtx *daemon.Context

// GetDaemon 获取或创建 Daemon 上下文，单例
func GetDaemon() *daemon.Context {
	if daemonCtx == nil {
		daemonCtx = &daemon.Context{
			PidFileName: config.GetConfig().PidFile,
			PidFilePerm: 0644,
			Umask:       027,
			Args:        os.Args,
		}
	}

	return daemonCtx
}

// Daemon 以守护进程模式运行启动引擎
//
// 前台模式（-f）直接跑在当前进程里，否则通过 daemon.Reborn() 脱到后台，
// 父进程在子进程建立后立即返回。子进程里打开数据库、加载项目目录、
// 起控制服务，然后阻塞到收到终止信号或客户端下发 shutdown。
// 退出前把所有项目的组件停掉并持久化。
func Daemon() {
	defer func() {
		if config.ForegroundFlag {
			_ = os.Remove(config.GetConfig().PidFile)
		} else {
			_ = GetDaemon().Release()
		}
		_ = os.Remove(config.GetConfig().Socket)
	}()

	startedAt := time.Now()

	if config.ForegroundFlag {
		err := utils.WriteDaemonPid(config.GetConfig().PidFile, utils.DaemonPid)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	} else {
		d, err := GetDaemon().Reborn()
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
			_ = GetDaemon().Release()
			os.Exit(1)
		}

		if d != nil {
			return
		}
	}

	fmt.Printf("\033[1;33;40mLpd daemon started at %s\033[0m\n\n", startedAt.Format(time.RFC3339))

	signal.Notify(utils.StopChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	log := logger.Logging("daemon")
	cfg := config.GetConfig()

	store, err := OpenStore(cfg.DataDir)
	if err != nil {
		log.Errorf("Cannot open data store: %v", err)
		os.Exit(1)
	}

	eng := NewLaunchEngine(store, SupervisorOptions{
		GracePeriod:   cfg.Engine.GracePeriod,
		ProbeInterval: cfg.Engine.ProbeInterval,
		ProbeTimeout:  cfg.Engine.ProbeTimeout,
		LogCapacity:   cfg.Engine.LogCapacity,
	})

	cat, err := catalog.Load(cfg.Projects)
	if err != nil {
		log.Errorf("Cannot load project catalog: %v", err)
	} else if err = eng.LoadCatalog(cat); err != nil {
		log.Errorf("Cannot register projects: %v", err)
	}

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		StartServer(eng)
	}()

	log.Infof("Lpd daemon PID %d", utils.DaemonPid)

	select {
	case sig := <-utils.StopChan:
		log.Infof("Received signal %v", sig)
		select {
		case utils.FinishChan <- struct{}{}:
		default:
		}
		CloseServer()
		<-serverDone
	case <-serverDone:
		// 客户端下发了 shutdown
	}
	signal.Stop(utils.StopChan)

	eng.Shutdown()
	if err = store.Close(); err != nil {
		log.Error(err)
	}

	log.Info("Lpd daemon stopped")
	logger.Sync()
}
