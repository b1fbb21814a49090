package logger

import (
	"os"
	"sync"

	"lpd/pkg/config"
	"lpd/pkg/utils/constants"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	base     *zap.SugaredLogger
	baseOnce sync.Once
)

// Logging 返回带名字的日志记录器，名字会出现在每条日志的 logger 字段里
func Logging(name string) *zap.SugaredLogger {
	baseOnce.Do(initLogger)
	return base.Named(name)
}

// Sync 刷新缓冲的日志条目，进程退出前调用
func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}

func initLogger() {
	cfg := config.GetConfig()

	level := zapcore.InfoLevel
	// 没有加载配置时只打到标准错误，测试环境不落文件
	fileEnabled := cfg != nil
	filePath := constants.DaemonLogFilePath
	fileSize := 10
	fileCompress := false
	maxAge := 7
	maxBackups := 7

	if cfg != nil {
		if l, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
			level = l
		}
		fileEnabled = cfg.Log.FileEnabled
		if cfg.Log.FilePath != "" {
			filePath = cfg.Log.FilePath
		}
		if cfg.Log.FileSize > 0 {
			fileSize = cfg.Log.FileSize
		}
		fileCompress = cfg.Log.FileCompress
		if cfg.Log.MaxAge > 0 {
			maxAge = cfg.Log.MaxAge
		}
		if cfg.Log.MaxBackups > 0 {
			maxBackups = cfg.Log.MaxBackups
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var cores []zapcore.Core
	if fileEnabled {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    fileSize,
			MaxAge:     maxAge,
			MaxBackups: maxBackups,
			Compress:   fileCompress,
			LocalTime:  true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), fileWriter, level))
	}

	// 前台运行时同时输出到标准错误，方便调试
	if (cfg != nil && !cfg.Daemonize) || config.ForegroundFlag {
		consoleCfg := zap.NewDevelopmentEncoderConfig()
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleCfg),
			zapcore.AddSync(os.Stderr),
			level,
		))
	}

	if len(cores) == 0 {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(os.Stderr),
			level,
		))
	}

	base = zap.New(zapcore.NewTee(cores...)).Sugar()
}
