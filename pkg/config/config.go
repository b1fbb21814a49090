package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"lpd/pkg/utils/constants"

	"github.com/spf13/viper"
)

var config *Config

// configViperMutex 保护全局配置加载时的 viper 全局状态操作
var configViperMutex sync.Mutex

// 命令行标志，由 cmd 包在解析时填充
var (
	ForegroundFlag bool
	LogLevelFlag   string
	ProjectsFlag   string
)

type Config struct {
	Daemonize bool   `yaml:"daemonize" mapstructure:"daemonize"`
	PidFile   string `yaml:"pidfile" mapstructure:"pidfile"`
	Socket    string `yaml:"socket" mapstructure:"socket"`
	DataDir   string `yaml:"data_dir" mapstructure:"data_dir"`
	Projects  string `yaml:"projects_dir" mapstructure:"projects_dir"`
	Log       Log    `yaml:"log" mapstructure:"log"`
	Engine    Engine `yaml:"engine" mapstructure:"engine"`
}

type Log struct {
	Level        string `yaml:"level,omitempty" mapstructure:"level,omitempty"`
	FileEnabled  bool   `yaml:"file_enabled" mapstructure:"file_enabled"`
	FilePath     string `yaml:"file_path,omitempty" mapstructure:"file_path,omitempty"`
	FileSize     int    `yaml:"file_size,omitempty" mapstructure:"file_size,omitempty"`
	FileCompress bool   `yaml:"file_compress,omitempty" mapstructure:"file_compress,omitempty"`
	MaxAge       int    `yaml:"max_age,omitempty" mapstructure:"max_age,omitempty"`
	MaxBackups   int    `yaml:"max_backups,omitempty" mapstructure:"max_backups,omitempty"`
}

// Engine 是启动引擎的运行参数
type Engine struct {
	// GracePeriod 是优雅终止的宽限时间，超时后升级为 SIGKILL
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period"`

	// ProbeInterval 是健康检查的默认执行间隔
	ProbeInterval time.Duration `yaml:"probe_interval" mapstructure:"probe_interval"`

	// ProbeTimeout 是单次健康检查的超时上限
	ProbeTimeout time.Duration `yaml:"probe_timeout" mapstructure:"probe_timeout"`

	// LogCapacity 是每个组件日志环形缓冲区能保留的行数
	LogCapacity int `yaml:"log_capacity" mapstructure:"log_capacity"`
}

func setDefault() {
	viper.SetDefault("daemonize", true)
	viper.SetDefault("pidfile", constants.DaemonPidFilePath)
	viper.SetDefault("socket", constants.DaemonSockFilePath)
	viper.SetDefault("data_dir", constants.DataDirPath)
	viper.SetDefault("projects_dir", constants.ProjectsDirPath)
	viper.SetDefault("log", map[string]any{
		"Level":        constants.DefaultLogLevel,
		"FilePath":     constants.DaemonLogFilePath,
		"FileEnabled":  true,
		"FileCompress": false,
		"FileSize":     10,
		"MaxAge":       7,
		"MaxBackups":   7,
	})
	viper.SetDefault("engine", map[string]any{
		"GracePeriod":   10 * time.Second,
		"ProbeInterval": 15 * time.Second,
		"ProbeTimeout":  5 * time.Second,
		"LogCapacity":   100,
	})
}

func GetConfig() *Config {
	return config
}

func SetConfig(configFile string) {
	configViperMutex.Lock()
	defer configViperMutex.Unlock()

	_, err := os.Stat(configFile)
	if errors.Is(err, os.ErrNotExist) {
		viper.SetConfigName(constants.DefaultDaemonName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("etc")
		viper.AddConfigPath("../etc")
		viper.AddConfigPath(constants.LpdHome)
	} else if err != nil {
		log.Fatal(err)
	} else {
		viper.SetConfigFile(configFile)
	}

	viper.SetEnvPrefix("LPD")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefault()

	err = viper.ReadInConfig()
	if err != nil && !errors.As(err, &viper.ConfigFileNotFoundError{}) {
		log.Fatalf("Error getting config file, %v", err)
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		fmt.Println("Unable to decode into struct, ", err)
	}

	// 命令行选项优先于配置文件
	if LogLevelFlag != "" {
		config.Log.Level = LogLevelFlag
	}
	if ProjectsFlag != "" {
		config.Projects = ProjectsFlag
	}
}
