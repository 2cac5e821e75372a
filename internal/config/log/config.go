// Package log 日志配置：级别、控制台/文件输出与 lumberjack 轮转参数
package log

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"

	configtypes "github.com/weisyn/custody/pkg/types"
)

// LogOptions 日志配置选项
type LogOptions struct {
	Level     string `json:"level"`      // debug, info, warn, error, fatal
	ToConsole bool   `json:"to_console"` // 是否输出到控制台
	FilePath  string `json:"file_path"`  // 为空则不写文件

	// 轮转
	MaxSize    int  `json:"max_size"`    // MB
	MaxBackups int  `json:"max_backups"` // 保留文件数
	MaxAge     int  `json:"max_age"`     // 天
	Compress   bool `json:"compress"`

	EnableCaller     bool `json:"enable_caller"`
	EnableStacktrace bool `json:"enable_stacktrace"` // error 及以上附带堆栈
}

// DefaultFilePath 由数据目录推导日志文件路径
func DefaultFilePath(dataDir string) string {
	if dataDir == "" {
		return ""
	}
	return filepath.Join(dataDir, "logs", defaultLogFileName)
}

// Config 日志配置
type Config struct {
	options *LogOptions
}

// New 以默认值为基础，叠加用户配置中出现的字段
func New(userConfig interface{}) *Config {
	opts := &LogOptions{
		Level:            defaultLogLevel,
		ToConsole:        defaultToConsole,
		FilePath:         defaultFilePath,
		MaxSize:          defaultMaxSize,
		MaxBackups:       defaultMaxBackups,
		MaxAge:           defaultMaxAge,
		Compress:         defaultCompress,
		EnableCaller:     defaultEnableCaller,
		EnableStacktrace: defaultEnableStacktrace,
	}
	if u, ok := userConfig.(*configtypes.UserLogConfig); ok && u != nil {
		if u.Level != nil {
			opts.Level = strings.ToLower(strings.TrimSpace(*u.Level))
		}
		// 指定文件后不再输出到控制台
		if u.FilePath != nil && *u.FilePath != "" {
			opts.FilePath = *u.FilePath
			opts.ToConsole = false
		}
	}
	return &Config{options: opts}
}

// NewFromOptions 从完整选项创建
func NewFromOptions(options *LogOptions) *Config {
	return &Config{options: options}
}

// NewFromProvider 从配置提供者创建；提供者不含日志配置时使用默认值
func NewFromProvider(provider interface{}) *Config {
	if p, ok := provider.(interface{ GetLog() *LogOptions }); ok {
		return &Config{options: p.GetLog()}
	}
	return New(nil)
}

// GetOptions 完整选项
func (c *Config) GetOptions() *LogOptions { return c.options }

// GetLevel 日志级别名称
func (c *Config) GetLevel() string { return c.options.Level }

// GetZapLevel 解析后的 zap 级别；无法识别时为 info
func (c *Config) GetZapLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(c.options.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	switch level {
	case zapcore.DPanicLevel, zapcore.PanicLevel:
		return zapcore.InfoLevel
	}
	return level
}

func (c *Config) IsConsoleEnabled() bool     { return c.options.ToConsole }
func (c *Config) GetFilePath() string        { return c.options.FilePath }
func (c *Config) GetMaxSize() int            { return c.options.MaxSize }
func (c *Config) GetMaxBackups() int         { return c.options.MaxBackups }
func (c *Config) GetMaxAge() int             { return c.options.MaxAge }
func (c *Config) IsCompressionEnabled() bool { return c.options.Compress }
func (c *Config) IsCallerEnabled() bool      { return c.options.EnableCaller }
func (c *Config) IsStacktraceEnabled() bool  { return c.options.EnableStacktrace }

// CreateFileEncoder 文件输出使用 JSON 编码
func (c *Config) CreateFileEncoder() zapcore.Encoder {
	ec := encoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeLevel = zapcore.LowercaseLevelEncoder
	return zapcore.NewJSONEncoder(ec)
}

// CreateConsoleEncoder 控制台输出使用带颜色的行格式
func (c *Config) CreateConsoleEncoder() zapcore.Encoder {
	ec := encoderConfig()
	ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(ec)
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}
