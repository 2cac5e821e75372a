package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	config "github.com/weisyn/custody/internal/config"
	logconfig "github.com/weisyn/custody/internal/config/log"
	"github.com/weisyn/custody/pkg/types"
)

// newFileLogger 创建只写文件的日志记录器
func newFileLogger(t *testing.T, level string) (*Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs", "custody.log")
	cfg := logconfig.NewFromOptions(&logconfig.LogOptions{
		Level:      level,
		ToConsole:  false,
		FilePath:   path,
		MaxSize:    1,
		MaxBackups: 1,
		MaxAge:     1,
	})
	logger, err := New(cfg)
	require.NoError(t, err)
	return logger.(*Logger), path
}

// readEntries 读取 JSON 日志文件中的全部条目
func readEntries(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	return entries
}

// TestFileLogging 测试文件输出与级别过滤
func TestFileLogging(t *testing.T) {
	logger, path := newFileLogger(t, InfoLevel)

	logger.Debug("不应出现的调试日志")
	logger.Info("存入完成")
	logger.Warnf("场所回退: %s", "paused")
	require.NoError(t, logger.Sync())

	entries := readEntries(t, path)
	require.Len(t, entries, 2)
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "存入完成", entries[0]["message"])
	assert.Equal(t, "warn", entries[1]["level"])
	assert.Equal(t, "场所回退: paused", entries[1]["message"])
}

// TestStructuredLogging 测试结构化字段
func TestStructuredLogging(t *testing.T) {
	logger, path := newFileLogger(t, DebugLevel)

	NewModuleLogger(logger, "vault").With("operation_id", "op-1", "amount", 42).Info("结构化日志测试")
	require.NoError(t, logger.Sync())

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "vault", entries[0]["module"])
	assert.Equal(t, "op-1", entries[0]["operation_id"])
	assert.EqualValues(t, 42, entries[0]["amount"])
}

// TestGlobalLogger 测试全局日志函数
func TestGlobalLogger(t *testing.T) {
	old := GetLogger()
	defer SetLogger(old)

	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(NewFromZap(zap.New(core)))

	Debug("调试")
	Infof("金额 %d", 7)
	Error("失败")
	With("module", "api").Warn("带字段")

	require.Equal(t, 4, logs.Len())
	assert.Equal(t, "金额 7", logs.All()[1].Message)
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[2].Level)
	assert.Equal(t, "api", logs.All()[3].ContextMap()["module"])

	// nil 不替换全局记录器
	SetLogger(nil)
	assert.NotNil(t, GetLogger())
}

// TestNewModuleLogger 测试模块日志记录器
func TestNewModuleLogger(t *testing.T) {
	assert.Nil(t, NewModuleLogger(nil, "vault"))

	core, logs := observer.New(zapcore.InfoLevel)
	NewModuleLogger(NewFromZap(zap.New(core)), "venue").Info("场所调用")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "venue", logs.All()[0].ContextMap()["module"])
}

// TestNop 测试空日志记录器
func TestNop(t *testing.T) {
	logger := NewNop()
	assert.NotPanics(t, func() {
		logger.Info("丢弃")
		logger.With("k", "v").Errorf("丢弃 %d", 1)
	})
	assert.NotNil(t, logger.GetZapLogger())
}

// TestProvideServices 测试按配置提供日志服务并在停止时刷新
func TestProvideServices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custody.log")
	provider := config.NewProvider(&types.AppConfig{
		Log: &types.UserLogConfig{Level: types.StringPtr("warn"), FilePath: types.StringPtr(path)},
	})
	lc := fxtest.NewLifecycle(t)

	out, err := ProvideServices(ModuleParams{Lifecycle: lc, Provider: provider})
	require.NoError(t, err)
	defer ResetDefault()

	require.NotNil(t, out.ZapLogger)
	assert.Same(t, out.Logger, GetLogger())
	out.Logger.Info("丢弃")
	out.Logger.Warn("保留")

	lc.RequireStart()
	lc.RequireStop()

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "保留", entries[0]["message"])
}
