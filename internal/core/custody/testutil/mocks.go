// Package testutil 提供金库相关测试的辅助工具
//
// 包含日志 Mock、内存存储构造与完整部署夹具。
package testutil

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/weisyn/custody/pkg/interfaces/infrastructure/log"
)

// ==================== Mock 对象 ====================

// MockLogger 最小实现，所有方法为空
type MockLogger struct{}

func (m *MockLogger) Debug(msg string)                          {}
func (m *MockLogger) Debugf(format string, args ...interface{}) {}
func (m *MockLogger) Info(msg string)                           {}
func (m *MockLogger) Infof(format string, args ...interface{})  {}
func (m *MockLogger) Warn(msg string)                           {}
func (m *MockLogger) Warnf(format string, args ...interface{})  {}
func (m *MockLogger) Error(msg string)                          {}
func (m *MockLogger) Errorf(format string, args ...interface{}) {}
func (m *MockLogger) With(args ...interface{}) log.Logger       { return m }
func (m *MockLogger) Sync() error                               { return nil }
func (m *MockLogger) GetZapLogger() *zap.Logger                 { return zap.NewNop() }

// RecordingLogger 记录所有日志行，用于断言告警与错误日志
type RecordingLogger struct {
	mu   sync.Mutex
	logs []string
}

func (r *RecordingLogger) record(level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, level+": "+msg)
}

func (r *RecordingLogger) Debug(msg string) { r.record("DEBUG", msg) }
func (r *RecordingLogger) Debugf(format string, args ...interface{}) {
	r.record("DEBUG", fmt.Sprintf(format, args...))
}
func (r *RecordingLogger) Info(msg string) { r.record("INFO", msg) }
func (r *RecordingLogger) Infof(format string, args ...interface{}) {
	r.record("INFO", fmt.Sprintf(format, args...))
}
func (r *RecordingLogger) Warn(msg string) { r.record("WARN", msg) }
func (r *RecordingLogger) Warnf(format string, args ...interface{}) {
	r.record("WARN", fmt.Sprintf(format, args...))
}
func (r *RecordingLogger) Error(msg string) { r.record("ERROR", msg) }
func (r *RecordingLogger) Errorf(format string, args ...interface{}) {
	r.record("ERROR", fmt.Sprintf(format, args...))
}
func (r *RecordingLogger) With(args ...interface{}) log.Logger { return r }
func (r *RecordingLogger) Sync() error                         { return nil }
func (r *RecordingLogger) GetZapLogger() *zap.Logger           { return zap.NewNop() }

// Lines 返回已记录的日志副本
func (r *RecordingLogger) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.logs))
	copy(out, r.logs)
	return out
}

// Contains 是否存在指定级别且包含 substr 的日志
func (r *RecordingLogger) Contains(level, substr string) bool {
	for _, line := range r.Lines() {
		if strings.HasPrefix(line, level+": ") && strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
