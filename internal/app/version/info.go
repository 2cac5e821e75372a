// Package version 构建版本信息，通过 ldflags 注入
package version

import (
	"fmt"
	"runtime"
	"time"
)

// 构建时注入的变量
var (
	Version   = "v0.1.0"
	Commit    = "unknown"
	BuildTime = "unknown"     // RFC3339
	BuildEnv  = "development" // development, testing, production
)

// BuildInfo 构建信息
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	BuildEnv  string `json:"build_env"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetBuildInfo 获取完整构建信息
func GetBuildInfo() *BuildInfo {
	return &BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		BuildEnv:  BuildEnv,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// GetFullVersion 多行版本描述，供 version 子命令输出
func GetFullVersion() string {
	info := GetBuildInfo()
	s := fmt.Sprintf("custody 金库服务 %s (%s)", info.Version, info.Commit)
	if info.BuildTime != "unknown" {
		if t, err := time.Parse(time.RFC3339, info.BuildTime); err == nil {
			s += "\n构建时间: " + t.Format("2006-01-02 15:04:05 MST")
		} else {
			s += "\n构建时间: " + info.BuildTime
		}
	}
	s += "\n构建环境: " + info.BuildEnv
	s += "\nGo版本: " + info.GoVersion
	s += "\n平台: " + info.Platform
	return s
}

// IsProductionBuild 是否生产构建
func IsProductionBuild() bool { return BuildEnv == "production" }
