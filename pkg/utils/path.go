package utils

import (
	"os"
	"path/filepath"
)

// DataRootEnv 覆盖相对数据路径的解析基准目录
const DataRootEnv = "CUSTODY_DATA_ROOT"

// ResolveDataPath 将相对数据路径解析为绝对路径
//
// 基准目录依次取：CUSTODY_DATA_ROOT、向上查找到的 go.mod 所在目录、当前工作目录。
func ResolveDataPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dataRoot(), path)
}

func dataRoot() string {
	if root := os.Getenv(DataRootEnv); root != "" {
		return root
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	for dir := wd; ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return wd
		}
		dir = parent
	}
}
