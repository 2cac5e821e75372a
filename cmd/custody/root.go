package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	Endpoint string // 金库服务地址（status 使用）
	Verbose  bool   // 详细输出
}

var globalFlags GlobalFlags

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "custody",
	Short: "托管金库服务",
	Long: `custody - 单场所收益托管金库

用户存入资产后按固定比例获得回执代币，资产优先转存到外部收益场所，
场所不可用时回退到本地托管。

常用命令:
  custody serve --config custody.json   # 启动金库服务
  custody simulate --venue comet        # 在内存部署上演练参考场景
  custody status                        # 查询运行中服务的金库状态`,
	SilenceUsage: true,
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.Endpoint, "endpoint", "http://127.0.0.1:8080", "金库服务地址")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "详细输出")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}
