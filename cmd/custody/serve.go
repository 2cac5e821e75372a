package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/custody/internal/app"
	"github.com/weisyn/custody/pkg/types"
)

var serveFlags struct {
	configPath string
	inMemory   bool
	port       int
	dev        bool
}

// serveCmd 启动金库服务
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动金库服务",
	Long: `按配置文件组装金库并启动 HTTP API，收到 SIGINT/SIGTERM 后优雅退出。

未指定 --config 时必须使用 --in-memory，此时状态不落盘。
--dev 开启 /v1/sim 路由：控制者可为存款人发放模拟资产、调整模拟场所。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []app.Option
		switch {
		case serveFlags.configPath != "":
			opts = append(opts, app.WithConfigFile(serveFlags.configPath))
		case serveFlags.inMemory:
			opts = append(opts, app.WithAppConfig(&types.AppConfig{
				Storage: &types.UserStorageConfig{InMemory: types.BoolPtr(true)},
			}))
		default:
			return fmt.Errorf("需要 --config 或 --in-memory")
		}

		if serveFlags.port > 0 {
			opts = append(opts, app.WithHTTPPort(serveFlags.port))
		}
		if serveFlags.dev {
			opts = append(opts, app.WithSimRoutes())
		}

		a, err := app.Start(opts...)
		if err != nil {
			return err
		}
		pterm.Success.Println("金库服务已启动，按 Ctrl+C 退出")
		return a.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.configPath, "config", "c", "", "配置文件路径 (JSON)")
	serveCmd.Flags().BoolVar(&serveFlags.inMemory, "in-memory", false, "使用默认配置与内存存储")
	serveCmd.Flags().IntVarP(&serveFlags.port, "port", "p", 0, "覆盖配置中的HTTP端口")
	serveCmd.Flags().BoolVar(&serveFlags.dev, "dev", false, "开启模拟环境管理路由 /v1/sim")
}
