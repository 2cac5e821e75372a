// Package app 组装金库服务进程
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/fx"

	config "github.com/weisyn/custody/internal/config"
	custodyif "github.com/weisyn/custody/pkg/interfaces/custody"
	"github.com/weisyn/custody/pkg/interfaces/infrastructure/log"
)

// stopTimeout 停止超时，留出 BadgerDB 同步与关闭的时间
const stopTimeout = 30 * time.Second

// App 是金库服务的对外接口
type App interface {
	// Vault 金库实例
	Vault() custodyif.Vault

	// Stop 停止应用
	Stop(ctx context.Context) error

	// Wait 阻塞直到收到退出信号，然后停止应用
	Wait() error
}

type internalApp struct {
	fxApp  *fx.App
	vault  custodyif.Vault
	logger log.Logger
}

// Start 加载配置、组装模块并启动应用
func Start(appOptions ...Option) (App, error) {
	opts := newOptions(appOptions...)
	if opts.appConfig == nil && opts.configFilePath != "" {
		appConfig, err := config.LoadAppConfig(opts.configFilePath)
		if err != nil {
			return nil, err
		}
		opts.appConfig = appConfig
	}

	a := &internalApp{}
	fxOptions := append(NewBootstrap(opts).Options(),
		fx.Populate(&a.vault, &a.logger),
		fx.NopLogger,
	)
	a.fxApp = fx.New(fxOptions...)
	if err := a.fxApp.Err(); err != nil {
		return nil, fmt.Errorf("组装应用失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.fxApp.StartTimeout())
	defer cancel()
	if err := a.fxApp.Start(ctx); err != nil {
		return nil, fmt.Errorf("启动应用失败: %w", err)
	}
	a.logger.Info("金库服务已启动")
	return a, nil
}

func (a *internalApp) Vault() custodyif.Vault { return a.vault }

// Stop 停止应用（包括所有生命周期钩子）
func (a *internalApp) Stop(ctx context.Context) error {
	a.logger.Info("正在停止金库服务...")
	return a.fxApp.Stop(ctx)
}

// Wait 等待应用收到退出信号
func (a *internalApp) Wait() error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	sig := <-signals
	a.logger.Infof("收到信号 %v，正在优雅退出", sig)

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return a.Stop(ctx)
}
