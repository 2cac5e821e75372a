package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/weisyn/custody/internal/config/custody"
	pkgconfig "github.com/weisyn/custody/pkg/interfaces/config"
)

// ValidationError 配置验证错误
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("配置验证失败 [%s]: %s", e.Field, e.Message)
}

// ValidateMandatoryConfig 验证启动必需的配置项
//
// 📋 **必填配置项**：
// - custody.custody_address / controller_address / asset_address: 非零地址
// - custody.venue.address: 非零地址
// - custody.asset_decimals <= custody.receipt_decimals
// - 存取边界可解析，且 min_deposit <= max_deposit
// - api.http.port: 启用HTTP时必须有效
//
// 参数：
//   - provider: 配置提供者
//
// 返回：
//   - error: 全部验证错误（errors.Join）
func ValidateMandatoryConfig(provider pkgconfig.Provider) error {
	var errs []error

	// 1. 金库配置
	if err := custody.NewFromOptions(provider.GetCustody()).Validate(); err != nil {
		errs = append(errs, &ValidationError{
			Field:   "custody",
			Message: strings.TrimPrefix(err.Error(), custody.ErrInvalidConfig.Error()+": "),
		})
	}

	// 2. API配置
	apiOpts := provider.GetAPI()
	if apiOpts.HTTP.Enabled && (apiOpts.HTTP.Port <= 0 || apiOpts.HTTP.Port > 65535) {
		errs = append(errs, &ValidationError{
			Field:   "api.http_port",
			Message: fmt.Sprintf("端口 %d 无效", apiOpts.HTTP.Port),
		})
	}

	// 3. 存储配置
	if !provider.UseInMemoryStorage() && provider.GetBadger().Path == "" {
		errs = append(errs, &ValidationError{
			Field:   "storage.data_root",
			Message: "未使用内存存储时必须配置数据目录",
		})
	}

	return errors.Join(errs...)
}
