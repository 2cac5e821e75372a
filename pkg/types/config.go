// Package types provides configuration type definitions.
package types

// AppConfig 应用程序根配置
// 只包含JSON配置文件解析所需的结构，不包含任何内部字段
// 默认值和完整配置结构在 internal/config/*/defaults.go 和 internal/config/*/config.go 中定义
type AppConfig struct {
	// 应用程序基本信息
	AppName *string `json:"app_name,omitempty"` // 应用名称
	DataDir *string `json:"data_dir,omitempty"` // 数据目录路径

	// Environment 运行环境：dev | test | prod
	Environment *string `json:"environment,omitempty"`

	// 金库配置 - 对应配置文件中的 custody 字段
	Custody *UserCustodyConfig `json:"custody,omitempty"`

	// API服务配置
	API *UserAPIConfig `json:"api,omitempty"`

	// 存储配置
	Storage *UserStorageConfig `json:"storage,omitempty"`

	// 日志配置
	Log *UserLogConfig `json:"log,omitempty"`

	// 事件配置
	Event *UserEventConfig `json:"event,omitempty"`
}

// UserCustodyConfig 用户金库配置
// 金额字段均为十进制整数字符串（最小单位），避免 JSON 数字精度丢失
type UserCustodyConfig struct {
	CustodyAddress    *string `json:"custody_address,omitempty"`    // 金库托管账户地址
	ControllerAddress *string `json:"controller_address,omitempty"` // 控制者（特权操作）地址
	AssetAddress      *string `json:"asset_address,omitempty"`      // 托管资产地址

	AssetDecimals   *uint8 `json:"asset_decimals,omitempty"`   // 资产精度（如 6）
	ReceiptDecimals *uint8 `json:"receipt_decimals,omitempty"` // 回执代币精度（如 18）

	ReceiptName   *string `json:"receipt_name,omitempty"`   // 回执代币名称
	ReceiptSymbol *string `json:"receipt_symbol,omitempty"` // 回执代币符号

	MinDeposit  *string `json:"min_deposit,omitempty"`  // 单笔最小存入（资产单位）
	MaxDeposit  *string `json:"max_deposit,omitempty"`  // 单笔最大存入（资产单位）
	MinWithdraw *string `json:"min_withdraw,omitempty"` // 单笔最小取回（回执单位）

	Venue *UserVenueConfig `json:"venue,omitempty"` // 外部收益场所
}

// UserVenueConfig 用户场所配置
type UserVenueConfig struct {
	Kind    *string `json:"kind,omitempty"`    // pool | registry | comet
	Address *string `json:"address,omitempty"` // 场所合约地址
}

// UserAPIConfig 用户API配置
type UserAPIConfig struct {
	HTTPEnabled *bool   `json:"http_enabled,omitempty"` // 是否启用HTTP服务（默认true）
	HTTPHost    *string `json:"http_host,omitempty"`    // HTTP监听地址
	HTTPPort    *int    `json:"http_port,omitempty"`    // HTTP监听端口

	HTTPCorsEnabled *bool    `json:"http_cors_enabled,omitempty"` // 是否启用CORS
	HTTPCorsOrigins []string `json:"http_cors_origins,omitempty"` // 允许的CORS源

	EnableMetrics   *bool `json:"enable_metrics,omitempty"`    // 是否暴露 /metrics
	EnableSimRoutes *bool `json:"enable_sim_routes,omitempty"` // 是否开启模拟环境管理路由（开发模式）
}

// UserStorageConfig 用户存储配置
type UserStorageConfig struct {
	DataRoot *string `json:"data_root,omitempty"` // 数据根目录（data_root）
	InMemory *bool   `json:"in_memory,omitempty"` // 使用内存存储（数据不持久化）

	SyncWrites *bool `json:"sync_writes,omitempty"` // BadgerDB 每次写入是否 fsync（默认 true）
}

// UserLogConfig 用户日志配置
// 只包含JSON配置文件中实际出现的字段
type UserLogConfig struct {
	Level    *string `json:"level,omitempty"`     // 日志级别：debug, info, warn, error, fatal
	FilePath *string `json:"file_path,omitempty"` // 日志文件路径
}

// UserEventConfig 用户事件配置
type UserEventConfig struct {
	Enabled *bool `json:"enabled,omitempty"` // 是否启用事件系统
}

// StringPtr 返回字符串指针（构造用户配置使用）
func StringPtr(s string) *string { return &s }

// BoolPtr 返回布尔指针
func BoolPtr(b bool) *bool { return &b }

// IntPtr 返回整数指针
func IntPtr(i int) *int { return &i }

// Uint8Ptr 返回 uint8 指针
func Uint8Ptr(v uint8) *uint8 { return &v }
