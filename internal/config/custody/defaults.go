package custody

// 金库配置默认值
const (
	// defaultAssetDecimals 默认资产精度
	// 稳定资产（USDC/USDT 等）通常为 6 位小数
	defaultAssetDecimals uint8 = 6

	// defaultReceiptDecimals 默认回执代币精度
	defaultReceiptDecimals uint8 = 18

	defaultReceiptName   = "Custody Receipt USD"
	defaultReceiptSymbol = "crUSD"

	// 存取边界为空字符串表示"无限制"
	defaultMinDeposit  = ""
	defaultMaxDeposit  = ""
	defaultMinWithdraw = ""

	// defaultVenueKind 默认场所形态
	defaultVenueKind = VenueKindPool
)

// 场所形态
const (
	VenueKindPool     = "pool"     // 以资产地址为键的全局池
	VenueKindRegistry = "registry" // 编号储备登记表
	VenueKindComet    = "comet"    // 单资产 comet 市场
)

// 开发环境默认地址（serve/simulate 未配置时使用）
const (
	defaultCustodyAddress    = "0x00000000000000000000000000000000000c0de1"
	defaultControllerAddress = "0x00000000000000000000000000000000000c0de2"
	defaultAssetAddress      = "0x00000000000000000000000000000000000a55e7"
	defaultVenueAddress      = "0x0000000000000000000000000000000000000e7e"
)
