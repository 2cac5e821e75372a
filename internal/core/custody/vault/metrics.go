package vault

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
)

// ============================================================================
//                          Prometheus 监控指标
// ============================================================================

var (
	// operationsTotal 金库操作次数（按操作与结果分类）
	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "custody",
			Subsystem: "vault",
			Name:      "operations_total",
			Help:      "Total number of vault operations by kind and result",
		},
		[]string{"op", "result"}, // op: deposit/withdraw/skim/drain/pause/unpause
	)

	// fallbacksTotal 存入回退到本地托管的次数
	fallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "custody",
			Subsystem: "vault",
			Name:      "venue_fallbacks_total",
			Help:      "Total number of deposits retained in local custody by reason",
		},
		[]string{"reason"}, // paused, frozen, call_failed
	)

	// partialFillsTotal 场所部分成交次数
	partialFillsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "custody",
		Subsystem: "vault",
		Name:      "venue_partial_fills_total",
		Help:      "Total number of venue deposits that accepted less than requested",
	})

	// withdrawShortfallTotal 实付少于应付的取回次数
	withdrawShortfallTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "custody",
		Subsystem: "vault",
		Name:      "withdraw_shortfall_total",
		Help:      "Total number of withdrawals that paid less than owed",
	})

	// conservationMismatchTotal 存入前后托管总额不守恒的次数
	conservationMismatchTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "custody",
		Subsystem: "vault",
		Name:      "conservation_mismatch_total",
		Help:      "Total number of deposits whose custody delta differed from the deposited amount",
	})

	// custodiedBalance 托管余额（资产最小单位）
	custodiedBalance = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "custody",
			Subsystem: "vault",
			Name:      "custodied_balance",
			Help:      "Custodied asset balance in base units by location",
		},
		[]string{"location"}, // local, venue
	)

	// receiptSupply 回执代币发行总量
	receiptSupply = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "custody",
		Subsystem: "vault",
		Name:      "receipt_supply",
		Help:      "Outstanding receipt token supply in base units",
	})

	// pausedGauge 暂停状态（1 暂停）
	pausedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "custody",
		Subsystem: "vault",
		Name:      "paused",
		Help:      "Whether user deposits and withdrawals are paused",
	})
)

func init() {
	prometheus.MustRegister(
		operationsTotal,
		fallbacksTotal,
		partialFillsTotal,
		withdrawShortfallTotal,
		conservationMismatchTotal,
		custodiedBalance,
		receiptSupply,
		pausedGauge,
	)
}

// 操作结果标签
const (
	resultSuccess  = "success"
	resultRejected = "rejected"
	resultError    = "error"
)

func recordOp(op string, err error) {
	switch {
	case err == nil:
		operationsTotal.WithLabelValues(op, resultSuccess).Inc()
	case IsRejection(err):
		operationsTotal.WithLabelValues(op, resultRejected).Inc()
	default:
		operationsTotal.WithLabelValues(op, resultError).Inc()
	}
}

func setPausedGauge(paused bool) {
	if paused {
		pausedGauge.Set(1)
		return
	}
	pausedGauge.Set(0)
}

// toFloat 指标用近似值
func toFloat(x *uint256.Int) float64 {
	if x == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(x.ToBig()).Float64()
	return f
}
