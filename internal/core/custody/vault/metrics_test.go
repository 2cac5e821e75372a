package vault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/holiman/uint256"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordOp(t *testing.T) {
	success := operationsTotal.WithLabelValues("test_op", resultSuccess)
	rejected := operationsTotal.WithLabelValues("test_op", resultRejected)
	failed := operationsTotal.WithLabelValues("test_op", resultError)
	base := []float64{
		promtestutil.ToFloat64(success),
		promtestutil.ToFloat64(rejected),
		promtestutil.ToFloat64(failed),
	}

	recordOp("test_op", nil)
	recordOp("test_op", fmt.Errorf("%w: 0 < 10", ErrBelowMinDeposit))
	recordOp("test_op", ErrReentrant)
	recordOp("test_op", fmt.Errorf("%w: pull failed", ErrAssetTransfer))

	assert.Equal(t, base[0]+1, promtestutil.ToFloat64(success))
	assert.Equal(t, base[1]+2, promtestutil.ToFloat64(rejected))
	assert.Equal(t, base[2]+1, promtestutil.ToFloat64(failed))
}

func TestIsRejection(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"输入校验", ErrZeroAmount, true},
		{"包装的授权错误", fmt.Errorf("%w: caller=0x1", ErrUnauthorized), true},
		{"暂停", ErrPaused, true},
		{"场所取回阻塞", ErrVenueWithdrawBlocked, true},
		{"资产转账失败", ErrAssetTransfer, false},
		{"状态存储失败", ErrStateStore, false},
		{"未知错误", errors.New("boom"), false},
		{"空错误", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRejection(tt.err))
		})
	}
}

func TestPausedGauge(t *testing.T) {
	setPausedGauge(true)
	assert.Equal(t, float64(1), promtestutil.ToFloat64(pausedGauge))
	setPausedGauge(false)
	assert.Equal(t, float64(0), promtestutil.ToFloat64(pausedGauge))
}

func TestToFloat(t *testing.T) {
	assert.Equal(t, float64(0), toFloat(nil))
	assert.Equal(t, float64(1_000_000), toFloat(uint256.NewInt(1_000_000)))

	huge := new(uint256.Int).SetAllOne()
	assert.Greater(t, toFloat(huge), 1e77)
}
