package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/custody/pkg/types"
)

// TestGetEnvironment 测试 GetEnvironment() 方法
func TestGetEnvironment(t *testing.T) {
	tests := []struct {
		name     string
		env      *string
		expected string
	}{
		{"显式配置 dev", types.StringPtr("dev"), "dev"},
		{"显式配置 test", types.StringPtr("test"), "test"},
		{"大小写不敏感", types.StringPtr(" PROD "), "prod"},
		{"未配置时默认为 prod（安全优先）", nil, "prod"},
		{"无效值默认为 prod", types.StringPtr("invalid"), "prod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := NewProvider(&types.AppConfig{Environment: tt.env}).(*Provider)
			assert.Equal(t, tt.expected, provider.GetEnvironment())
		})
	}
}

// TestProviderDefaults 测试无用户配置时的默认值
func TestProviderDefaults(t *testing.T) {
	provider := NewProvider(nil)

	custodyOpts := provider.GetCustody()
	require.NotNil(t, custodyOpts)
	assert.Equal(t, uint8(6), custodyOpts.AssetDecimals)
	assert.Equal(t, uint8(18), custodyOpts.ReceiptDecimals)

	assert.True(t, provider.GetAPI().HTTP.Enabled)
	assert.True(t, provider.GetEvent().Enabled)
	assert.False(t, provider.UseInMemoryStorage())
	assert.NotEmpty(t, provider.GetBadger().Path)
	assert.Nil(t, provider.GetAppConfig())

	assert.NoError(t, ValidateMandatoryConfig(provider))
}

// TestProviderUserOverrides 测试用户配置覆盖
func TestProviderUserOverrides(t *testing.T) {
	dataDir := t.TempDir()
	provider := NewProvider(&types.AppConfig{
		DataDir: types.StringPtr(dataDir),
		Custody: &types.UserCustodyConfig{
			MinWithdraw: types.StringPtr("1000"),
			Venue:       &types.UserVenueConfig{Kind: types.StringPtr("registry")},
		},
		API: &types.UserAPIConfig{
			HTTPPort:        types.IntPtr(9191),
			EnableMetrics:   types.BoolPtr(false),
			EnableSimRoutes: types.BoolPtr(true),
		},
		Storage: &types.UserStorageConfig{InMemory: types.BoolPtr(true)},
		Event:   &types.UserEventConfig{Enabled: types.BoolPtr(false)},
	})

	assert.Equal(t, "registry", provider.GetCustody().VenueKind)
	assert.Equal(t, "1000", provider.GetCustody().MinWithdraw)
	assert.Equal(t, 9191, provider.GetAPI().HTTP.Port)
	assert.False(t, provider.GetAPI().EnableMetrics)
	assert.True(t, provider.GetAPI().EnableSimRoutes)
	assert.True(t, provider.UseInMemoryStorage())
	assert.False(t, provider.GetEvent().Enabled)

	// 日志与存储路径由数据目录推导
	assert.Equal(t, filepath.Join(dataDir, "logs", "custody.log"), provider.GetLog().FilePath)
	assert.Equal(t, filepath.Join(dataDir, "storage", "badger"), provider.GetBadger().Path)
}

// TestValidateMandatoryConfig 测试必需配置校验
func TestValidateMandatoryConfig(t *testing.T) {
	t.Run("零地址控制者", func(t *testing.T) {
		provider := NewProvider(&types.AppConfig{
			Custody: &types.UserCustodyConfig{
				ControllerAddress: types.StringPtr("0x0000000000000000000000000000000000000000"),
			},
		})
		err := ValidateMandatoryConfig(provider)
		require.Error(t, err)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "custody", vErr.Field)
	})

	t.Run("无效端口", func(t *testing.T) {
		provider := NewProvider(&types.AppConfig{
			API: &types.UserAPIConfig{HTTPPort: types.IntPtr(70000)},
		})
		err := ValidateMandatoryConfig(provider)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api.http_port")
	})
}

// TestLoadAppConfig 测试JSON配置文件加载
func TestLoadAppConfig(t *testing.T) {
	t.Run("加载有效配置", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custody.json")
		content := `{
			"app_name": "custody-dev",
			"environment": "dev",
			"custody": {
				"asset_decimals": 6,
				"receipt_decimals": 18,
				"max_deposit": "1000000000000",
				"venue": {"kind": "comet"}
			},
			"storage": {"in_memory": true}
		}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		appConfig, err := LoadAppConfig(path)
		require.NoError(t, err)
		require.NotNil(t, appConfig.Custody)
		assert.Equal(t, "custody-dev", *appConfig.AppName)
		assert.Equal(t, "1000000000000", *appConfig.Custody.MaxDeposit)
		assert.Equal(t, "comet", *appConfig.Custody.Venue.Kind)
		assert.Nil(t, appConfig.Custody.MinDeposit)

		provider := NewProvider(appConfig)
		assert.NoError(t, ValidateMandatoryConfig(provider))
	})

	t.Run("示例配置可通过校验", func(t *testing.T) {
		appConfig, err := LoadAppConfig(filepath.Join("..", "..", "configs", "custody.example.json"))
		require.NoError(t, err)
		provider := NewProvider(appConfig)
		require.NoError(t, ValidateMandatoryConfig(provider))
		assert.Equal(t, "comet", provider.GetCustody().VenueKind)
		assert.False(t, provider.UseInMemoryStorage())
	})

	t.Run("文件不存在", func(t *testing.T) {
		_, err := LoadAppConfig(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("JSON格式错误", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
		_, err := LoadAppConfig(path)
		assert.Error(t, err)
	})
}

type appOptions struct{ cfg *types.AppConfig }

func (o appOptions) GetAppConfig() *types.AppConfig { return o.cfg }

// TestProvideConfigServices 测试模块入口的配置校验
func TestProvideConfigServices(t *testing.T) {
	out, err := ProvideConfigServices(ConfigParams{})
	require.NoError(t, err)
	assert.Equal(t, "pool", out.Provider.GetCustody().VenueKind)

	_, err = ProvideConfigServices(ConfigParams{AppOptions: appOptions{&types.AppConfig{
		Custody: &types.UserCustodyConfig{AssetDecimals: types.Uint8Ptr(18), ReceiptDecimals: types.Uint8Ptr(6)},
	}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "custody")
}
