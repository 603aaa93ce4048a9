package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BatuhanK/huawei-inapp/pkg/huawei"
)

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("listen-addr", ":8080", "")
	flags.String("log-level", "info", "")
	flags.Duration("http-timeout", 10*time.Second, "")
	flags.String("unrelated", "", "")
	return flags
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New(), "", nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "huawei-iap.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 30*time.Millisecond, cfg.TokenLeeway)
	assert.Equal(t, huawei.DefaultEndpoints(), cfg.HuaweiEndpoints())
	assert.Empty(t, cfg.RedisAddr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("HUAWEI_IAP_LISTEN_ADDR", ":9090")
	t.Setenv("HUAWEI_IAP_ENDPOINTS_TOKEN", "http://localhost/token")
	t.Setenv("HUAWEI_IAP_TOKEN_LEEWAY", "1m")

	cfg, err := Load(New(), "", nil)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "http://localhost/token", cfg.Endpoints.Token)
	assert.Equal(t, time.Minute, cfg.TokenLeeway)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr: ":7070"
log_format: json
redis_addr: localhost:6379
endpoints:
  order: http://localhost/order
`), 0o600))

	cfg, err := Load(New(), path, nil)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "http://localhost/order", cfg.Endpoints.Order)

	// unset nested keys keep their defaults
	assert.Equal(t, huawei.DefaultTokenURL, cfg.Endpoints.Token)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("HUAWEI_IAP_LISTEN_ADDR", ":9090")
	t.Setenv("HUAWEI_IAP_LOG_LEVEL", "warn")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--listen-addr", ":6060"}))

	cfg, err := Load(New(), "", flags)
	require.NoError(t, err)

	// changed flag wins, unchanged flag leaves env in place
	assert.Equal(t, ":6060", cfg.ListenAddr)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		return &Config{
			LogLevel:            "info",
			LogFormat:           "text",
			HTTPTimeout:         time.Second,
			TokenLeeway:         0,
			ShutdownGracePeriod: time.Second,
			Endpoints:           Endpoints{Token: "t", Order: "o", Subscription: "s"},
		}
	}

	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }},
		{"negative leeway", func(c *Config) { c.TokenLeeway = -time.Second }},
		{"zero grace period", func(c *Config) { c.ShutdownGracePeriod = 0 }},
		{"missing endpoint", func(c *Config) { c.Endpoints.Order = "" }},
	}

	require.NoError(t, valid().Validate())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestFields_MasksSecret(t *testing.T) {
	t.Parallel()
	cfg := &Config{ClientID: "100", ClientSecret: "hunter2"}

	fields := cfg.Fields()
	assert.Equal(t, "100", fields[KeyClientID])
	assert.NotEqual(t, "hunter2", fields[KeyClientSecret])
}
