// Package config loads gateway and CLI settings from flags, environment
// (HUAWEI_IAP_*) and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/BatuhanK/huawei-inapp/pkg/huawei"
)

const EnvPrefix = "HUAWEI_IAP"

const (
	KeyListenAddr          = "listen_addr"
	KeyDBPath              = "db_path"
	KeyAppsDir             = "apps_dir"
	KeyLogLevel            = "log_level"
	KeyLogFormat           = "log_format"
	KeyHTTPTimeout         = "http_timeout"
	KeyTokenLeeway         = "token_leeway"
	KeyRedisAddr           = "redis_addr"
	KeyTokenURL            = "endpoints.token"
	KeyOrderURL            = "endpoints.order"
	KeySubscriptionURL     = "endpoints.subscription"
	KeyClientID            = "client_id"
	KeyClientSecret        = "client_secret"
	KeyShutdownGracePeriod = "shutdown_grace_period"
)

type Endpoints struct {
	Token        string `mapstructure:"token"`
	Order        string `mapstructure:"order"`
	Subscription string `mapstructure:"subscription"`
}

type Config struct {
	ListenAddr          string        `mapstructure:"listen_addr"`
	DBPath              string        `mapstructure:"db_path"`
	AppsDir             string        `mapstructure:"apps_dir"`
	LogLevel            string        `mapstructure:"log_level"`
	LogFormat           string        `mapstructure:"log_format"`
	HTTPTimeout         time.Duration `mapstructure:"http_timeout"`
	TokenLeeway         time.Duration `mapstructure:"token_leeway"`
	RedisAddr           string        `mapstructure:"redis_addr"`
	Endpoints           Endpoints     `mapstructure:"endpoints"`
	ClientID            string        `mapstructure:"client_id"`
	ClientSecret        string        `mapstructure:"client_secret"`
	ShutdownGracePeriod time.Duration `mapstructure:"shutdown_grace_period"`
}

// SetDefaults registers the default for every key on v.
func SetDefaults(v *viper.Viper) {
	defaults := huawei.DefaultEndpoints()
	v.SetDefault(KeyListenAddr, ":8080")
	v.SetDefault(KeyDBPath, "huawei-iap.db")
	v.SetDefault(KeyAppsDir, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyHTTPTimeout, 10*time.Second)
	v.SetDefault(KeyTokenLeeway, huawei.DefaultExpiryLeeway)
	v.SetDefault(KeyRedisAddr, "")
	v.SetDefault(KeyTokenURL, defaults.Token)
	v.SetDefault(KeyOrderURL, defaults.Order)
	v.SetDefault(KeySubscriptionURL, defaults.Subscription)
	v.SetDefault(KeyClientID, "")
	v.SetDefault(KeyClientSecret, "")
	v.SetDefault(KeyShutdownGracePeriod, 10*time.Second)
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configFile (if set), binds flags and decodes the result.
// Flags that were not changed on the command line do not override
// environment or file values.
func Load(
	v *viper.Viper,
	configFile string,
	flags *pflag.FlagSet,
) (
	*Config,
	error,
) {
	if configFile != "" {
		logrus.Infof("Loading config from %s", configFile)
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// flagKeys maps command line flag names to config keys.
var flagKeys = map[string]string{
	"listen-addr":      KeyListenAddr,
	"db-path":          KeyDBPath,
	"apps-dir":         KeyAppsDir,
	"log-level":        KeyLogLevel,
	"log-format":       KeyLogFormat,
	"http-timeout":     KeyHTTPTimeout,
	"token-leeway":     KeyTokenLeeway,
	"redis-addr":       KeyRedisAddr,
	"token-url":        KeyTokenURL,
	"order-url":        KeyOrderURL,
	"subscription-url": KeySubscriptionURL,
	"client-id":        KeyClientID,
	"client-secret":    KeyClientSecret,
}

func bindFlags(
	v *viper.Viper,
	flags *pflag.FlagSet,
) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		if bindErr := v.BindPFlag(key, f); bindErr != nil {
			err = fmt.Errorf("failed to bind flag '%s': %w", f.Name, bindErr)
		}
	})
	return err
}

func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid %s: %w", KeyLogLevel, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid %s '%s': must be text or json", KeyLogFormat, c.LogFormat)
	}
	if c.HTTPTimeout <= 0 {
		return errors.New(KeyHTTPTimeout + " must be positive")
	}
	if c.TokenLeeway < 0 {
		return errors.New(KeyTokenLeeway + " must not be negative")
	}
	if c.ShutdownGracePeriod <= 0 {
		return errors.New(KeyShutdownGracePeriod + " must be positive")
	}
	if c.Endpoints.Token == "" || c.Endpoints.Order == "" || c.Endpoints.Subscription == "" {
		return errors.New("all endpoints must be set")
	}
	return nil
}

func (c *Config) HuaweiEndpoints() huawei.Endpoints {
	return huawei.Endpoints{
		Token:        c.Endpoints.Token,
		Order:        c.Endpoints.Order,
		Subscription: c.Endpoints.Subscription,
	}
}

func (c *Config) Credentials() huawei.Credentials {
	return huawei.Credentials{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
	}
}

// Fields returns the config as log fields with secrets masked.
func (c *Config) Fields() logrus.Fields {
	secret := ""
	if c.ClientSecret != "" {
		secret = "********"
	}
	return logrus.Fields{
		KeyListenAddr:          c.ListenAddr,
		KeyDBPath:              c.DBPath,
		KeyAppsDir:             c.AppsDir,
		KeyLogLevel:            c.LogLevel,
		KeyLogFormat:           c.LogFormat,
		KeyHTTPTimeout:         c.HTTPTimeout,
		KeyTokenLeeway:         c.TokenLeeway,
		KeyRedisAddr:           c.RedisAddr,
		KeyTokenURL:            c.Endpoints.Token,
		KeyOrderURL:            c.Endpoints.Order,
		KeySubscriptionURL:     c.Endpoints.Subscription,
		KeyClientID:            c.ClientID,
		KeyClientSecret:        secret,
		KeyShutdownGracePeriod: c.ShutdownGracePeriod,
	}
}
