package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/BatuhanK/huawei-inapp/internal/config"
	"github.com/BatuhanK/huawei-inapp/internal/database"
	"github.com/BatuhanK/huawei-inapp/internal/logging"
	"github.com/BatuhanK/huawei-inapp/internal/service"
	"github.com/BatuhanK/huawei-inapp/internal/tokenstore"
	"github.com/BatuhanK/huawei-inapp/pkg/huawei"
)

// cli holds state shared by all commands once flags are parsed.
type cli struct {
	v            *viper.Viper
	configFile   string
	cfg          *config.Config
	log          *logrus.Logger
	passwordMode service.PasswordMode
}

func newCLI() *cli {
	return &cli{
		v:            config.New(),
		log:          logrus.New(),
		passwordMode: service.PasswordModeProduction,
	}
}

func newRootCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "huawei-iap",
		Short:         "Verify Huawei in-app purchases",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "path to a YAML config file")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text or json)")
	flags.String("db-path", "huawei-iap.db", "path to the SQLite app database")
	flags.Duration("http-timeout", 10*time.Second, "timeout for requests to Huawei")
	flags.Duration("token-leeway", huawei.DefaultExpiryLeeway, "refresh access tokens this long before they expire")
	flags.String("redis-addr", "", "share access tokens through this Redis server")
	flags.String("token-url", huawei.DefaultTokenURL, "Huawei OAuth token endpoint")
	flags.String("order-url", huawei.DefaultOrderURL, "Huawei order verification endpoint")
	flags.String("subscription-url", huawei.DefaultSubscriptionURL, "Huawei subscription endpoint")
	flags.String("client-id", "", "Huawei client ID for one-off verification")
	flags.String("client-secret", "", "Huawei client secret for one-off verification")

	cmd.AddCommand(
		newServeCmd(c),
		newVerifyCmd(c),
		newAppsCmd(c),
	)
	return cmd
}

func (c *cli) init(cmd *cobra.Command) error {
	cfg, err := config.Load(c.v, c.configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := logging.Configure(c.log, cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}

	c.cfg = cfg
	c.log.WithFields(cfg.Fields()).Debug("loaded config")
	return nil
}

// huaweiOptions builds client options from config. The returned func
// releases the Redis connection, if one was opened.
func (c *cli) huaweiOptions(ctx context.Context) ([]huawei.Option, func(), error) {
	opts := []huawei.Option{
		huawei.WithEndpoints(c.cfg.HuaweiEndpoints()),
		huawei.WithHTTPClient(&http.Client{Timeout: c.cfg.HTTPTimeout}),
		huawei.WithLogger(c.log),
		huawei.WithExpiryLeeway(c.cfg.TokenLeeway),
	}

	if c.cfg.RedisAddr == "" {
		return opts, func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: c.cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", c.cfg.RedisAddr, err)
	}
	c.log.WithField("redis_addr", c.cfg.RedisAddr).Info("sharing access tokens through redis")

	opts = append(opts, huawei.WithTokenStore(tokenstore.NewRedis(rdb)))
	return opts, func() { _ = rdb.Close() }, nil
}

func (c *cli) openStore() (*database.SQLiteStore, error) {
	store, err := database.NewSQLiteStore(c.cfg.DBPath)
	if err != nil {
		return nil, err
	}
	c.log.WithField("db_path", c.cfg.DBPath).Debug("opened app database")
	return store, nil
}

// newService wires the app store and a client registry into a service.
// The returned func closes everything it opened.
func (c *cli) newService(ctx context.Context) (*service.Service, func(), error) {
	store, err := c.openStore()
	if err != nil {
		return nil, nil, err
	}

	opts, closeRedis, err := c.huaweiOptions(ctx)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	svc := service.New(store.AppStore(), huawei.NewRegistry(opts...), c.passwordMode, c.log)
	return svc, func() {
		closeRedis()
		_ = store.Close()
	}, nil
}
