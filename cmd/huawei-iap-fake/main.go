// Command huawei-iap-fake runs a fake Huawei OAuth and IAP backend for local
// development and for clients that cannot use package huaweitest directly.
// It prints a JSON contract describing the endpoints to stdout and serves
// until interrupted.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/BatuhanK/huawei-inapp/pkg/huawei"
	"github.com/BatuhanK/huawei-inapp/pkg/huaweitest"
)

// Config holds all command-line configuration
type Config struct {
	ListenAddr   string
	ClientID     string
	ClientSecret string
	AccessToken  string
	ExpiresIn    int64
	RejectCode   string
	Quiet        bool
}

// OutputContract is the JSON structure emitted on stdout
type OutputContract struct {
	BaseURL     string          `json:"base_url"`
	Endpoints   OutputEndpoints `json:"endpoints"`
	Credentials OutputCreds     `json:"credentials"`
	AccessToken string          `json:"access_token"`
}

type OutputEndpoints struct {
	Token        string `json:"token"`
	Order        string `json:"order"`
	Subscription string `json:"subscription"`
}

type OutputCreds struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if cfg.Quiet {
		log.SetOutput(io.Discard)
	}

	listener, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	fake := start(cfg, listener)
	defer fake.Close()

	if err := writeContract(os.Stdout, cfg, fake); err != nil {
		log.Fatalf("failed to encode JSON contract: %v", err)
	}
	log.WithField("base_url", fake.URL).Info("fake huawei backend running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.WithField("signal", sig.String()).Info("shutting down")
}

func parseFlags(args []string) (Config, error) {
	var cfg Config
	flags := pflag.NewFlagSet("huawei-iap-fake", pflag.ContinueOnError)

	flags.StringVar(&cfg.ListenAddr, "listen", "127.0.0.1:0", "listen address (default uses ephemeral port)")
	flags.StringVar(&cfg.ClientID, "client-id", huaweitest.DefaultCredentials.ClientID, "client ID accepted by the token endpoint; empty accepts any")
	flags.StringVar(&cfg.ClientSecret, "client-secret", huaweitest.DefaultCredentials.ClientSecret, "client secret accepted by the token endpoint")
	flags.StringVar(&cfg.AccessToken, "access-token", huaweitest.DefaultAccessToken, "access token to issue")
	flags.Int64Var(&cfg.ExpiresIn, "expires-in", huaweitest.DefaultExpiresIn, "lifetime of issued tokens in seconds")
	flags.StringVar(&cfg.RejectCode, "reject", "", "reject every verification with this response code")
	flags.BoolVarP(&cfg.Quiet, "quiet", "q", false, "suppress log output")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.ExpiresIn < 0 {
		return Config{}, fmt.Errorf("--expires-in must not be negative")
	}
	return cfg, nil
}

func start(
	cfg Config,
	listener net.Listener,
) *huaweitest.Server {
	fake := huaweitest.Start(huawei.Credentials{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
	}, listener)
	fake.SetToken(cfg.AccessToken, cfg.ExpiresIn)

	if cfg.RejectCode != "" {
		rejection := huaweitest.Rejection(cfg.RejectCode, "rejected by huawei-iap-fake")
		fake.SetOrderResponse(rejection)
		fake.SetSubscriptionResponse(rejection)
	}
	return fake
}

func writeContract(
	w io.Writer,
	cfg Config,
	fake *huaweitest.Server,
) error {
	endpoints := fake.Endpoints()
	contract := OutputContract{
		BaseURL: fake.URL,
		Endpoints: OutputEndpoints{
			Token:        endpoints.Token,
			Order:        endpoints.Order,
			Subscription: endpoints.Subscription,
		},
		Credentials: OutputCreds{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
		},
		AccessToken: cfg.AccessToken,
	}
	return json.NewEncoder(w).Encode(contract)
}
