package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BatuhanK/huawei-inapp/pkg/huawei"
)

func TestParseFlags_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:0", cfg.ListenAddr)
	assert.NotEmpty(t, cfg.ClientID)
	assert.False(t, cfg.Quiet)
}

func TestParseFlags_Invalid(t *testing.T) {
	t.Parallel()

	_, err := parseFlags([]string{"--expires-in", "-1"})
	assert.Error(t, err)

	_, err = parseFlags([]string{"--unknown"})
	assert.Error(t, err)
}

func startFake(
	t *testing.T,
	args ...string,
) (
	Config,
	OutputContract,
) {
	t.Helper()
	cfg, err := parseFlags(args)
	require.NoError(t, err)

	listener, err := net.Listen("tcp", cfg.ListenAddr)
	require.NoError(t, err)
	fake := start(cfg, listener)
	t.Cleanup(fake.Close)

	buf := &bytes.Buffer{}
	require.NoError(t, writeContract(buf, cfg, fake))

	var contract OutputContract
	require.NoError(t, json.Unmarshal(buf.Bytes(), &contract))
	return cfg, contract
}

func TestContract_DrivesClient(t *testing.T) {
	t.Parallel()
	_, contract := startFake(t, "--access-token", "T9")

	// the contract is enough to configure a client
	client := huawei.New(
		huawei.Credentials{
			ClientID:     contract.Credentials.ClientID,
			ClientSecret: contract.Credentials.ClientSecret,
		},
		huawei.WithEndpoints(huawei.Endpoints{
			Token:        contract.Endpoints.Token,
			Order:        contract.Endpoints.Order,
			Subscription: contract.Endpoints.Subscription,
		}),
	)

	result, err := client.GetOrder(context.Background(), huawei.OrderRequest{ProductID: "p1", PurchaseToken: "tok"})
	require.NoError(t, err)
	assert.Contains(t, result.Data, "purchaseState")
	assert.Equal(t, "T9", contract.AccessToken)
}

func TestReject(t *testing.T) {
	t.Parallel()
	cfg, contract := startFake(t, "--reject", "6")

	client := huawei.New(
		huawei.Credentials{ClientID: cfg.ClientID, ClientSecret: cfg.ClientSecret},
		huawei.WithEndpoints(huawei.Endpoints{
			Token:        contract.Endpoints.Token,
			Order:        contract.Endpoints.Order,
			Subscription: contract.Endpoints.Subscription,
		}),
	)

	_, err := client.GetSubscription(context.Background(), huawei.SubscriptionRequest{SubscriptionID: "s1", PurchaseToken: "tok"})
	var rejected *huawei.VerificationError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "6", rejected.Code)
}
