package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/BatuhanK/huawei-inapp/internal/config"
	"github.com/BatuhanK/huawei-inapp/internal/service"
	"github.com/BatuhanK/huawei-inapp/pkg/huaweitest"
)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func runCLI(
	t *testing.T,
	args ...string,
) cliResult {
	t.Helper()
	c := newCLI()
	c.passwordMode = service.PasswordModeTesting

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := newRootCmd(c)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func endpointArgs(fake *huaweitest.Server) []string {
	endpoints := fake.Endpoints()
	return []string{
		"--token-url", endpoints.Token,
		"--order-url", endpoints.Order,
		"--subscription-url", endpoints.Subscription,
	}
}

func TestApps_AddListRemove(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "apps.db")

	res := runCLI(t, "apps", "add", "game", "--db-path", dbPath,
		"--client-id", "100", "--client-secret", "secret", "--api-key", "key-1")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "registered app 'game'")

	// duplicate names are refused
	res = runCLI(t, "apps", "add", "game", "--db-path", dbPath,
		"--client-id", "100", "--client-secret", "secret", "--api-key", "key-1")
	assert.ErrorIs(t, res.err, service.ErrAppExists)

	res = runCLI(t, "apps", "list", "--db-path", dbPath)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "game")
	assert.Contains(t, res.stdout, "100")
	assert.NotContains(t, res.stdout, "secret")

	res = runCLI(t, "apps", "remove", "game", "--db-path", dbPath)
	require.NoError(t, res.err)

	res = runCLI(t, "apps", "remove", "game", "--db-path", dbPath)
	assert.ErrorIs(t, res.err, service.ErrAppNotFound)
}

func TestApps_AddRequiresFlags(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "apps.db")

	res := runCLI(t, "apps", "add", "game", "--db-path", dbPath, "--client-id", "100")
	assert.Error(t, res.err)
}

func TestApps_HashKey(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "apps", "hash-key", "key-1")
	require.NoError(t, res.err)

	hash := strings.TrimSpace(res.stdout)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("key-1")))
}

func TestVerifyOrder(t *testing.T) {
	t.Parallel()
	fake := huaweitest.NewServer(t, huaweitest.DefaultCredentials)
	fake.SetOrderResponse(map[string]any{"purchaseTokenData": `{"x":1}`})

	args := append([]string{"verify", "order",
		"--product-id", "p1",
		"--purchase-token", "tok",
		"--client-id", huaweitest.DefaultCredentials.ClientID,
		"--client-secret", huaweitest.DefaultCredentials.ClientSecret,
	}, endpointArgs(fake)...)
	res := runCLI(t, args...)
	require.NoError(t, res.err)

	var output struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &output))
	assert.Equal(t, map[string]any{"x": float64(1)}, output.Data)
	assert.Equal(t, "p1", fake.LastOrder().ProductID)
}

func TestVerifySubscription_Rejected(t *testing.T) {
	t.Parallel()
	fake := huaweitest.NewServer(t, huaweitest.DefaultCredentials)
	fake.SetSubscriptionResponse(huaweitest.Rejection("6", "invalid token"))

	args := append([]string{"verify", "subscription",
		"--subscription-id", "s1",
		"--purchase-token", "tok",
		"--client-id", huaweitest.DefaultCredentials.ClientID,
		"--client-secret", huaweitest.DefaultCredentials.ClientSecret,
	}, endpointArgs(fake)...)
	res := runCLI(t, args...)

	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "code=6")
	assert.Contains(t, res.stderr, "message=invalid token")
	assert.Empty(t, res.stdout)
}

func TestVerify_RequiresCredentials(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "verify", "order", "--product-id", "p1", "--purchase-token", "tok")
	assert.ErrorContains(t, res.err, "client id and client secret are required")
}

func TestInvalidConfig(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "apps", "list", "--log-format", "xml")
	assert.ErrorContains(t, res.err, "invalid config")
}

func TestServe(t *testing.T) {
	t.Parallel()
	fake := huaweitest.NewServer(t, huaweitest.DefaultCredentials)
	dbPath := filepath.Join(t.TempDir(), "apps.db")
	creds := huaweitest.DefaultCredentials

	res := runCLI(t, "apps", "add", "game", "--db-path", dbPath,
		"--client-id", creds.ClientID, "--client-secret", creds.ClientSecret, "--api-key", "key-1")
	require.NoError(t, res.err)

	cfg, err := config.Load(config.New(), "", nil)
	require.NoError(t, err)
	cfg.DBPath = dbPath
	cfg.Endpoints = config.Endpoints(fake.Endpoints())

	c := newCLI()
	c.cfg = cfg
	c.log.SetOutput(&bytes.Buffer{})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	baseURL := "http://" + listener.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.serve(ctx, listener) }()

	require.Eventually(t, func() bool {
		res, err := http.Get(baseURL + "/healthz")
		if err != nil {
			return false
		}
		res.Body.Close()
		return res.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/orders/verify",
		strings.NewReader(`{"productId":"p1","purchaseToken":"tok"}`))
	require.NoError(t, err)
	req.SetBasicAuth("game", "key-1")
	req.Header.Set("Content-Type", "application/json")

	verifyRes, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	verifyRes.Body.Close()
	assert.Equal(t, http.StatusOK, verifyRes.StatusCode)
	assert.Equal(t, 1, fake.TokenRequests())

	// cancelling shuts the gateway down cleanly
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
