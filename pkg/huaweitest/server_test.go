package huaweitest

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BatuhanK/huawei-inapp/pkg/huawei"
)

func requestToken(
	t *testing.T,
	s *Server,
	clientID string,
	secret string,
) *http.Response {
	t.Helper()
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", clientID)
	form.Set("client_secret", secret)
	res, err := http.PostForm(s.URL+TokenPath, form)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func TestServer_IssuesToken(t *testing.T) {
	t.Parallel()
	s := NewServer(t, DefaultCredentials)

	res := requestToken(t, s, DefaultCredentials.ClientID, DefaultCredentials.ClientSecret)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, DefaultAccessToken, body.AccessToken)
	assert.Equal(t, int64(DefaultExpiresIn), body.ExpiresIn)
	assert.Equal(t, 1, s.TokenRequests())
}

func TestServer_RejectsBadCredentials(t *testing.T) {
	t.Parallel()
	s := NewServer(t, DefaultCredentials)

	res := requestToken(t, s, DefaultCredentials.ClientID, "nope")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestServer_AnyClientWhenCredentialsEmpty(t *testing.T) {
	t.Parallel()
	s := NewServer(t, huawei.Credentials{})

	res := requestToken(t, s, "someone", "anything")
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestServer_VerifyRequiresIssuedToken(t *testing.T) {
	t.Parallel()
	s := NewServer(t, DefaultCredentials)

	req, err := http.NewRequest(http.MethodPost, s.URL+OrderPath,
		strings.NewReader(`{"productId":"p","purchaseToken":"t"}`))
	require.NoError(t, err)
	req.Header.Set("Authorization",
		"Basic "+base64.StdEncoding.EncodeToString([]byte("APPAT:never-issued")))

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, 1, s.OrderRequests())
}

func TestOrderSuccess_EncodesPayload(t *testing.T) {
	t.Parallel()
	envelope := OrderSuccess(map[string]any{"x": 1})

	assert.Equal(t, "0", envelope["responseCode"])
	assert.Equal(t, `{"x":1}`, envelope["purchaseTokenData"])
	assert.NotContains(t, envelope, "inappPurchaseData")
}

func TestSubscriptionSuccess_EncodesPayload(t *testing.T) {
	t.Parallel()
	envelope := SubscriptionSuccess(map[string]any{"subIsvalid": true})

	assert.Equal(t, `{"subIsvalid":true}`, envelope["inappPurchaseData"])
	assert.NotContains(t, envelope, "purchaseTokenData")
}
