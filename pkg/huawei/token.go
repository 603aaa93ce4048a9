package huawei

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// AccessToken is an OAuth2 client-credentials token issued by Huawei.
type AccessToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Authorization returns the Authorization header value Huawei's IAP APIs
// expect for this token.
func (t *AccessToken) Authorization() string {
	cred := base64.StdEncoding.EncodeToString([]byte("APPAT:" + t.AccessToken))
	return "Basic " + cred
}

// Remaining is the time left before the token expires, negative once it has.
func (t *AccessToken) Remaining(now time.Time) time.Duration {
	return t.ExpiresAt.Sub(now)
}

// Expired reports whether the token has leeway or less left at now.
func (t *AccessToken) Expired(
	now time.Time,
	leeway time.Duration,
) bool {
	return t.Remaining(now) <= leeway
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

func (c *Client) acquireToken(ctx context.Context) (*AccessToken, error) {
	c.log.Debug("getting access token")

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.creds.ClientID)
	form.Set("client_secret", c.creds.ClientSecret)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.endpoints.Token,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, &TokenAcquisitionError{ClientID: c.creds.ClientID, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	res := tokenResponse{}
	if err := c.do(req, "token", &res); err != nil {
		return nil, &TokenAcquisitionError{ClientID: c.creds.ClientID, Err: err}
	}
	if res.AccessToken == "" {
		return nil, &TokenAcquisitionError{ClientID: c.creds.ClientID, Err: ErrTokenResponse}
	}

	token := &AccessToken{
		AccessToken: res.AccessToken,
		ExpiresIn:   res.ExpiresIn,
		ExpiresAt:   c.now().Add(time.Duration(res.ExpiresIn) * time.Second),
	}

	if err := c.store.Save(ctx, c.creds.ClientID, token); err != nil {
		c.log.WithError(err).Warn("failed to save access token")
	}
	return token, nil
}

func (c *Client) ensureAuthenticated(ctx context.Context) (*AccessToken, error) {
	token, err := c.store.Load(ctx, c.creds.ClientID)
	if err != nil {
		c.log.WithError(err).Warn("failed to load access token; fetching a new one")
		token = nil
	}

	if token == nil {
		return c.acquireToken(ctx)
	}

	remaining := token.Remaining(c.now())
	if remaining <= c.leeway {
		c.log.Debug("access token is expired, refreshing")
		return c.acquireToken(ctx)
	}

	c.log.WithField("remaining", remaining).Debug("reusing access token")
	return token, nil
}
