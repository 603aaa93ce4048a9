package huawei_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BatuhanK/huawei-inapp/pkg/huawei"
)

func TestAccessToken_Authorization(t *testing.T) {
	t.Parallel()
	token := &huawei.AccessToken{AccessToken: "T1"}

	assert.Equal(t, "Basic QVBQQVQ6VDE=", token.Authorization())

	decoded, err := base64.StdEncoding.DecodeString(token.Authorization()[len("Basic "):])
	assert.NoError(t, err)
	assert.Equal(t, "APPAT:T1", string(decoded))
}

func TestAccessToken_Expired(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	token := &huawei.AccessToken{
		AccessToken: "T1",
		ExpiresIn:   3600,
		ExpiresAt:   now.Add(time.Hour),
	}

	cases := []struct {
		name    string
		at      time.Time
		expired bool
	}{
		{"fresh", now, false},
		{"just outside leeway", now.Add(time.Hour - 31*time.Millisecond), false},
		{"at leeway", now.Add(time.Hour - huawei.DefaultExpiryLeeway), true},
		{"at expiry", now.Add(time.Hour), true},
		{"past expiry", now.Add(2 * time.Hour), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expired, token.Expired(tc.at, huawei.DefaultExpiryLeeway))
		})
	}
}

func TestAccessToken_Remaining(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	token := &huawei.AccessToken{ExpiresAt: now.Add(time.Minute)}

	assert.Equal(t, time.Minute, token.Remaining(now))
	assert.Equal(t, -time.Minute, token.Remaining(now.Add(2*time.Minute)))
}
