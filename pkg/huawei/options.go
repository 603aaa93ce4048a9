package huawei

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultTokenURL        = "https://oauth-login.cloud.huawei.com/oauth2/v2/token"
	DefaultOrderURL        = "https://orders-dre.iap.hicloud.com/applications/purchases/tokens/verify"
	DefaultSubscriptionURL = "https://subscr-dre.iap.hicloud.com/sub/applications/v2/purchases/get"

	// DefaultExpiryLeeway is how close to expiry a token may get before it
	// is replaced.
	DefaultExpiryLeeway = 30 * time.Millisecond
)

// Endpoints are the Huawei URLs a Client talks to.
type Endpoints struct {
	Token        string
	Order        string
	Subscription string
}

// DefaultEndpoints returns the production endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Token:        DefaultTokenURL,
		Order:        DefaultOrderURL,
		Subscription: DefaultSubscriptionURL,
	}
}

type options struct {
	httpClient *http.Client
	endpoints  Endpoints
	logger     logrus.FieldLogger
	now        func() time.Time
	leeway     time.Duration
	store      TokenStore
}

func defaultOptions() options {
	return options{
		httpClient: http.DefaultClient,
		endpoints:  DefaultEndpoints(),
		logger:     logrus.StandardLogger(),
		now:        time.Now,
		leeway:     DefaultExpiryLeeway,
	}
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient sets the HTTP client used for every request. Timeouts are
// taken from it.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		if httpClient != nil {
			o.httpClient = httpClient
		}
	}
}

// WithEndpoints overrides the Huawei URLs. Empty fields keep their defaults.
func WithEndpoints(endpoints Endpoints) Option {
	return func(o *options) {
		if endpoints.Token != "" {
			o.endpoints.Token = endpoints.Token
		}
		if endpoints.Order != "" {
			o.endpoints.Order = endpoints.Order
		}
		if endpoints.Subscription != "" {
			o.endpoints.Subscription = endpoints.Subscription
		}
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock replaces time.Now for expiry bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func WithExpiryLeeway(leeway time.Duration) Option {
	return func(o *options) {
		o.leeway = leeway
	}
}

// WithTokenStore shares access tokens through store instead of keeping
// them in the client.
func WithTokenStore(store TokenStore) Option {
	return func(o *options) {
		o.store = store
	}
}
