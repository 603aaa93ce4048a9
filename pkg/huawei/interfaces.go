package huawei

import "context"

// Verifier verifies purchase tokens.
// Consuming projects should depend on this interface rather than *Client
// so tests can substitute their own implementation.
type Verifier interface {
	GetOrder(ctx context.Context, req OrderRequest) (*Result, error)
	GetSubscription(ctx context.Context, req SubscriptionRequest) (*Result, error)
}

// Compile-time checks.
var _ Verifier = (*Client)(nil)
var _ TokenStore = (*memoryStore)(nil)
