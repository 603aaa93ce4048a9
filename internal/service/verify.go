package service

import (
	"context"

	"github.com/BatuhanK/huawei-inapp/pkg/huawei"
)

// VerifyOrder authenticates the app and verifies a one-time purchase with
// its Huawei client. SDK errors are returned unwrapped.
func (s *Service) VerifyOrder(
	ctx context.Context,
	name string,
	apiKey string,
	req huawei.OrderRequest,
) (
	*huawei.Result,
	error,
) {
	app, err := s.Authenticate(name, apiKey)
	if err != nil {
		return nil, err
	}

	result, err := s.clientFor(app).GetOrder(ctx, req)
	if err != nil {
		s.log.WithError(err).WithField("app", name).Info("order verification failed")
		return nil, err
	}
	return result, nil
}

func (s *Service) VerifySubscription(
	ctx context.Context,
	name string,
	apiKey string,
	req huawei.SubscriptionRequest,
) (
	*huawei.Result,
	error,
) {
	app, err := s.Authenticate(name, apiKey)
	if err != nil {
		return nil, err
	}

	result, err := s.clientFor(app).GetSubscription(ctx, req)
	if err != nil {
		s.log.WithError(err).WithField("app", name).Info("subscription verification failed")
		return nil, err
	}
	return result, nil
}

// clientFor returns the registered client for app, replacing one that was
// created with other credentials.
func (s *Service) clientFor(app *App) *huawei.Client {
	creds := app.Credentials()
	client := s.registry.Get(creds)
	if client.Credentials() == creds {
		return client
	}

	s.log.WithField("app", app.Name).Info("client credentials changed, replacing client")
	s.registry.Remove(creds.ClientID)
	return s.registry.Get(creds)
}
