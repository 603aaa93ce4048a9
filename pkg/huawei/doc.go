// Package huawei verifies Huawei IAP purchase and subscription tokens.
//
// A Client holds one app's OAuth2 client credentials, fetches an access
// token from Huawei's OAuth service on first use, reuses it until it is
// about to expire, and calls the order and subscription verification APIs
// with it.
//
// # Quick Start
//
//	registry := huawei.NewRegistry()
//	client := registry.Get(huawei.Credentials{
//	    ClientID:     "1234567",
//	    ClientSecret: "app-secret",
//	})
//
//	result, err := client.GetOrder(ctx, huawei.OrderRequest{
//	    ProductID:     "coins_100",
//	    PurchaseToken: purchaseToken,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Data["orderId"])
//
// # Client Reuse
//
// Registry keys clients by client ID so that every caller using the same app
// shares one cached access token. Asking the registry for a client ID it
// already holds returns the existing client even if the secret differs; call
// Registry.Remove first when credentials rotate.
//
// # Error Handling
//
// Verification can fail in three distinct ways:
//
//	result, err := client.GetSubscription(ctx, req)
//	var rejected *huawei.VerificationError
//	var transport *huawei.TransportError
//	var tokenErr *huawei.TokenAcquisitionError
//	switch {
//	case errors.As(err, &rejected):
//	    // Huawei answered but rejected the token: rejected.Code, rejected.Message
//	case errors.As(err, &tokenErr):
//	    // the access token could not be obtained
//	case errors.As(err, &transport):
//	    // network failure, non-2xx status or a malformed body
//	}
//
// Nothing is retried.
//
// # Testing
//
// Package huaweitest provides a fake of the three Huawei endpoints; point a
// client at it with WithEndpoints(server.Endpoints()).
package huawei
