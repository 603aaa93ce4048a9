// Package huaweitest provides an in-process fake of Huawei's OAuth and IAP
// verification endpoints for testing code built on package huawei.
//
// # Basic Usage
//
//	func TestCheckout(t *testing.T) {
//	    fake := huaweitest.NewServer(t, huaweitest.DefaultCredentials)
//	    fake.SetOrderResponse(huaweitest.OrderSuccess(map[string]any{
//	        "productId":     "coins_100",
//	        "purchaseState": 0,
//	    }))
//
//	    client := huawei.New(huaweitest.DefaultCredentials,
//	        huawei.WithEndpoints(fake.Endpoints()))
//
//	    result, err := client.GetOrder(ctx, huawei.OrderRequest{
//	        ProductID:     "coins_100",
//	        PurchaseToken: "token",
//	    })
//	    ...
//	    if fake.TokenRequests() != 1 {
//	        t.Errorf("expected one token request, got %d", fake.TokenRequests())
//	    }
//	}
//
// # Rejections
//
// Use Rejection to make an endpoint answer with a failure envelope:
//
//	fake.SetOrderResponse(huaweitest.Rejection("6", "invalid token"))
//
// The fake only accepts access tokens it has issued, sent in the
// "Basic base64(APPAT:<token>)" form Huawei expects; anything else is
// answered with 401.
package huaweitest
