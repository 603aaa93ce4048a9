package api

import (
	"net/http"

	"github.com/BatuhanK/huawei-inapp/pkg/huawei"
)

type OrderVerifyRequest struct {
	ProductID     string `json:"productId"`
	PurchaseToken string `json:"purchaseToken"`
}

type SubscriptionVerifyRequest struct {
	SubscriptionID string `json:"subscriptionId"`
	PurchaseToken  string `json:"purchaseToken"`
}

type VerifyResponse struct {
	Data map[string]any `json:"data"`
	Raw  map[string]any `json:"raw"`
}

func (a *API) VerifyOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app, apiKey, ok := a.appCredentials(w, r)
		if !ok {
			return
		}

		var req OrderVerifyRequest
		if ok := decodeRequest(a, &req, w, r); !ok {
			return
		}
		if req.ProductID == "" || req.PurchaseToken == "" {
			a.logApiErr(r, "missing productId or purchaseToken")
			returnJson(http.StatusBadRequest, ErrorResponse{Message: "productId and purchaseToken are required"}, w)
			return
		}

		result, err := a.service.VerifyOrder(r.Context(), app, apiKey, huawei.OrderRequest{
			ProductID:     req.ProductID,
			PurchaseToken: req.PurchaseToken,
		})
		if err != nil {
			a.writeError(w, r, err)
			return
		}

		returnJson(http.StatusOK, VerifyResponse{Data: result.Data, Raw: result.Raw}, w)
	}
}

func (a *API) VerifySubscription() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app, apiKey, ok := a.appCredentials(w, r)
		if !ok {
			return
		}

		var req SubscriptionVerifyRequest
		if ok := decodeRequest(a, &req, w, r); !ok {
			return
		}
		if req.SubscriptionID == "" || req.PurchaseToken == "" {
			a.logApiErr(r, "missing subscriptionId or purchaseToken")
			returnJson(http.StatusBadRequest, ErrorResponse{Message: "subscriptionId and purchaseToken are required"}, w)
			return
		}

		result, err := a.service.VerifySubscription(r.Context(), app, apiKey, huawei.SubscriptionRequest{
			SubscriptionID: req.SubscriptionID,
			PurchaseToken:  req.PurchaseToken,
		})
		if err != nil {
			a.writeError(w, r, err)
			return
		}

		returnJson(http.StatusOK, VerifyResponse{Data: result.Data, Raw: result.Raw}, w)
	}
}

// appCredentials reads the calling app from HTTP Basic auth.
func (a *API) appCredentials(
	w http.ResponseWriter,
	r *http.Request,
) (
	string,
	string,
	bool,
) {
	app, apiKey, ok := r.BasicAuth()
	if !ok || app == "" {
		a.logApiErr(r, "missing app credentials")
		w.Header().Set("WWW-Authenticate", `Basic realm="huawei-iap"`)
		returnJson(http.StatusUnauthorized, ErrorResponse{Message: "missing app credentials"}, w)
		return "", "", false
	}
	return app, apiKey, true
}
