// Package api exposes the verification service over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/BatuhanK/huawei-inapp/internal/service"
	"github.com/BatuhanK/huawei-inapp/pkg/huawei"
)

type API struct {
	service *service.Service
	log     logrus.FieldLogger
}

func New(
	svc *service.Service,
	logger logrus.FieldLogger,
) *API {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &API{
		service: svc,
		log:     logger,
	}
}

type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func decodeRequest[T any](
	a *API,
	req *T,
	w http.ResponseWriter,
	r *http.Request,
) bool {
	err := json.NewDecoder(r.Body).Decode(req)
	if err != nil {
		a.logApiErr(r, "bad json request")
		returnJson(http.StatusBadRequest, ErrorResponse{Message: "bad json request"}, w)
		return false
	}
	return true
}

func returnJson(
	status int,
	data any,
	w http.ResponseWriter,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (a *API) logApiErr(r *http.Request, msg string) {
	requestLogger(a.log, r).Warn(msg)
}

// writeError maps service and SDK errors to a status code and body.
func (a *API) writeError(
	w http.ResponseWriter,
	r *http.Request,
	err error,
) {
	var (
		rejected  *huawei.VerificationError
		tokenErr  *huawei.TokenAcquisitionError
		transport *huawei.TransportError
	)

	switch {
	case errors.Is(err, service.ErrAppNotFound),
		errors.Is(err, service.ErrInvalidCredentials):
		a.logApiErr(r, err.Error())
		w.Header().Set("WWW-Authenticate", `Basic realm="huawei-iap"`)
		returnJson(http.StatusUnauthorized, ErrorResponse{Message: "invalid app credentials"}, w)

	case errors.As(err, &rejected):
		returnJson(http.StatusUnprocessableEntity, ErrorResponse{
			Code:    rejected.Code,
			Message: rejected.Message,
		}, w)

	case errors.As(err, &tokenErr),
		errors.As(err, &transport),
		errors.Is(err, huawei.ErrPayloadMalformed):
		requestLogger(a.log, r).WithError(err).Error("huawei request failed")
		returnJson(http.StatusBadGateway, ErrorResponse{Message: err.Error()}, w)

	default:
		requestLogger(a.log, r).WithError(err).Error("internal error")
		returnJson(http.StatusInternalServerError, ErrorResponse{Message: "internal error"}, w)
	}
}
