package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (a *API) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(a.accessLogMiddleware)

	r.HandleFunc("/healthz", a.Health()).Methods(http.MethodGet)

	// routes for verification
	s := r.PathPrefix("/api/").Subrouter()
	s.HandleFunc("/orders/verify", a.VerifyOrder()).Methods(http.MethodPost)
	s.HandleFunc("/subscriptions/verify", a.VerifySubscription()).Methods(http.MethodPost)

	return r
}
