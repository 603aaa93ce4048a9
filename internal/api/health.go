package api

import "net/http"

func (a *API) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		returnJson(http.StatusOK, map[string]string{"status": "ok"}, w)
	}
}
