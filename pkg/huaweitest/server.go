package huaweitest

import (
	"encoding/base64"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/BatuhanK/huawei-inapp/pkg/huawei"
)

const (
	TokenPath        = "/oauth2/v2/token"
	OrderPath        = "/applications/purchases/tokens/verify"
	SubscriptionPath = "/sub/applications/v2/purchases/get"

	DefaultAccessToken = "test-access-token"
	DefaultExpiresIn   = 3600
)

// DefaultCredentials are accepted by a Server created with them.
var DefaultCredentials = huawei.Credentials{
	ClientID:     "100000001",
	ClientSecret: "test-client-secret",
}

// Server emulates the three Huawei endpoints.
type Server struct {
	URL string

	srv   *httptest.Server
	creds huawei.Credentials

	mu                   sync.Mutex
	accessToken          string
	expiresIn            int64
	tokenStatus          int
	issued               map[string]bool
	orderResponse        map[string]any
	subscriptionResponse map[string]any
	tokenRequests        int
	orderRequests        int
	subscriptionRequests int
	lastOrder            huawei.OrderRequest
	lastSubscription     huawei.SubscriptionRequest
	lastAuthorization    string
}

// NewServer starts a fake that issues tokens only for creds. An empty
// creds.ClientID accepts any client. The server is closed when t finishes.
func NewServer(
	t testing.TB,
	creds huawei.Credentials,
) *Server {
	t.Helper()
	s := Start(creds, nil)
	t.Cleanup(s.Close)
	return s
}

// Start runs a fake outside of a test, on listener if it is not nil and on a
// loopback port otherwise. Callers must Close it.
func Start(
	creds huawei.Credentials,
	listener net.Listener,
) *Server {
	s := &Server{
		creds:                creds,
		accessToken:          DefaultAccessToken,
		expiresIn:            DefaultExpiresIn,
		tokenStatus:          http.StatusOK,
		issued:               make(map[string]bool),
		orderResponse:        OrderSuccess(map[string]any{"purchaseState": 0}),
		subscriptionResponse: SubscriptionSuccess(map[string]any{"subIsvalid": true}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+TokenPath, s.handleToken)
	mux.HandleFunc("POST "+OrderPath, s.handleOrder)
	mux.HandleFunc("POST "+SubscriptionPath, s.handleSubscription)

	s.srv = httptest.NewUnstartedServer(mux)
	if listener != nil {
		_ = s.srv.Listener.Close()
		s.srv.Listener = listener
	}
	s.srv.Start()
	s.URL = s.srv.URL
	return s
}

func (s *Server) Close() {
	s.srv.Close()
}

// Endpoints points a huawei.Client at this server.
func (s *Server) Endpoints() huawei.Endpoints {
	return huawei.Endpoints{
		Token:        s.URL + TokenPath,
		Order:        s.URL + OrderPath,
		Subscription: s.URL + SubscriptionPath,
	}
}

// Client returns the HTTP client of the underlying test server.
func (s *Server) Client() *http.Client {
	return s.srv.Client()
}

// SetToken changes the token issued by subsequent token requests.
func (s *Server) SetToken(
	accessToken string,
	expiresIn int64,
) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
	s.expiresIn = expiresIn
}

// SetTokenStatus makes the token endpoint answer with status. Anything other
// than 200 returns an OAuth error body.
func (s *Server) SetTokenStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenStatus = status
}

func (s *Server) SetOrderResponse(envelope map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderResponse = envelope
}

func (s *Server) SetSubscriptionResponse(envelope map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptionResponse = envelope
}

func (s *Server) TokenRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenRequests
}

func (s *Server) OrderRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderRequests
}

func (s *Server) SubscriptionRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscriptionRequests
}

// LastOrder is the body of the most recent order verification request.
func (s *Server) LastOrder() huawei.OrderRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOrder
}

// LastSubscription is the body of the most recent subscription request.
func (s *Server) LastSubscription() huawei.SubscriptionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSubscription
}

// LastAuthorization is the Authorization header of the most recent
// verification request.
func (s *Server) LastAuthorization() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAuthorization
}

// OrderSuccess builds an order envelope carrying payload as purchaseTokenData.
func OrderSuccess(payload map[string]any) map[string]any {
	return map[string]any{
		"responseCode":       "0",
		"purchaseTokenData":  encodePayload(payload),
		"dataSignature":      "test-signature",
		"signatureAlgorithm": "SHA256WithRSA/PSS",
	}
}

// SubscriptionSuccess builds a subscription envelope carrying payload as
// inappPurchaseData.
func SubscriptionSuccess(payload map[string]any) map[string]any {
	return map[string]any{
		"responseCode":       "0",
		"inappPurchaseData":  encodePayload(payload),
		"dataSignature":      "test-signature",
		"signatureAlgorithm": "SHA256WithRSA/PSS",
	}
}

// Rejection builds a failure envelope.
func Rejection(
	code string,
	message string,
) map[string]any {
	return map[string]any{
		"responseCode":    code,
		"responseMessage": message,
	}
}

func encodePayload(payload map[string]any) string {
	data, err := json.Marshal(payload)
	if err != nil {
		panic("huaweitest: failed to encode payload: " + err.Error())
	}
	return string(data)
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenRequests++

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, oauthError("invalid_request", err.Error()))
		return
	}
	if r.PostForm.Get("grant_type") != "client_credentials" {
		writeJSON(w, http.StatusBadRequest, oauthError("unsupported_grant_type", "grant_type must be client_credentials"))
		return
	}
	if s.creds.ClientID != "" &&
		(r.PostForm.Get("client_id") != s.creds.ClientID ||
			r.PostForm.Get("client_secret") != s.creds.ClientSecret) {
		writeJSON(w, http.StatusUnauthorized, oauthError("invalid_client", "bad client credentials"))
		return
	}
	if s.tokenStatus != http.StatusOK {
		writeJSON(w, s.tokenStatus, oauthError("server_error", http.StatusText(s.tokenStatus)))
		return
	}

	s.issued[s.accessToken] = true
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": s.accessToken,
		"expires_in":   s.expiresIn,
		"token_type":   "Bearer",
	})
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderRequests++

	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, Rejection("6", "invalid access token"))
		return
	}

	req := huawei.OrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, Rejection("5", "invalid request body"))
		return
	}
	s.lastOrder = req
	writeJSON(w, http.StatusOK, s.orderResponse)
}

func (s *Server) handleSubscription(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptionRequests++

	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, Rejection("6", "invalid access token"))
		return
	}

	req := huawei.SubscriptionRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, Rejection("5", "invalid request body"))
		return
	}
	s.lastSubscription = req
	writeJSON(w, http.StatusOK, s.subscriptionResponse)
}

// authorized must be called with s.mu held.
func (s *Server) authorized(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	s.lastAuthorization = header

	encoded, ok := strings.CutPrefix(header, "Basic ")
	if !ok {
		return false
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return false
	}
	token, ok := strings.CutPrefix(string(decoded), "APPAT:")
	if !ok {
		return false
	}
	return s.issued[token]
}

func oauthError(
	code string,
	description string,
) map[string]any {
	return map[string]any{
		"error":             code,
		"error_description": description,
	}
}

func writeJSON(
	w http.ResponseWriter,
	status int,
	data any,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
