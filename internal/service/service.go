// Package service implements the business logic layer for the verification gateway.
// It authenticates calling apps and forwards their purchase checks to Huawei.
package service

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/BatuhanK/huawei-inapp/pkg/huawei"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAppNotFound        = errors.New("app not found")
	ErrAppExists          = errors.New("app already exists")
	ErrInvalidApp         = errors.New("invalid app")
	ErrInternal           = errors.New("internal error")
)

// PasswordMode controls bcrypt cost for API key hashing.
// Use PasswordModeProduction for real deployments and PasswordModeTesting only in tests.
type PasswordMode int

const (
	// PasswordModeProduction uses bcrypt.DefaultCost (10).
	PasswordModeProduction PasswordMode = iota
	// PasswordModeTesting uses bcrypt.MinCost (4) for fast test execution.
	// WARNING: This mode will panic if used outside of go test.
	PasswordModeTesting
)

// Cost returns the bcrypt cost for this mode.
// Panics if PasswordModeTesting is used outside of a test binary.
func (m PasswordMode) Cost() int {
	switch m {
	case PasswordModeTesting:
		if !testing.Testing() {
			panic("service: PasswordModeTesting used outside of test environment")
		}
		return bcrypt.MinCost
	default:
		return bcrypt.DefaultCost
	}
}

// Service coordinates app authentication and purchase verification.
// Apps are persisted through AppStore; Huawei clients are shared through
// the registry so each client ID keeps a single access token.
type Service struct {
	apps         AppStore
	registry     *huawei.Registry
	passwordMode PasswordMode
	log          logrus.FieldLogger
}

func New(
	apps AppStore,
	registry *huawei.Registry,
	passwordMode PasswordMode,
	logger logrus.FieldLogger,
) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if passwordMode == PasswordModeTesting {
		logger.Warn("using insecure api key hashing (testing mode)")
	}
	return &Service{
		apps:         apps,
		registry:     registry,
		passwordMode: passwordMode,
		log:          logger.WithField("component", "service"),
	}
}

func (s *Service) Registry() *huawei.Registry {
	return s.registry
}
