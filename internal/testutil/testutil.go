// Package testutil provides test environment setup and utilities for internal package tests.
package testutil

import (
	"net/http"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/BatuhanK/huawei-inapp/internal/api"
	"github.com/BatuhanK/huawei-inapp/internal/database"
	"github.com/BatuhanK/huawei-inapp/internal/service"
	"github.com/BatuhanK/huawei-inapp/pkg/huawei"
	"github.com/BatuhanK/huawei-inapp/pkg/huaweitest"
)

// TestEnv provides all dependencies needed for testing
type TestEnv struct {
	DB       *database.SQLiteStore
	Service  *service.Service
	Registry *huawei.Registry
	Huawei   *huaweitest.Server
	Logger   *logrus.Logger
	LogHook  *logtest.Hook
	Router   http.Handler
}

// SetupTestEnv creates an isolated test environment with in-memory SQLite
// and a fake Huawei backend
func SetupTestEnv(
	t *testing.T,
) *TestEnv {
	t.Helper()

	// create in-memory SQLite database
	db, err := database.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// fake huawei endpoints, closed with the test
	fake := huaweitest.NewServer(t, huaweitest.DefaultCredentials)

	logger, hook := logtest.NewNullLogger()

	registry := huawei.NewRegistry(
		huawei.WithEndpoints(fake.Endpoints()),
		huawei.WithHTTPClient(fake.Client()),
		huawei.WithLogger(logger),
	)

	svc := service.New(
		db.AppStore(),
		registry,
		service.PasswordModeTesting,
		logger,
	)

	// setup cleanup
	t.Cleanup(func() {
		_ = db.Close()
	})

	return &TestEnv{
		DB:       db,
		Service:  svc,
		Registry: registry,
		Huawei:   fake,
		Logger:   logger,
		LogHook:  hook,
	}
}

// SetupTestEnvWithRouter creates TestEnv and configures the API router
func SetupTestEnvWithRouter(
	t *testing.T,
) *TestEnv {
	t.Helper()
	env := SetupTestEnv(t)
	a := api.New(env.Service, env.Logger)
	env.Router = a.Router()
	return env
}

// RegisterTestApp creates an app using the fake backend's credentials
func (env *TestEnv) RegisterTestApp(
	t *testing.T,
	name string,
	apiKey string,
) {
	t.Helper()
	creds := huaweitest.DefaultCredentials
	if err := env.Service.RegisterApp(name, creds.ClientID, creds.ClientSecret, apiKey); err != nil {
		t.Fatalf("failed to register test app: %v", err)
	}
}
