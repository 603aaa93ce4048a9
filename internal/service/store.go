package service

import "github.com/BatuhanK/huawei-inapp/pkg/huawei"

//go:generate mockgen -source=store.go -destination=mock_store.go -package=service

// App is a caller of the gateway and the Huawei credentials it verifies with.
type App struct {
	Name         string
	ClientID     string
	ClientSecret string
	KeyHash      []byte
}

func (a *App) Credentials() huawei.Credentials {
	return huawei.Credentials{
		ClientID:     a.ClientID,
		ClientSecret: a.ClientSecret,
	}
}

// AppStore handles persistence of apps. GetApp wraps sql.ErrNoRows for
// unknown names and InsertApp wraps ErrAppExists on duplicates.
type AppStore interface {
	InsertApp(app *App) error
	UpsertApp(app *App) error
	GetApp(name string) (*App, error)
	ListApps() ([]*App, error)
	DeleteApp(name string) (bool, error)
}
