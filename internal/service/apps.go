package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// AppSummary is the listing view of an app; it never carries secrets.
type AppSummary struct {
	Name     string `json:"name"`
	ClientID string `json:"client_id"`
}

func (s *Service) RegisterApp(
	name string,
	clientID string,
	clientSecret string,
	apiKey string,
) error {
	if apiKey == "" {
		return fmt.Errorf("%w: api key is required", ErrInvalidApp)
	}

	hash, err := s.HashKey(apiKey)
	if err != nil {
		return err
	}

	app := &App{
		Name:         name,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		KeyHash:      hash,
	}
	if err := validateApp(app); err != nil {
		return err
	}

	if err := s.apps.InsertApp(app); err != nil {
		if errors.Is(err, ErrAppExists) {
			return err
		}
		return fmt.Errorf("%w: failed to insert app: %v", ErrInternal, err)
	}

	s.log.WithField("app", name).Info("registered app")
	return nil
}

// SyncApp creates or replaces app. A client cached under the old
// credentials is dropped so the next verification uses the new ones.
func (s *Service) SyncApp(app *App) error {
	if err := validateApp(app); err != nil {
		return err
	}

	existing, err := s.apps.GetApp(app.Name)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: failed to get app: %v", ErrInternal, err)
	}

	if err := s.apps.UpsertApp(app); err != nil {
		return fmt.Errorf("%w: failed to upsert app: %v", ErrInternal, err)
	}

	// drop after the write, so a verification that read the old row in
	// between cannot leave its client behind
	if existing != nil && existing.Credentials() != app.Credentials() {
		s.registry.Remove(existing.ClientID)
	}
	return nil
}

func (s *Service) RemoveApp(name string) error {
	app, err := s.getApp(name)
	if err != nil {
		return err
	}

	deleted, err := s.apps.DeleteApp(name)
	if err != nil {
		return fmt.Errorf("%w: failed to delete app: %v", ErrInternal, err)
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrAppNotFound, name)
	}

	s.registry.Remove(app.ClientID)
	s.log.WithField("app", name).Info("removed app")
	return nil
}

func (s *Service) ListApps() ([]AppSummary, error) {
	apps, err := s.apps.ListApps()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list apps: %v", ErrInternal, err)
	}

	summaries := make([]AppSummary, 0, len(apps))
	for _, app := range apps {
		summaries = append(summaries, AppSummary{
			Name:     app.Name,
			ClientID: app.ClientID,
		})
	}
	return summaries, nil
}

// Authenticate checks apiKey against the stored hash for the named app.
func (s *Service) Authenticate(
	name string,
	apiKey string,
) (
	*App,
	error,
) {
	app, err := s.getApp(name)
	if err != nil {
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword(app.KeyHash, []byte(apiKey))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: failed to compare hash: %v", ErrInternal, err)
	}
	return app, nil
}

// HashKey hashes an API key for storage, e.g. in a provisioning file.
func (s *Service) HashKey(apiKey string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), s.passwordMode.Cost())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to hash api key: %v", ErrInternal, err)
	}
	return hash, nil
}

func (s *Service) getApp(name string) (*App, error) {
	app, err := s.apps.GetApp(name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrAppNotFound, name)
		}
		return nil, fmt.Errorf("%w: failed to get app: %v", ErrInternal, err)
	}
	return app, nil
}

func validateApp(app *App) error {
	switch {
	case strings.TrimSpace(app.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidApp)
	case strings.ContainsAny(app.Name, "/\\:"):
		return fmt.Errorf("%w: name contains invalid characters", ErrInvalidApp)
	case app.ClientID == "":
		return fmt.Errorf("%w: client id is required", ErrInvalidApp)
	case app.ClientSecret == "":
		return fmt.Errorf("%w: client secret is required", ErrInvalidApp)
	case len(app.KeyHash) == 0:
		return fmt.Errorf("%w: key hash is required", ErrInvalidApp)
	}
	return nil
}
