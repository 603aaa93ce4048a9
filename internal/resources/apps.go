// Package resources loads app definitions from a provisioning directory and
// keeps the app store in sync with it.
package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/BatuhanK/huawei-inapp/internal/service"
)

// AppDefinition is the file format of a provisioned app. The file name,
// without a .json extension, is the app name.
type AppDefinition struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	KeyHash      string `json:"key_hash"`
}

// AppSyncer receives every valid definition found in the directory.
type AppSyncer interface {
	SyncApp(app *service.App) error
}

// LoadApps syncs every definition in dir and returns how many were applied.
// Invalid files are logged and skipped.
func LoadApps(
	dir string,
	syncer AppSyncer,
	log logrus.FieldLogger,
) (
	int,
	error,
) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read apps dir: %w", err)
	}

	synced := 0
	for _, file := range files {
		if !file.Type().IsRegular() || strings.HasPrefix(file.Name(), ".") {
			continue
		}
		name := appName(file.Name())
		fileLog := log.WithFields(logrus.Fields{"app": name, "file": file.Name()})

		app, err := loadApp(filepath.Join(dir, file.Name()), name)
		if err != nil {
			fileLog.WithError(err).Warn("skipping app definition")
			continue
		}
		if err := syncer.SyncApp(app); err != nil {
			fileLog.WithError(err).Warn("failed to sync app definition")
			continue
		}
		synced++
	}

	log.WithField("count", synced).Infof("loaded apps from %s", dir)
	return synced, nil
}

// WatchApps loads dir, then re-syncs it whenever its files change, until
// ctx is done.
func WatchApps(
	ctx context.Context,
	dir string,
	syncer AppSyncer,
	log logrus.FieldLogger,
) error {
	if _, err := LoadApps(dir, syncer, log); err != nil {
		return err
	}

	err := watchDir(ctx, dir, func() {
		if _, err := LoadApps(dir, syncer, log); err != nil {
			log.WithError(err).Warn("failed to reload apps")
		}
	}, log)
	if err != nil {
		return fmt.Errorf("failed to start apps watcher: %w", err)
	}
	return nil
}

func appName(fileName string) string {
	return strings.TrimSuffix(fileName, ".json")
}

func loadApp(
	path string,
	name string,
) (
	*service.App,
	error,
) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load app definition: %w", err)
	}

	def := &AppDefinition{}
	if err := json.Unmarshal(file, def); err != nil {
		return nil, fmt.Errorf("failed to parse json of '%s': %w", path, err)
	}
	if def.KeyHash == "" {
		return nil, errors.New("key_hash is required")
	}

	return &service.App{
		Name:         name,
		ClientID:     def.ClientID,
		ClientSecret: def.ClientSecret,
		KeyHash:      []byte(def.KeyHash),
	}, nil
}
