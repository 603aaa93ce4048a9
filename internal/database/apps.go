package database

import (
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/BatuhanK/huawei-inapp/internal/service"
)

func (s *SQLiteStore) AppStore() service.AppStore {
	return s
}

func (s *SQLiteStore) InsertApp(
	app *service.App,
) error {
	_, err := s.db.Exec(`
		INSERT INTO app (name, client_id, client_secret, key_hash)
		VALUES (?1, ?2, ?3, ?4);`,
		app.Name,
		app.ClientID,
		app.ClientSecret,
		app.KeyHash,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", service.ErrAppExists, app.Name)
	}
	if err != nil {
		return fmt.Errorf("couldn't insert into app: %v", err)
	}
	return nil
}

func (s *SQLiteStore) UpsertApp(
	app *service.App,
) error {
	_, err := s.db.Exec(`
		INSERT INTO app (name, client_id, client_secret, key_hash)
		VALUES (?1, ?2, ?3, ?4)
		ON CONFLICT (name) DO UPDATE SET
			client_id = excluded.client_id,
			client_secret = excluded.client_secret,
			key_hash = excluded.key_hash;`,
		app.Name,
		app.ClientID,
		app.ClientSecret,
		app.KeyHash,
	)
	if err != nil {
		return fmt.Errorf("couldn't upsert app: %v", err)
	}
	return nil
}

func (s *SQLiteStore) GetApp(
	name string,
) (
	*service.App,
	error,
) {
	row := s.db.QueryRow(`
		SELECT name, client_id, client_secret, key_hash
		FROM app
		WHERE name=?1;`,
		name,
	)

	app := &service.App{}
	err := row.Scan(&app.Name, &app.ClientID, &app.ClientSecret, &app.KeyHash)
	if err != nil {
		return nil, fmt.Errorf("couldn't scan app: %w", err)
	}
	return app, nil
}

func (s *SQLiteStore) ListApps() ([]*service.App, error) {
	rows, err := s.db.Query(`
		SELECT name, client_id, client_secret, key_hash
		FROM app
		ORDER BY name;`,
	)
	if err != nil {
		return nil, fmt.Errorf("couldn't query apps: %v", err)
	}
	defer rows.Close()

	apps := []*service.App{}
	for rows.Next() {
		app := &service.App{}
		if err := rows.Scan(&app.Name, &app.ClientID, &app.ClientSecret, &app.KeyHash); err != nil {
			return nil, fmt.Errorf("couldn't scan app: %v", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("couldn't read apps: %v", err)
	}
	return apps, nil
}

func (s *SQLiteStore) DeleteApp(
	name string,
) (
	bool,
	error,
) {
	result, err := s.db.Exec(`
		DELETE FROM app
		WHERE name=?1;`,
		name,
	)
	if err != nil {
		return false, fmt.Errorf("couldn't delete app: %v", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("couldn't read deleted rows: %v", err)
	}
	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
