package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/garnizeh/keepalive/pkg/models"
	"github.com/garnizeh/keepalive/pkg/repository"
)

const projectColumns = `id, name, endpoint_url, credential, check_method, table_name, enabled, last_status, last_checked, created, updated`

// Create validates and inserts a new project. A duplicate name fails with
// repository.ErrDuplicateName and leaves the store unchanged.
func (s *Store) Create(ctx context.Context, p repository.CreateProjectParams) (*models.Project, error) {
	if err := validateProject(p.Name, p.EndpointURL, p.Credential, p.Method, p.TableName); err != nil {
		return nil, err
	}

	ts := now()
	var tableName any
	if p.Method == models.MethodTable {
		tableName = p.TableName
	}

	res, err := s.conn.Exec(ctx,
		`INSERT INTO projects (name, endpoint_url, credential, check_method, table_name, enabled, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.EndpointURL, p.Credential, string(p.Method), tableName, boolToInt(p.Enabled), ts, ts)
	if err != nil {
		return nil, translateErr(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	s.logger.Info("project created", "id", id, "name", p.Name, "method", p.Method)
	return s.Get(ctx, id)
}

// Get returns the project with the given id, or repository.ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (*models.Project, error) {
	row := s.conn.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, translateErr(err)
	}
	return p, nil
}

// List returns projects ordered by ascending id.
func (s *Store) List(ctx context.Context, enabledOnly bool) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY id ASC`
	if enabledOnly {
		query = `SELECT ` + projectColumns + ` FROM projects WHERE enabled = 1 ORDER BY id ASC`
	}

	rows, err := s.conn.QueryRows(ctx, query)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Update replaces the provided connection fields and revalidates the
// resulting project before persisting.
func (s *Store) Update(ctx context.Context, id int64, p repository.UpdateProjectParams) (*models.Project, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		cur.Name = *p.Name
	}
	if p.EndpointURL != nil {
		cur.EndpointURL = *p.EndpointURL
	}
	if p.Credential != nil {
		cur.Credential = *p.Credential
	}
	if p.Method != nil {
		cur.Method = *p.Method
	}
	if p.TableName != nil {
		cur.TableName = *p.TableName
	}

	if err := validateProject(cur.Name, cur.EndpointURL, cur.Credential, cur.Method, cur.TableName); err != nil {
		return nil, err
	}

	var tableName any
	if cur.Method == models.MethodTable {
		tableName = cur.TableName
	}

	_, err = s.conn.Exec(ctx,
		`UPDATE projects SET name = ?, endpoint_url = ?, credential = ?, check_method = ?, table_name = ?, updated = ? WHERE id = ?`,
		cur.Name, cur.EndpointURL, cur.Credential, string(cur.Method), tableName, now(), id)
	if err != nil {
		return nil, translateErr(err)
	}

	return s.Get(ctx, id)
}

// SetEnabled toggles run participation. Disabled projects stay in the store.
func (s *Store) SetEnabled(ctx context.Context, id int64, enabled bool) (*models.Project, error) {
	res, err := s.conn.Exec(ctx, `UPDATE projects SET enabled = ?, updated = ? WHERE id = ?`, boolToInt(enabled), now(), id)
	if err != nil {
		return nil, translateErr(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, repository.ErrNotFound
	}
	return s.Get(ctx, id)
}

// RecordCheckResult atomically folds a check outcome into last_status,
// last_checked and updated.
func (s *Store) RecordCheckResult(ctx context.Context, id int64, outcome models.CheckOutcome) error {
	ts := now()
	res, err := s.conn.Exec(ctx,
		`UPDATE projects SET last_status = ?, last_checked = ?, updated = ? WHERE id = ?`,
		outcome.StatusLabel(), ts, ts, id)
	if err != nil {
		return translateErr(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a project permanently. Ids are never reused because the
// table uses AUTOINCREMENT.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.conn.Exec(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return translateErr(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return repository.ErrNotFound
	}

	s.logger.Info("project deleted", "id", id)
	return nil
}

func validateProject(name, endpointURL, credential string, method models.CheckMethod, tableName string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name is required", repository.ErrValidation)
	case strings.TrimSpace(endpointURL) == "":
		return fmt.Errorf("%w: endpoint URL is required", repository.ErrValidation)
	case strings.TrimSpace(credential) == "":
		return fmt.Errorf("%w: credential is required", repository.ErrValidation)
	case !method.Valid():
		return fmt.Errorf("%w: unknown check method %q", repository.ErrValidation, method)
	case method == models.MethodTable && strings.TrimSpace(tableName) == "":
		return fmt.Errorf("%w: table method requires a table name", repository.ErrValidation)
	case method == models.MethodRPC && tableName != "":
		return fmt.Errorf("%w: table name is only valid with the table method", repository.ErrValidation)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var (
		p           models.Project
		method      string
		tableName   sql.NullString
		enabled     int64
		lastStatus  sql.NullString
		lastChecked sql.NullInt64
	)
	if err := row.Scan(&p.ID, &p.Name, &p.EndpointURL, &p.Credential, &method, &tableName, &enabled, &lastStatus, &lastChecked, &p.Created, &p.Updated); err != nil {
		return nil, err
	}

	p.Method = models.CheckMethod(method)
	p.Enabled = enabled != 0
	if tableName.Valid {
		p.TableName = tableName.String
	}
	if lastStatus.Valid {
		p.LastStatus = lastStatus.String
	}
	if lastChecked.Valid {
		p.LastChecked = lastChecked.Int64
	}
	return &p, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
