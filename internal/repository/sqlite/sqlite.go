package sqlite

import (
	"errors"
	"log/slog"
	"time"

	"github.com/garnizeh/keepalive/internal/db"
	"github.com/garnizeh/keepalive/pkg/repository"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Store implements repository.ProjectStore using the internal DB wrapper.
type Store struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure Store implements the public interface.
var _ repository.ProjectStore = (*Store)(nil)

func New(conn *db.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{conn: conn, logger: logger}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

// translateErr maps driver errors onto the repository sentinel taxonomy.
// The only UNIQUE constraint on the projects table is on name, so constraint
// violations mean a duplicate name. Busy/locked codes surface contention from
// an overlapping invocation.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		switch serr.Code() & 0xff {
		case sqlite3.SQLITE_CONSTRAINT:
			return repository.ErrDuplicateName
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return repository.ErrStoreBusy
		}
	}
	return err
}
