// Package store persists decoded map cells in a SQLite database.
//
// Note: User must properly initialize the sqlite3 library generic driver
// (e.g. import _ "github.com/mattn/go-sqlite3") before using this package.
package store

import (
	"database/sql"
	"errors"
	"log/slog"
)

// Writer fills a new cell database.
type Writer struct {
	db       *sql.DB
	tx       *sql.Tx
	cellStmt *sql.Stmt
	fileStmt *sql.Stmt
	logger   *slog.Logger
}

type writerConfig struct {
	Metadata map[string]string
	Logger   *slog.Logger
}

type WriterOption func(*writerConfig)

// WithMetadata sets name/value pairs stored in the metadata table.
func WithMetadata(metadata map[string]string) WriterOption {
	return func(c *writerConfig) { c.Metadata = metadata }
}

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// NewWriter creates the database schema at filePath. Cells are written in
// a single transaction that is committed by Finalize.
func NewWriter(filePath string, opts ...WriterOption) (*Writer, error) {
	config := writerConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	var err error
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	_, err = db.Exec(`
		CREATE TABLE metadata (name TEXT, value TEXT);
		CREATE TABLE cells (
			layer INTEGER,
			x INTEGER,
			y INTEGER,
			gid INTEGER
		);
		CREATE TABLE files (path TEXT);
	`)
	if err != nil {
		return nil, err
	}

	for k, v := range config.Metadata {
		_, err = db.Exec("INSERT INTO metadata (name, value) VALUES (?, ?)", k, v)
		if err != nil {
			return nil, err
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	cellStmt, err := tx.Prepare("INSERT INTO cells (layer, x, y, gid) VALUES (?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	fileStmt, err := tx.Prepare("INSERT INTO files (path) VALUES (?)")
	if err != nil {
		cellStmt.Close()
		tx.Rollback()
		return nil, err
	}

	return &Writer{db, tx, cellStmt, fileStmt, config.Logger}, nil
}

// Close releases the database. Cells written after the last Finalize are
// discarded.
func (w *Writer) Close() error {
	err := errors.Join(w.cellStmt.Close(), w.fileStmt.Close())
	if w.tx != nil {
		if rbErr := w.tx.Rollback(); !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, rbErr)
		}
	}
	return errors.Join(err, w.db.Close())
}

func (w *Writer) WriteCell(cell Cell) error {
	_, err := w.cellStmt.Exec(cell.Layer, cell.X, cell.Y, cell.GID)
	return err
}

// WriteFile records a file the exported map depends on.
func (w *Writer) WriteFile(path string) error {
	_, err := w.fileStmt.Exec(path)
	return err
}

// Finalize commits written cells and indexes them by position.
func (w *Writer) Finalize() error {
	w.logger.Debug("libtmx: committing cells")
	if err := w.tx.Commit(); err != nil {
		return err
	}

	w.logger.Debug("libtmx: creating index")
	_, err := w.db.Exec("CREATE UNIQUE INDEX cell_index ON cells (layer, x, y)")

	w.logger.Debug("libtmx: done!")
	return err
}
