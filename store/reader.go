package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// Cell is a non-empty cell of a tile layer.
type Cell struct {
	Layer uint32
	X     uint32
	Y     uint32
	GID   uint32
}

// Reader reads cells and metadata from a database produced by Writer.
type Reader struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// NewReader opens the database at filePath read-only.
//
// The returned Reader must be closed after use to release database resources.
func NewReader(filePath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", filePath))
	if err != nil {
		return nil, err
	}

	stmt, err := db.Prepare("SELECT gid FROM cells WHERE layer = ? AND x = ? AND y = ?")
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Reader{db: db, stmt: stmt}, nil
}

func (r *Reader) Close() error {
	return errors.Join(r.stmt.Close(), r.db.Close())
}

func (r *Reader) ReadMetadata() (map[string]string, error) {
	metadata := make(map[string]string)

	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		metadata[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return metadata, nil
}

// ReadFiles returns the recorded file references in insertion order.
func (r *Reader) ReadFiles() ([]string, error) {
	rows, err := r.db.Query("SELECT path FROM files ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		files = append(files, path)
	}
	return files, rows.Err()
}

// ReadCell returns the gid stored for a cell, or 0 if the cell is empty.
func (r *Reader) ReadCell(layer, x, y uint32) (uint32, error) {
	var gid uint32
	if err := r.stmt.QueryRow(layer, x, y).Scan(&gid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return gid, nil
}

// VisitCells calls visitor for every stored cell ordered by layer and
// row-major position.
func (r *Reader) VisitCells(visitor func(Cell) error) error {
	rows, err := r.db.Query("SELECT layer, x, y, gid FROM cells ORDER BY layer, y, x")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cell Cell
		if err := rows.Scan(&cell.Layer, &cell.X, &cell.Y, &cell.GID); err != nil {
			return err
		}
		if err := visitor(cell); err != nil {
			return err
		}
	}

	return rows.Err()
}
