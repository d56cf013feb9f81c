package store_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/eak1mov/go-libtmx/store"
	"github.com/google/go-cmp/cmp"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func TestWriteRead(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "cells.db")
	metadata := map[string]string{"name": "world", "width": "4"}

	writer, err := store.NewWriter(filePath, store.WithMetadata(metadata))
	require.NoError(t, err)

	cells := []store.Cell{
		{Layer: 0, X: 1, Y: 0, GID: 2},
		{Layer: 0, X: 0, Y: 0, GID: 1},
		{Layer: 1, X: 3, Y: 2, GID: 0x80000066},
		{Layer: 0, X: 0, Y: 1, GID: 5},
	}
	for _, cell := range cells {
		require.NoError(t, writer.WriteCell(cell))
	}
	require.NoError(t, writer.WriteFile("tilesets/terrain.tsx"))
	require.NoError(t, writer.WriteFile("images/objects.png"))
	require.NoError(t, writer.Finalize())
	require.NoError(t, writer.Close())

	reader, err := store.NewReader(filePath)
	require.NoError(t, err)
	defer reader.Close()

	gotMetadata, err := reader.ReadMetadata()
	require.NoError(t, err)
	require.Equal(t, metadata, gotMetadata)

	files, err := reader.ReadFiles()
	require.NoError(t, err)
	require.Equal(t, []string{"tilesets/terrain.tsx", "images/objects.png"}, files)

	gid, err := reader.ReadCell(1, 3, 2)
	require.NoError(t, err)
	require.Equal(t, uint32(0x80000066), gid)

	gid, err = reader.ReadCell(1, 0, 0)
	require.NoError(t, err)
	require.Zero(t, gid)

	var got []store.Cell
	err = reader.VisitCells(func(cell store.Cell) error {
		got = append(got, cell)
		return nil
	})
	require.NoError(t, err)
	want := []store.Cell{cells[1], cells[0], cells[3], cells[2]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("VisitCells() mismatch (-want+got):\n%v", diff)
	}

	errStop := errors.New("stop")
	err = reader.VisitCells(func(store.Cell) error { return errStop })
	require.ErrorIs(t, err, errStop)
}

func TestDuplicateCell(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "cells.db")
	writer, err := store.NewWriter(filePath)
	require.NoError(t, err)
	defer writer.Close()

	require.NoError(t, writer.WriteCell(store.Cell{X: 1, Y: 1, GID: 1}))
	require.NoError(t, writer.WriteCell(store.Cell{X: 1, Y: 1, GID: 2}))
	require.Error(t, writer.Finalize())
}

func TestWriterExistingFile(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "cells.db")
	writer, err := store.NewWriter(filePath)
	require.NoError(t, err)
	require.NoError(t, writer.Finalize())
	require.NoError(t, writer.Close())

	_, err = store.NewWriter(filePath)
	require.Error(t, err)
}
