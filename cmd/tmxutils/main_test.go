package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/eak1mov/go-libtmx/cellindex"
	"github.com/eak1mov/go-libtmx/internal"
	"github.com/eak1mov/go-libtmx/store"
	"github.com/eak1mov/go-libtmx/tmx"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testdataPath = "../../testdata/maps.tar.gz"

func loadTestMap(t *testing.T, name string) *tmx.Map {
	t.Helper()
	data, err := internal.ReadTestdata(testdataPath, name)
	require.NoError(t, err)
	filePath := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(filePath, data, 0o644))
	m, err := loadMap(filePath)
	require.NoError(t, err)
	return m
}

func TestDeduceFormat(t *testing.T) {
	require.Equal(t, "sqlite", deduceFormat("", "out/cells.db"))
	require.Equal(t, "sqlite", deduceFormat("", "cells.SQLITE"))
	require.Equal(t, "index", deduceFormat("", "cells.idx"))
	require.Equal(t, "index", deduceFormat("index", "cells.db"))
	require.Equal(t, "", deduceFormat("", "cells.txt"))
}

func TestDescribeMap(t *testing.T) {
	m := loadTestMap(t, "world.tmx")

	var buf bytes.Buffer
	require.NoError(t, writeInfo(&buf, []mapInfo{describeMap(m)}))

	var info mapInfo
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &info))
	require.Equal(t, 4, info.Width)
	require.Equal(t, "map", info.Properties["name"])
	require.Len(t, info.Tilesets, 2)
	require.Equal(t, "images/objects.png", info.Tilesets[1].File)
	require.Len(t, info.Layers, 4)
	require.Equal(t, "tiles", info.Layers[0].Kind)
	require.Equal(t, 11, info.Layers[0].Tiles)
	require.Equal(t, 7, info.Layers[2].Objects)

	decor := info.Layers[3]
	require.Equal(t, "group", decor.Kind)
	require.Len(t, decor.Layers, 2)
	require.True(t, decor.Layers[1].Hidden)
	require.Equal(t, "gzip", decor.Layers[1].Layers[0].Compression)
}

func TestDescribeBrokenMap(t *testing.T) {
	m := loadTestMap(t, "broken.tmx")
	info := describeMap(m)
	require.Len(t, info.Layers, 4)
	require.NotEmpty(t, info.Layers[0].Error)
	require.Empty(t, info.Layers[3].Error)
}

func TestRecode(t *testing.T) {
	m := loadTestMap(t, "world.tmx")
	before, err := collectCells(m)
	require.NoError(t, err)

	require.NoError(t, recodeMap(m, nil))
	outputPath := filepath.Join(t.TempDir(), "out.tmx")
	require.NoError(t, m.Save(outputPath))

	recoded, err := loadMap(outputPath)
	require.NoError(t, err)
	err = walkTileLayers(recoded, func(_ uint32, layer *tmx.TileLayer) error {
		require.Equal(t, "base64", layer.Data.Encoding)
		require.Equal(t, "gzip", layer.Data.Compression)
		return nil
	})
	require.NoError(t, err)

	after, err := collectCells(recoded)
	require.NoError(t, err)
	require.Equal(t, before, after)

	require.Error(t, recodeMap(loadTestMap(t, "broken.tmx"), nil))
}

func TestExportSqlite(t *testing.T) {
	m := loadTestMap(t, "world.tmx")
	items, err := collectCells(m)
	require.NoError(t, err)
	require.Len(t, items, 3*11)

	outputPath := filepath.Join(t.TempDir(), "cells.db")
	require.NoError(t, exportSqlite(m, items, outputPath))

	reader, err := store.NewReader(outputPath)
	require.NoError(t, err)
	defer reader.Close()

	metadata, err := reader.ReadMetadata()
	require.NoError(t, err)
	require.Equal(t, "4", metadata["width"])
	require.Equal(t, "map", metadata["name"])

	files, err := reader.ReadFiles()
	require.NoError(t, err)
	require.Equal(t, m.ReferencedFiles(), files)

	gid, err := reader.ReadCell(2, 0, 2)
	require.NoError(t, err)
	require.Equal(t, uint32(0x80000001), gid)

	count := 0
	require.NoError(t, reader.VisitCells(func(store.Cell) error {
		count++
		return nil
	}))
	require.Equal(t, len(items), count)
}

func TestExportIndex(t *testing.T) {
	m := loadTestMap(t, "encodings.tmx")
	items, err := collectCells(m)
	require.NoError(t, err)

	outputPath := filepath.Join(t.TempDir(), "cells.idx")
	require.NoError(t, exportIndex(m, items, outputPath))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	got, err := cellindex.ReadAll(data)
	require.NoError(t, err)
	require.Len(t, got, 3*11)
	for i := 1; i < len(got); i++ {
		require.LessOrEqual(t, got[i-1].Layer, got[i].Layer)
	}
}
