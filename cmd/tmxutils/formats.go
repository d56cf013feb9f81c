package main

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/eak1mov/go-libtmx/tmx"
)

func deduceFormat(format, filePath string) string {
	if format != "" {
		return format
	}
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite"
	case ".idx", ".index":
		return "index"
	}
	return format
}

func loadMap(filePath string) (*tmx.Map, error) {
	return tmx.Load(filePath, tmx.WithLogger(slog.Default()))
}

// walkTileLayers visits the tile layers of m depth-first. Layers are
// numbered in visiting order.
func walkTileLayers(m *tmx.Map, visitor func(index uint32, layer *tmx.TileLayer) error) error {
	var index uint32
	return m.Layers.Walk(func(l tmx.Layer) error {
		tileLayer, ok := l.(*tmx.TileLayer)
		if !ok {
			return nil
		}
		err := visitor(index, tileLayer)
		index++
		return err
	})
}
