package tmx_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eak1mov/go-libtmx/internal"
	"github.com/eak1mov/go-libtmx/tmx"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestReadTileset(t *testing.T) {
	data, err := internal.ReadTestdata(testdataPath, "terrain.tsx")
	require.NoError(t, err)

	tileset, err := tmx.ReadTileset(bytes.NewReader(data))
	require.NoError(t, err)

	want := &tmx.Tileset{
		Name:       "terrain",
		TileWidth:  16,
		TileHeight: 16,
		Spacing:    1,
		Margin:     1,
		TileCount:  100,
		Columns:    10,
		TileOffset: &tmx.TileOffset{X: 0, Y: 4},
		Properties: tmx.Properties{{Name: "Solid", Type: "bool", Value: "true"}},
		Images:     []tmx.Image{{Source: "../images/terrain.png", Width: 171, Height: 171}},
	}
	opts := cmp.Options{
		cmpopts.IgnoreUnexported(tmx.Tileset{}),
		cmpopts.IgnoreFields(tmx.Tileset{}, "XMLName"),
	}
	if diff := cmp.Diff(want, tileset, opts); diff != "" {
		t.Errorf("ReadTileset() mismatch (-want+got):\n%v", diff)
	}
	require.Equal(t, "../images/terrain.png", tileset.ReferencedFile())
	require.Equal(t, "terrain.png", tileset.Image().FileName())
	require.Equal(t, map[string]string{"Solid": "true"}, tileset.PropertyMap())

	filePath := filepath.Join(t.TempDir(), "terrain.tsx")
	require.NoError(t, os.WriteFile(filePath, data, 0o644))
	loaded, err := tmx.LoadTileset(filePath)
	require.NoError(t, err)
	require.Equal(t, tileset.Name, loaded.Name)

	_, err = tmx.ReadTileset(strings.NewReader(`<map/>`))
	require.ErrorIs(t, err, tmx.ErrInvalidMap)
}

func TestTilesetReferencedFile(t *testing.T) {
	testCases := []struct {
		Name    string
		Tileset tmx.Tileset
		Want    string
	}{
		{"Source", tmx.Tileset{Source: "a.tsx", Images: []tmx.Image{{Source: "b.png"}}}, "a.tsx"},
		{"Image", tmx.Tileset{Images: []tmx.Image{{Source: "b.png"}, {Source: "c.png"}}}, "b.png"},
		{"Nothing", tmx.Tileset{}, ""},
	}
	for i := range testCases {
		tc := &testCases[i]
		t.Run(tc.Name, func(t *testing.T) {
			require.Equal(t, tc.Want, tc.Tileset.ReferencedFile())
		})
	}
}

func TestImageFileName(t *testing.T) {
	require.Equal(t, "a.png", (&tmx.Image{Source: `..\img\a.png`}).FileName())
	require.Equal(t, "a.png", (&tmx.Image{Source: "img/a.png"}).FileName())
}
