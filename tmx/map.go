// Package tmx reads and writes map documents in the Tiled TMX format.
//
// A Map owns its tilesets, its layer tree and its properties. Derived views
// (decoded tile ids, property indexes) are computed on first access and
// cached by the node they describe, so a parsed document can be shared by
// concurrent readers.
package tmx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/eak1mov/go-libtmx/tmx/spec"
)

var ErrInvalidMap = errors.New("tmx: invalid map document")

type Map struct {
	XMLName         xml.Name   `xml:"map"`
	Version         string     `xml:"version,attr,omitempty"`
	TiledVersion    string     `xml:"tiledversion,attr,omitempty"`
	Orientation     string     `xml:"orientation,attr"`
	RenderOrder     string     `xml:"renderorder,attr,omitempty"`
	Width           int        `xml:"width,attr"`  // cells
	Height          int        `xml:"height,attr"` // cells
	TileWidth       int        `xml:"tilewidth,attr"`
	TileHeight      int        `xml:"tileheight,attr"`
	Infinite        int        `xml:"infinite,attr,omitempty"`
	NextLayerID     int        `xml:"nextlayerid,attr,omitempty"`
	NextObjectID    int        `xml:"nextobjectid,attr,omitempty"`
	BackgroundColor string     `xml:"backgroundcolor,attr,omitempty"`
	Properties      Properties `xml:"properties>property,omitempty"`
	Tilesets        []*Tileset `xml:"tileset"`
	Layers          Layers     `xml:",any"`

	// FileName is the path the document was loaded from, if any.
	FileName string `xml:"-"`

	// Layout is used by TilesetFor to strip flip flags from gids.
	Layout spec.Layout `xml:"-"`

	logger *slog.Logger
	index  propertyCache
}

// Parse reads a map document. Tile payloads are not decoded until
// TileLayer.Tiles or DecodeTiles is called.
func Parse(r io.Reader, opts ...Option) (*Map, error) {
	config := newConfig(opts)

	m := &Map{}
	if err := xml.NewDecoder(r).Decode(m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMap, err)
	}
	if m.Width < 0 || m.Height < 0 {
		return nil, fmt.Errorf("%w: negative size %dx%d", ErrInvalidMap, m.Width, m.Height)
	}

	m.Layout = config.Layout
	m.logger = config.Logger

	cells := m.Width * m.Height
	hasTiles := false
	_ = m.Layers.Walk(func(l Layer) error {
		if tileLayer, ok := l.(*TileLayer); ok {
			tileLayer.cells = cells
			tileLayer.logger = m.logger
			hasTiles = hasTiles || (cells > 0 && !tileLayer.Data.Empty())
		}
		return nil
	})
	if hasTiles && (m.TileWidth <= 0 || m.TileHeight <= 0) {
		return nil, fmt.Errorf("%w: tile size %dx%d", ErrInvalidMap, m.TileWidth, m.TileHeight)
	}

	m.logger.Debug("libtmx: parsed map", "width", m.Width, "height", m.Height,
		"tilesets", len(m.Tilesets), "layers", len(m.Layers))
	return m, nil
}

// Load parses the map document at filePath and records the path in FileName.
func Load(filePath string, opts ...Option) (*Map, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	m, err := Parse(file, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	m.FileName = filePath
	return m, nil
}

// Write serializes the document as indented XML.
func (m *Map) Write(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", " ")
	if err := encoder.Encode(m); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Save writes the document to filePath.
func (m *Map) Save(filePath string) (err error) {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()
	return m.Write(file)
}

// PropertyMap returns the cached property index of the map. A "name" entry
// with value "map" is present unless a property is called "name" in any
// letter case. The map must not be modified.
func (m *Map) PropertyMap() map[string]string {
	return m.index.get(m.Properties, "map")
}

func (m *Map) TileLayers() []*TileLayer     { return m.Layers.TileLayers() }
func (m *Map) ImageLayers() []*ImageLayer   { return m.Layers.ImageLayers() }
func (m *Map) ObjectGroups() []*ObjectGroup { return m.Layers.ObjectGroups() }
func (m *Map) Groups() []*Group             { return m.Layers.Groups() }

// ReferencedFiles lists the files the document depends on: for each
// tileset its external source or else its image, then the values of
// "file" typed properties of the objects in top-level object groups.
// Paths are returned as written, without deduplication.
func (m *Map) ReferencedFiles() []string {
	var files []string
	for _, tileset := range m.Tilesets {
		if file := tileset.ReferencedFile(); file != "" {
			files = append(files, file)
		}
	}
	for _, group := range m.ObjectGroups() {
		for _, object := range group.Objects {
			files = append(files, object.Properties.Files()...)
		}
	}
	return files
}

// TilesetFor returns the tileset a gid belongs to and the gid's id local
// to that tileset. It returns nil for 0 and for gids below every first gid.
func (m *Map) TilesetFor(gid uint32) (*Tileset, uint32) {
	id, _ := m.Layout.Split(gid)
	if id == 0 {
		return nil, 0
	}

	var found *Tileset
	for _, tileset := range m.Tilesets {
		if tileset.FirstGID <= id && (found == nil || tileset.FirstGID > found.FirstGID) {
			found = tileset
		}
	}
	if found == nil {
		return nil, 0
	}
	return found, id - found.FirstGID
}

// DecodeTiles decodes every tile layer of the document, including layers
// nested in groups. A failing layer does not stop the others; all errors
// are joined.
func (m *Map) DecodeTiles() error {
	var errs []error
	_ = m.Layers.Walk(func(l Layer) error {
		if tileLayer, ok := l.(*TileLayer); ok {
			if _, err := tileLayer.Tiles(); err != nil {
				errs = append(errs, err)
			}
		}
		return nil
	})
	return errors.Join(errs...)
}
