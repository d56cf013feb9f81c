package tmx

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// Image references a picture file by its path relative to the document.
type Image struct {
	Source string `xml:"source,attr"`
	Trans  string `xml:"trans,attr,omitempty"`
	Width  int    `xml:"width,attr,omitempty"`
	Height int    `xml:"height,attr,omitempty"`
}

// FileName returns the last element of Source. Both '/' and '\' separate
// elements since documents are written on either platform.
func (i *Image) FileName() string {
	return path.Base(strings.ReplaceAll(i.Source, "\\", "/"))
}

type TileOffset struct {
	X int `xml:"x,attr"`
	Y int `xml:"y,attr"`
}

// Tileset is either a reference to an external .tsx document (Source) or
// an embedded tileset built from a single image.
type Tileset struct {
	XMLName    xml.Name    `xml:"tileset"`
	FirstGID   uint32      `xml:"firstgid,attr,omitempty"`
	Source     string      `xml:"source,attr,omitempty"`
	Name       string      `xml:"name,attr,omitempty"`
	TileWidth  int         `xml:"tilewidth,attr,omitempty"`
	TileHeight int         `xml:"tileheight,attr,omitempty"`
	Spacing    int         `xml:"spacing,attr,omitempty"`
	Margin     int         `xml:"margin,attr,omitempty"`
	TileCount  int         `xml:"tilecount,attr,omitempty"`
	Columns    int         `xml:"columns,attr,omitempty"`
	TileOffset *TileOffset `xml:"tileoffset"`
	Properties Properties  `xml:"properties>property,omitempty"`
	Images     []Image     `xml:"image"`

	index propertyCache
}

// Image returns the first image of an embedded tileset, or nil.
func (t *Tileset) Image() *Image {
	if len(t.Images) == 0 {
		return nil
	}
	return &t.Images[0]
}

// ReferencedFile returns the external source if set, otherwise the path
// of the embedded image. It returns "" if the tileset references nothing.
func (t *Tileset) ReferencedFile() string {
	if t.Source != "" {
		return t.Source
	}
	if image := t.Image(); image != nil {
		return image.Source
	}
	return ""
}

// PropertyMap returns the cached property index. It must not be modified.
func (t *Tileset) PropertyMap() map[string]string {
	return t.index.get(t.Properties, "")
}

// ReadTileset parses a standalone tileset (.tsx) document.
func ReadTileset(r io.Reader) (*Tileset, error) {
	tileset := &Tileset{}
	if err := xml.NewDecoder(r).Decode(tileset); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMap, err)
	}
	return tileset, nil
}

func LoadTileset(filePath string) (*Tileset, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadTileset(file)
}
