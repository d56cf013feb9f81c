package tmx

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/eak1mov/go-libtmx/tmx/spec"
)

// Layer is one of *TileLayer, *ImageLayer, *ObjectGroup or *Group.
type Layer interface {
	Info() *LayerInfo
	layer()
}

// Bit is a "0"/"1" attribute. The zero attribute value is written only for
// false; true is the format's default and is omitted.
type Bit bool

func (b Bit) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	if b {
		return xml.Attr{}, nil
	}
	return xml.Attr{Name: name, Value: "0"}, nil
}

func (b *Bit) UnmarshalXMLAttr(attr xml.Attr) error {
	*b = Bit(parseBit(attr.Value))
	return nil
}

// parseBit reports whether a visibility style attribute is set. Only "0"
// and "false" are false; an absent attribute is true.
func parseBit(value string) bool {
	value = strings.TrimSpace(value)
	return value != "0" && value != "false"
}

// LayerInfo holds the attributes shared by all layer kinds.
type LayerInfo struct {
	ID      int     `xml:"id,attr,omitempty"`
	Name    string  `xml:"name,attr"`
	Class   string  `xml:"class,attr,omitempty"`
	Visible Bit     `xml:"visible,attr"`
	Opacity float64 `xml:"opacity,attr"`
	OffsetX float64 `xml:"offsetx,attr,omitempty"`
	OffsetY float64 `xml:"offsety,attr,omitempty"`
}

func (l *LayerInfo) Info() *LayerInfo { return l }

func defaultLayerInfo() LayerInfo {
	return LayerInfo{Visible: true, Opacity: 1}
}

// TileLayer is a grid of global tile ids, one per map cell, row-major.
type TileLayer struct {
	XMLName xml.Name `xml:"layer"`
	LayerInfo
	Width      int        `xml:"width,attr"`
	Height     int        `xml:"height,attr"`
	Properties Properties `xml:"properties>property,omitempty"`
	Data       spec.Data  `xml:"data"`

	cells  int
	logger *slog.Logger
	tiles  atomic.Pointer[lazyTiles]
	index  propertyCache
}

type lazyTiles struct {
	once sync.Once
	ids  []uint32
	err  error
}

func (*TileLayer) layer() {}

// Cells returns the number of ids the layer decodes to: the owning map's
// width × height, or the layer's own size when it is not part of a map.
func (l *TileLayer) Cells() int {
	if l.cells > 0 {
		return l.cells
	}
	return l.Width * l.Height
}

// Tiles decodes the layer payload on first use and returns the cached ids.
// Concurrent callers share a single decode. The result must not be modified.
func (l *TileLayer) Tiles() ([]uint32, error) {
	lazy := l.tiles.Load()
	if lazy == nil {
		l.tiles.CompareAndSwap(nil, &lazyTiles{})
		lazy = l.tiles.Load()
	}
	lazy.once.Do(func() {
		lazy.ids, lazy.err = spec.DecodeData(&l.Data, l.Cells())
		if lazy.err != nil {
			lazy.err = fmt.Errorf("tmx: layer %q: %w", l.Name, lazy.err)
			return
		}
		if l.logger != nil {
			l.logger.Debug("libtmx: decoded layer", "name", l.Name, "encoding", l.Data.Encoding,
				"compression", l.Data.Compression, "cells", len(lazy.ids))
		}
	})
	return lazy.ids, lazy.err
}

// SetTileData replaces the payload with ids written in the given encoding.
// Only base64 with gzip is supported. The layer is left untouched on error.
// SetTileData must not run concurrently with other calls on the layer.
func (l *TileLayer) SetTileData(ids []uint32, encoding spec.Encoding, compression spec.Compression) error {
	data, err := spec.NewData(ids, encoding, compression)
	if err != nil {
		return fmt.Errorf("tmx: layer %q: %w", l.Name, err)
	}
	l.Data = data

	lazy := &lazyTiles{}
	lazy.once.Do(func() { lazy.ids = append([]uint32(nil), ids...) })
	l.tiles.Store(lazy)
	return nil
}

// PropertyMap returns the cached property index. It must not be modified.
func (l *TileLayer) PropertyMap() map[string]string {
	return l.index.get(l.Properties, "")
}

type ImageLayer struct {
	XMLName xml.Name `xml:"imagelayer"`
	LayerInfo
	Properties Properties `xml:"properties>property,omitempty"`
	Image      *Image     `xml:"image"`

	index propertyCache
}

func (*ImageLayer) layer() {}

func (l *ImageLayer) PropertyMap() map[string]string {
	return l.index.get(l.Properties, "")
}

// ObjectGroup holds freely positioned objects in pixel space.
type ObjectGroup struct {
	XMLName xml.Name `xml:"objectgroup"`
	LayerInfo
	Color      string     `xml:"color,attr,omitempty"`
	DrawOrder  string     `xml:"draworder,attr,omitempty"`
	Properties Properties `xml:"properties>property,omitempty"`
	Objects    []*Object  `xml:"object"`

	index propertyCache
}

func (*ObjectGroup) layer() {}

func (g *ObjectGroup) PropertyMap() map[string]string {
	return g.index.get(g.Properties, "")
}

func (g *ObjectGroup) String() string {
	return g.Name
}

// Group nests layers, including other groups, to any depth.
type Group struct {
	XMLName xml.Name `xml:"group"`
	LayerInfo
	Properties Properties `xml:"properties>property,omitempty"`
	Layers     Layers     `xml:",any"`

	index propertyCache
}

func (*Group) layer() {}

func (g *Group) PropertyMap() map[string]string {
	return g.index.get(g.Properties, "")
}

// Layers is an ordered list of layers at one level of the document tree.
type Layers []Layer

func filterLayers[T Layer](ls Layers) []T {
	var result []T
	for _, l := range ls {
		if typed, ok := l.(T); ok {
			result = append(result, typed)
		}
	}
	return result
}

// TileLayers returns the tile layers of this level in order. Layers inside
// groups are not included.
func (ls Layers) TileLayers() []*TileLayer {
	return filterLayers[*TileLayer](ls)
}

func (ls Layers) ImageLayers() []*ImageLayer {
	return filterLayers[*ImageLayer](ls)
}

func (ls Layers) ObjectGroups() []*ObjectGroup {
	return filterLayers[*ObjectGroup](ls)
}

func (ls Layers) Groups() []*Group {
	return filterLayers[*Group](ls)
}

// Walk visits every layer depth-first, a group before its children.
// It stops at the first error returned by visitor.
func (ls Layers) Walk(visitor func(Layer) error) error {
	for _, l := range ls {
		if err := visitor(l); err != nil {
			return err
		}
		if group, ok := l.(*Group); ok {
			if err := group.Layers.Walk(visitor); err != nil {
				return err
			}
		}
	}
	return nil
}

// UnmarshalXML decodes one child element of a map or group. Elements that
// are not layers are skipped.
func (ls *Layers) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var l Layer
	switch start.Name.Local {
	case "layer":
		l = &TileLayer{LayerInfo: defaultLayerInfo()}
	case "imagelayer":
		l = &ImageLayer{LayerInfo: defaultLayerInfo()}
	case "objectgroup":
		l = &ObjectGroup{LayerInfo: defaultLayerInfo()}
	case "group":
		l = &Group{LayerInfo: defaultLayerInfo()}
	default:
		return d.Skip()
	}
	if err := d.DecodeElement(l, &start); err != nil {
		return err
	}
	*ls = append(*ls, l)
	return nil
}
