// Package cellindex stores decoded map cells as flat little-endian records.
//
// The format is a plain array of Item values without a header, so it can be
// read from other languages with a single struct definition.
package cellindex

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"
	"slices"

	"github.com/google/hilbert"
)

// Item is one non-empty cell of a tile layer. Layer is the position of the
// layer in depth-first document order.
type Item struct {
	X     uint32
	Y     uint32
	Layer uint32
	GID   uint32
}

var itemSize = binary.Size(Item{})

func WriteAll(items []Item, writer io.Writer) error {
	return binary.Write(writer, binary.LittleEndian, items)
}

// ReadAll decodes every complete record of indexData. A partial trailing
// record is an error.
func ReadAll(indexData []byte) ([]Item, error) {
	if len(indexData)%itemSize != 0 {
		return nil, fmt.Errorf("cellindex: size %d is not a multiple of %d", len(indexData), itemSize)
	}
	items := make([]Item, len(indexData)/itemSize)

	err := binary.Read(bytes.NewReader(indexData), binary.LittleEndian, items)
	if err != nil {
		return nil, err
	}

	return items, nil
}

// FromLayer returns the non-empty cells of a row-major grid of gids.
func FromLayer(layer uint32, gids []uint32, width int) []Item {
	if width <= 0 {
		return nil
	}
	var items []Item
	for i, gid := range gids {
		if gid == 0 {
			continue
		}
		items = append(items, Item{X: uint32(i % width), Y: uint32(i / width), Layer: layer, GID: gid})
	}
	return items
}

// Curve maps cells of a width × height grid to positions on a Hilbert
// curve, so that cells close on the map stay close in the index.
type Curve struct {
	h    *hilbert.Hilbert
	side int
}

// NewCurve returns a curve covering a grid of the given size. The curve
// side is the smallest power of two not less than either dimension.
func NewCurve(width, height int) (*Curve, error) {
	side := 1
	if n := max(width, height); n > 1 {
		side = 1 << bits.Len(uint(n-1))
	}
	h, err := hilbert.NewHilbert(side)
	if err != nil {
		return nil, err
	}
	return &Curve{h: h, side: side}, nil
}

func (c *Curve) Side() int {
	return c.side
}

func (c *Curve) Encode(x, y uint32) (uint64, error) {
	code, err := c.h.MapInverse(int(x), int(y))
	if err != nil {
		return 0, err
	}
	return uint64(code), nil
}

func (c *Curve) Decode(code uint64) (x, y uint32, err error) {
	ix, iy, err := c.h.Map(int(code))
	if err != nil {
		return 0, 0, err
	}
	return uint32(ix), uint32(iy), nil
}

// Sort orders items by layer, then by the curve position of their cell.
func (c *Curve) Sort(items []Item) error {
	codes := make(map[Item]uint64, len(items))
	for _, item := range items {
		code, err := c.Encode(item.X, item.Y)
		if err != nil {
			return fmt.Errorf("cellindex: cell (%d, %d): %w", item.X, item.Y, err)
		}
		codes[item] = code
	}
	slices.SortStableFunc(items, func(a, b Item) int {
		if a.Layer != b.Layer {
			return int(a.Layer) - int(b.Layer)
		}
		ca, cb := codes[a], codes[b]
		switch {
		case ca < cb:
			return -1
		case ca > cb:
			return 1
		}
		return 0
	})
	return nil
}
