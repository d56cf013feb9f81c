package tmx

import (
	"encoding/xml"
	"strconv"
	"strings"
	"unicode"

	"github.com/eak1mov/go-libtmx/tmx/spec"
)

type Shape uint8

const (
	ShapeRectangle Shape = iota
	ShapePoint
	ShapeEllipse
	ShapePolygon
	ShapePolyline
)

func (s Shape) String() string {
	switch s {
	case ShapePoint:
		return "point"
	case ShapeEllipse:
		return "ellipse"
	case ShapePolygon:
		return "polygon"
	case ShapePolyline:
		return "polyline"
	}
	return "rectangle"
}

// Point is a polygon or polyline vertex relative to its object's position.
type Point struct {
	X, Y float64
}

// Object is a freely positioned item of an object group. X and Y are in
// pixels and not aligned to cells.
type Object struct {
	ID       int
	Name     string
	Type     string
	GID      *uint32 // set for tile objects
	X, Y     float64
	Width    float64
	Height   float64
	Rotation float64 // degrees, clockwise
	Visible  bool

	// Shape is the marker declared in the document. Points is set for
	// polygons and polylines.
	Shape  Shape
	Points []Point

	Properties Properties

	index propertyCache
}

// Kind returns the geometry the object should be treated as: the declared
// shape, or a point for a rectangle without size.
func (o *Object) Kind() Shape {
	if o.Shape == ShapeRectangle && o.Width == 0 && o.Height == 0 {
		return ShapePoint
	}
	return o.Shape
}

// AbsolutePoints returns Points translated by the object position.
func (o *Object) AbsolutePoints() []Point {
	if o.Points == nil {
		return nil
	}
	result := make([]Point, len(o.Points))
	for i, p := range o.Points {
		result[i] = Point{X: o.X + p.X, Y: o.Y + p.Y}
	}
	return result
}

// Tile splits the gid of a tile object. ok is false for other objects.
func (o *Object) Tile(layout spec.Layout) (id uint32, flags spec.Flags, ok bool) {
	if o.GID == nil {
		return 0, spec.Flags{}, false
	}
	id, flags = layout.Split(*o.GID)
	return id, flags, true
}

// PropertyMap returns the cached property index. A "name" entry holding the
// object name is added when the object is named and no property is called
// "name" in any letter case. The map must not be modified.
func (o *Object) PropertyMap() map[string]string {
	return o.index.get(o.Properties, o.Name)
}

type objectPoints struct {
	Points string `xml:"points,attr"`
}

type objectXML struct {
	XMLName    xml.Name       `xml:"object"`
	ID         int            `xml:"id,attr,omitempty"`
	Name       string         `xml:"name,attr,omitempty"`
	Type       string         `xml:"type,attr,omitempty"`
	Class      string         `xml:"class,attr,omitempty"`
	GID        string         `xml:"gid,attr,omitempty"`
	X          float64        `xml:"x,attr"`
	Y          float64        `xml:"y,attr"`
	Width      float64        `xml:"width,attr,omitempty"`
	Height     float64        `xml:"height,attr,omitempty"`
	Rotation   float64        `xml:"rotation,attr,omitempty"`
	Visible    string         `xml:"visible,attr,omitempty"`
	Properties Properties     `xml:"properties>property,omitempty"`
	Ellipse    *struct{}      `xml:"ellipse"`
	Point      *struct{}      `xml:"point"`
	Polygon    []objectPoints `xml:"polygon"`
	Polyline   []objectPoints `xml:"polyline"`
}

func (o *Object) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var raw objectXML
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}

	o.ID = raw.ID
	o.Name = raw.Name
	o.Type = raw.Type
	if o.Type == "" {
		o.Type = raw.Class
	}
	if raw.GID != "" {
		gid, err := strconv.ParseUint(strings.TrimSpace(raw.GID), 10, 32)
		if err != nil {
			gid = 0
		}
		value := uint32(gid)
		o.GID = &value
	}
	o.X, o.Y = raw.X, raw.Y
	o.Width, o.Height = raw.Width, raw.Height
	o.Rotation = raw.Rotation
	o.Visible = parseBit(raw.Visible)
	o.Properties = raw.Properties

	// points win over markers; malformed points leave the shape undeclared
	o.Shape, o.Points = ShapeRectangle, nil
	if points := firstPoints(raw.Polygon); points != nil {
		o.Shape, o.Points = ShapePolygon, points
	} else if points := firstPoints(raw.Polyline); points != nil {
		o.Shape, o.Points = ShapePolyline, points
	} else if raw.Ellipse != nil {
		o.Shape = ShapeEllipse
	} else if raw.Point != nil {
		o.Shape = ShapePoint
	}
	return nil
}

func (o *Object) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	raw := objectXML{
		ID:         o.ID,
		Name:       o.Name,
		Type:       o.Type,
		X:          o.X,
		Y:          o.Y,
		Width:      o.Width,
		Height:     o.Height,
		Rotation:   o.Rotation,
		Properties: o.Properties,
	}
	if o.GID != nil {
		raw.GID = strconv.FormatUint(uint64(*o.GID), 10)
	}
	if !o.Visible {
		raw.Visible = "0"
	}
	switch o.Shape {
	case ShapeEllipse:
		raw.Ellipse = &struct{}{}
	case ShapePoint:
		raw.Point = &struct{}{}
	case ShapePolygon:
		raw.Polygon = []objectPoints{{Points: FormatPoints(o.Points)}}
	case ShapePolyline:
		raw.Polyline = []objectPoints{{Points: FormatPoints(o.Points)}}
	}
	start.Name = xml.Name{Local: "object"}
	return e.EncodeElement(&raw, start)
}

func firstPoints(elements []objectPoints) []Point {
	if len(elements) == 0 {
		return nil
	}
	return ParsePoints(elements[0].Points)
}

// ParsePoints parses "x1,y1 x2,y2 ..." coordinate pairs. Any malformed
// input yields nil.
func ParsePoints(s string) []Point {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) == 0 || len(fields)%2 != 0 {
		return nil
	}

	points := make([]Point, len(fields)/2)
	for i := range points {
		x, err := strconv.ParseFloat(fields[2*i], 64)
		if err != nil {
			return nil
		}
		y, err := strconv.ParseFloat(fields[2*i+1], 64)
		if err != nil {
			return nil
		}
		points[i] = Point{X: x, Y: y}
	}
	return points
}

func FormatPoints(points []Point) string {
	var sb strings.Builder
	for i, p := range points {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatFloat(p.X, 'g', -1, 64))
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatFloat(p.Y, 'g', -1, 64))
	}
	return sb.String()
}
