package spec

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/eak1mov/go-libtmx/internal/parallel"
)

// Data is the <data> element of a tile layer. Depending on Encoding the
// payload is either Tiles or the text in Value.
type Data struct {
	Encoding    string     `xml:"encoding,attr,omitempty"`
	Compression string     `xml:"compression,attr,omitempty"`
	Tiles       []DataTile `xml:"tile"`
	Value       string     `xml:",chardata"`
}

type DataTile struct {
	GID string `xml:"gid,attr,omitempty"`
}

const parseChunk = 4096

// Empty reports whether the payload carries neither text nor tile elements.
func (d *Data) Empty() bool {
	return len(d.Tiles) == 0 && strings.TrimSpace(d.Value) == ""
}

// NewData encodes ids into a <data> payload. See EncodeData.
func NewData(ids []uint32, encoding Encoding, compression Compression) (Data, error) {
	value, err := EncodeData(ids, encoding, compression)
	if err != nil {
		return Data{}, err
	}
	return Data{
		Encoding:    encoding.String(),
		Compression: compression.String(),
		Value:       value,
	}, nil
}

// DecodeData returns exactly expected global tile ids from the payload.
// Unparseable ids in element and csv payloads decode to 0. A payload that
// holds fewer than expected ids fails with ErrTruncatedPayload; surplus ids
// are ignored.
func DecodeData(data *Data, expected int) ([]uint32, error) {
	if expected < 0 {
		return nil, fmt.Errorf("invalid cell count %d", expected)
	}

	switch ParseEncoding(data.Encoding) {
	case EncodingNone:
		return decodeElements(data.Tiles, expected)
	case EncodingCSV:
		return decodeCSV(data.Value, expected)
	case EncodingBase64:
		return decodeBase64(data.Value, ParseCompression(data.Compression), expected)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, data.Encoding)
}

// EncodeData produces the text payload for ids. Only base64 over gzip is
// written back; every other combination fails with ErrEncodingNotSupported.
func EncodeData(ids []uint32, encoding Encoding, compression Compression) (string, error) {
	if encoding != EncodingBase64 || compression != CompressionGzip {
		return "", fmt.Errorf("%w: encoding %q, compression %q", ErrEncodingNotSupported, encoding, compression)
	}

	raw := make([]byte, 4*len(ids))
	for i, id := range ids {
		binary.LittleEndian.PutUint32(raw[4*i:], id)
	}

	compressed, err := Compress(raw, compression)
	if err != nil {
		return "", err
	}

	return "\n   " + base64.StdEncoding.EncodeToString(compressed) + "\n", nil
}

func decodeElements(tiles []DataTile, expected int) ([]uint32, error) {
	if len(tiles) < expected {
		return nil, fmt.Errorf("%w: %d tiles for %d cells", ErrTruncatedPayload, len(tiles), expected)
	}
	ids := make([]uint32, expected)
	parallel.Ranges(expected, parseChunk, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			ids[i] = parseGID(tiles[i].GID)
		}
	})
	return ids, nil
}

func decodeCSV(value string, expected int) ([]uint32, error) {
	tokens := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == '\n'
	})
	tokens = dropBlank(tokens)
	if len(tokens) < expected {
		return nil, fmt.Errorf("%w: %d values for %d cells", ErrTruncatedPayload, len(tokens), expected)
	}
	ids := make([]uint32, expected)
	parallel.Ranges(expected, parseChunk, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			ids[i] = parseGID(tokens[i])
		}
	})
	return ids, nil
}

func decodeBase64(value string, compression Compression, expected int) ([]uint32, error) {
	// validate before doing any work on the payload
	if compression != CompressionNone {
		if err := checkCompression(compression); err != nil {
			return nil, err
		}
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(value), ""))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}

	// bytes beyond the expected cells are never read
	raw, err := DecompressLimit(decoded, compression, int64(4*expected)+1)
	if err != nil {
		return nil, err
	}

	if len(raw) < 4*expected {
		return nil, fmt.Errorf("%w: %d bytes for %d cells", ErrTruncatedPayload, len(raw), expected)
	}
	ids := make([]uint32, expected)
	for i := range ids {
		ids[i] = binary.LittleEndian.Uint32(raw[4*i:])
	}
	return ids, nil
}

func parseGID(s string) uint32 {
	gid, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0
	}
	return uint32(gid)
}

func dropBlank(tokens []string) []string {
	result := tokens[:0]
	for _, token := range tokens {
		if strings.TrimSpace(token) != "" {
			result = append(result, token)
		}
	}
	return result
}
