// Package spec implements the low-level parts of the TMX format: the tile
// payload codec, global tile id flags and the format's error kinds.
package spec

import (
	"errors"
	"strings"
)

type Encoding uint8

const (
	EncodingUnknown Encoding = iota
	EncodingNone             // per-tile <tile gid=".."/> elements
	EncodingCSV
	EncodingBase64
)

type Compression uint8

const (
	CompressionUnknown Compression = iota
	CompressionNone
	CompressionGzip
	CompressionZlib
	CompressionZstd
)

var (
	ErrUnknownEncoding        = errors.New("unknown encoding")
	ErrUnsupportedCompression = errors.New("compression not supported")
	ErrTruncatedPayload       = errors.New("truncated payload")
	ErrEncodingNotSupported   = errors.New("encoding not supported")
)

// ParseEncoding maps the encoding attribute of a <data> element.
// An absent attribute means EncodingNone.
func ParseEncoding(tag string) Encoding {
	switch strings.TrimSpace(tag) {
	case "":
		return EncodingNone
	case "csv":
		return EncodingCSV
	case "base64":
		return EncodingBase64
	}
	return EncodingUnknown
}

func (e Encoding) String() string {
	switch e {
	case EncodingNone:
		return ""
	case EncodingCSV:
		return "csv"
	case EncodingBase64:
		return "base64"
	}
	return "unknown"
}

// ParseCompression maps the compression attribute of a <data> element.
// An absent attribute means CompressionNone.
func ParseCompression(tag string) Compression {
	switch strings.TrimSpace(tag) {
	case "":
		return CompressionNone
	case "gzip":
		return CompressionGzip
	case "zlib":
		return CompressionZlib
	case "zstd":
		return CompressionZstd
	}
	return CompressionUnknown
}

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return ""
	case CompressionGzip:
		return "gzip"
	case CompressionZlib:
		return "zlib"
	case CompressionZstd:
		return "zstd"
	}
	return "unknown"
}
