package spec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Compress wraps data in the given stream compressor. Only gzip is
// implemented; zlib and zstd are recognized by the format but not available.
func Compress(data []byte, compression Compression) ([]byte, error) {
	if compression == CompressionNone {
		return data, nil
	}

	if err := checkCompression(compression); err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	writer, _ := gzip.NewWriterLevel(&buffer, gzip.BestCompression)

	_, err := writer.Write(data)
	if err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}

	return buffer.Bytes(), nil
}

// Decompress fully unwraps data compressed with the given compressor.
func Decompress(data []byte, compression Compression) ([]byte, error) {
	return DecompressLimit(data, compression, -1)
}

// DecompressLimit is like Decompress but stops after limit output bytes.
// A negative limit reads the whole stream.
func DecompressLimit(data []byte, compression Compression, limit int64) ([]byte, error) {
	if compression == CompressionNone {
		return data, nil
	}

	if err := checkCompression(compression); err != nil {
		return nil, err
	}

	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	defer reader.Close()

	var source io.Reader = reader
	if limit >= 0 {
		source = io.LimitReader(reader, limit)
	}

	result, err := io.ReadAll(source)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}

	return result, nil
}

func checkCompression(compression Compression) error {
	switch compression {
	case CompressionGzip:
		return nil
	case CompressionZlib, CompressionZstd:
		return fmt.Errorf("%w (%v)", ErrUnsupportedCompression, compression)
	}
	return fmt.Errorf("%w: unknown compression", ErrUnsupportedCompression)
}
