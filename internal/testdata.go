package internal

import (
	"archive/tar"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// ReadTestdata returns the contents of a single file of the archive.
func ReadTestdata(archivePath, fileName string) ([]byte, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, err
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)
	for {
		hdr, err := tarReader.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("%s: %w", fileName, os.ErrNotExist)
		}
		if err != nil {
			return nil, err
		}
		if hdr.Name == fileName {
			return io.ReadAll(tarReader)
		}
	}
}
