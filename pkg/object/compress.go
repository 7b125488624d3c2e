package object

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"go.uber.org/multierr"
)

// compressObject deflates a raw envelope into a zlib stream, the format git
// uses for loose objects.
func compressObject(raw []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("zlib writer: %w", err)
	}
	if _, err := zw.Write(raw); err != nil {
		return nil, multierr.Append(err, zw.Close())
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decompressObject inflates a loose object read from disk.
func decompressObject(compressed []byte) (raw []byte, err error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: zlib reader: %v", ErrCorruptObject, err)
	}
	defer func() {
		err = multierr.Append(err, zr.Close())
	}()

	raw, err = io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %v", ErrCorruptObject, err)
	}
	return raw, nil
}
