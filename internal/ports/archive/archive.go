package archive

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"barbu/internal/ports"
)

const compressedExt = ".zst"

// Writer stores export documents as files under a directory, optionally
// zstd-compressed.
type Writer struct {
	dir      string
	compress bool
}

func NewWriter(dir string, compress bool) *Writer {
	return &Writer{dir: dir, compress: compress}
}

// WriteExport writes doc as dir/name, or dir/name.zst when compressing.
// The file is written to a temporary name first and renamed into place.
func (w *Writer) WriteExport(ctx context.Context, name string, doc []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid export name %q", name)
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(w.dir, name)
	if w.compress {
		path += compressedExt
	}
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return "", err
	}
	if err := w.write(f, doc); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return path, nil
}

func (w *Writer) write(f *os.File, doc []byte) error {
	if !w.compress {
		_, err := f.Write(doc)
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if _, err := enc.Write(doc); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// ReadExport reads an export file written by WriteExport, decompressing
// .zst files.
func ReadExport(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !strings.HasSuffix(path, compressedExt) {
		return io.ReadAll(f)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	data, err := io.ReadAll(bufio.NewReader(dec))
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return data, nil
}

var _ ports.ExportWriter = (*Writer)(nil)
