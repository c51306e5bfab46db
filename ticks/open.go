package ticks

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error { return r.close() }

// Open opens a tick file, decompressing .zst, .xz and .lzma files on the fly.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		d, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd %s: %w", path, err)
		}
		return readCloser{Reader: d, close: func() error {
			d.Close()
			return f.Close()
		}}, nil

	case ".xz":
		x, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("xz %s: %w", path, err)
		}
		return readCloser{Reader: x, close: f.Close}, nil

	case ".lzma":
		l, err := lzma.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("lzma %s: %w", path, err)
		}
		return readCloser{Reader: l, close: f.Close}, nil
	}

	return f, nil
}
