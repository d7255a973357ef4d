package convert

import (
	"bytes"
	"cmp"
	"context"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/mholt/archives"
	"gitlab.com/tozd/go/errors"
)

// entry is one archive member held in memory.
type entry struct {
	name string
	data []byte
	mod  time.Time
}

func (e *entry) Name() string       { return path.Base(e.name) }
func (e *entry) Size() int64        { return int64(len(e.data)) }
func (e *entry) Mode() fs.FileMode  { return 0o644 }
func (e *entry) ModTime() time.Time { return e.mod }
func (e *entry) IsDir() bool        { return false }
func (e *entry) Sys() any           { return nil }

type openEntry struct {
	*entry
	r *bytes.Reader
}

func (f *openEntry) Stat() (fs.FileInfo, error) { return f.entry, nil }
func (f *openEntry) Read(p []byte) (int, error) { return f.r.Read(p) }
func (f *openEntry) Close() error               { return nil }

func (e *entry) fileInfo() archives.FileInfo {
	return archives.FileInfo{
		FileInfo:      e,
		NameInArchive: e.name,
		Open: func() (fs.File, error) {
			return &openEntry{entry: e, r: bytes.NewReader(e.data)}, nil
		},
	}
}

// readArchive loads every regular file of the zip at p.
func readArchive(ctx context.Context, p string) ([]*entry, int64, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, 0, errors.Errorf("open %s: %w", p, err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return nil, 0, errors.Errorf("stat %s: %w", p, err)
	}

	var entries []*entry
	err = archives.Zip{}.Extract(ctx, f, func(ctx context.Context, info archives.FileInfo) error {
		if info.IsDir() {
			return nil
		}
		rc, err := info.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return errors.Errorf("read %s: %w", info.NameInArchive, err)
		}
		entries = append(entries, &entry{name: info.NameInArchive, data: data, mod: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, 0, errors.Errorf("extract %s: %w", p, err)
	}
	return entries, st.Size(), nil
}

// writeArchive writes entries, in order, as a zip at p and returns its size.
func writeArchive(ctx context.Context, p string, entries []*entry) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return 0, errors.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(p)
	if err != nil {
		return 0, errors.Errorf("create %s: %w", p, err)
	}
	defer f.Close()

	files := make([]archives.FileInfo, len(entries))
	for i, e := range entries {
		files[i] = e.fileInfo()
	}
	if err := (archives.Zip{}).Archive(ctx, f, files); err != nil {
		return 0, errors.Errorf("archive %s: %w", p, err)
	}
	st, err := f.Stat()
	if err != nil {
		return 0, errors.Errorf("stat %s: %w", p, err)
	}
	return st.Size(), nil
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

// isScreen1 reports whether name is the main screen's file with extension
// ext, ignoring its directory.
func isScreen1(name, ext string) bool {
	return strings.EqualFold(path.Base(name), "Screen1"+ext)
}

func isSource(name string) bool {
	return hasSuffixFold(name, ".blk") || hasSuffixFold(name, ".scm")
}

// stem drops the extension: "a/b/Screen1.blk" -> "a/b/Screen1".
func stem(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i]
	}
	return name
}

// screenName is the file name without directory or extension.
func screenName(name string) string {
	return path.Base(stem(name))
}

// dirPrefix keeps the directory with its trailing slash.
func dirPrefix(name string) string {
	return name[:strings.LastIndex(name, "/")+1]
}

// compareNames orders project members: Screen1.blk, Screen1.scm, then the
// other screens' sources by screen name with .blk before .scm, then
// .properties files, then everything else by name.
func compareNames(a, b string) int {
	rank := func(n string) int {
		switch {
		case isScreen1(n, ".blk"):
			return 0
		case isScreen1(n, ".scm"):
			return 1
		case isSource(n):
			return 2
		case hasSuffixFold(n, ".properties"):
			return 3
		default:
			return 4
		}
	}
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	if ra == 2 {
		if c := cmp.Compare(screenName(a), screenName(b)); c != 0 {
			return c
		}
	}
	return cmp.Compare(a, b)
}
