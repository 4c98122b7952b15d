package tail

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/bft-labs/logtail/internal/domain"
	"github.com/bft-labs/logtail/internal/ports"
)

// watchedFile tracks one file under the watch directory: its open read
// handle, the offset of bytes already consumed, the last observed size, and
// any trailing partial line carried between reads.
type watchedFile struct {
	path   string
	file   afero.File
	offset int64
	size   int64
	carry  []byte
}

// Registry owns the mapping from file path to open read handle and offset.
// It discovers new matching files, removes entries for files that disappear,
// and guarantees every opened handle is released on removal or Close.
//
// File identity is the absolute path. Rotation by in-place truncation is
// detected at read time via the size-below-offset check; rotation by rename
// surfaces as a remove followed by a create across refreshes.
type Registry struct {
	fs     afero.Fs
	dir    string
	files  map[string]*watchedFile
	logger ports.Logger
}

// NewRegistry creates a registry for the given directory. The directory is
// resolved to an absolute path and must exist; otherwise ErrNotADirectory
// is returned.
func NewRegistry(fsys afero.Fs, dir string, logger ports.Logger) (*Registry, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	info, err := fsys.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotADirectory, abs)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotADirectory, abs)
	}
	return &Registry{
		fs:     fsys,
		dir:    abs,
		files:  make(map[string]*watchedFile),
		logger: logger,
	}, nil
}

// Dir returns the absolute watch directory.
func (r *Registry) Dir() string {
	return r.dir
}

// Refresh lists the watch directory, opens newly matching files and drops
// entries whose files are gone. It returns the paths added and removed.
//
// A file that vanishes between listing and opening is treated as not
// present. Any other open failure (permission denied, I/O error) surfaces.
// Existing entries are left untouched; size and truncation checks happen at
// read time, not here.
func (r *Registry) Refresh(extensions map[string]struct{}) (added, removed []string, err error) {
	entries, err := afero.ReadDir(r.fs, r.dir)
	if err != nil {
		return nil, nil, fmt.Errorf("list %s: %w", r.dir, err)
	}

	seen := make(map[string]struct{}, len(entries))
	for _, ent := range entries {
		if !ent.Mode().IsRegular() {
			continue
		}
		if !matchExtension(ent.Name(), extensions) {
			continue
		}
		path := filepath.Join(r.dir, ent.Name())
		seen[path] = struct{}{}
		if _, ok := r.files[path]; ok {
			continue
		}
		f, oerr := r.fs.Open(path)
		if oerr != nil {
			if errors.Is(oerr, fs.ErrNotExist) {
				// Vanished between listing and opening.
				continue
			}
			return added, removed, fmt.Errorf("open %s: %w", path, oerr)
		}
		r.files[path] = &watchedFile{path: path, file: f}
		added = append(added, path)
		r.logger.Debug("tracking file", ports.String("path", path))
	}

	for path, wf := range r.files {
		if _, ok := seen[path]; ok {
			continue
		}
		_ = wf.file.Close()
		delete(r.files, path)
		removed = append(removed, path)
		r.logger.Debug("file gone, untracked", ports.String("path", path))
	}

	return added, removed, nil
}

// Files returns the tracked files in sorted path order. The slice is a
// snapshot; the entries are the live registry records.
func (r *Registry) Files() []*watchedFile {
	paths := make([]string, 0, len(r.files))
	for p := range r.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	out := make([]*watchedFile, len(paths))
	for i, p := range paths {
		out[i] = r.files[p]
	}
	return out
}

// Len returns the number of tracked files.
func (r *Registry) Len() int {
	return len(r.files)
}

// Remove closes and drops the entry for path, if tracked.
func (r *Registry) Remove(path string) {
	wf, ok := r.files[path]
	if !ok {
		return
	}
	_ = wf.file.Close()
	delete(r.files, path)
}

// Close releases every open handle. Safe to call more than once.
func (r *Registry) Close() error {
	var first error
	for path, wf := range r.files {
		if cerr := wf.file.Close(); cerr != nil && first == nil {
			first = cerr
		}
		delete(r.files, path)
	}
	return first
}

// matchExtension reports whether name's extension (the suffix after the
// last '.', case-sensitive) is in the set. An empty set matches everything;
// a name without a dot matches only the empty set.
func matchExtension(name string, extensions map[string]struct{}) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	_, ok := extensions[ext]
	return ok
}
