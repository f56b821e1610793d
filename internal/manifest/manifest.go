// Package manifest records a BLAKE2b-256 digest of every generated artifact
// so that two runs can be compared byte for byte.
package manifest

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/dmitrijs2005/kvbindgen/internal/common"
)

// Entry describes one artifact. Path is slash-separated and relative to
// the output directory.
type Entry struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	Mode   string `json:"mode"`
	Digest string `json:"blake2b_256"`
}

type Manifest struct {
	Files []Entry `json:"files"`
}

// Build digests files under root. Entries are sorted by path.
func Build(root string, files []string) (*Manifest, error) {
	m := &Manifest{Files: make([]Entry, 0, len(files))}
	for _, f := range files {
		rel := filepath.ToSlash(f)
		full := filepath.Join(root, filepath.FromSlash(rel))

		data, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("manifest: %w", err)
		}
		fi, err := os.Stat(full)
		if err != nil {
			return nil, fmt.Errorf("manifest: %w", err)
		}

		sum := blake2b.Sum256(data)
		m.Files = append(m.Files, Entry{
			Path:   rel,
			Size:   int64(len(data)),
			Mode:   fmt.Sprintf("%04o", fi.Mode().Perm()),
			Digest: hex.EncodeToString(sum[:]),
		})
	}
	sort.Slice(m.Files, func(i, j int) bool { return m.Files[i].Path < m.Files[j].Path })
	return m, nil
}

// Paths returns the recorded paths in manifest order.
func (m *Manifest) Paths() []string {
	out := make([]string, len(m.Files))
	for i, e := range m.Files {
		out[i] = e.Path
	}
	return out
}

// Encode writes m as indented JSON.
func (m *Manifest) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// WriteFile writes m to path.
func (m *Manifest) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	if err := m.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("manifest: %w", err)
	}
	return f.Close()
}

// Load reads a manifest written by WriteFile.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: %s: %w", path, err)
	}
	return &m, nil
}

// Diff lists differences between want and got, one line per path.
func Diff(want, got *Manifest) []string {
	index := make(map[string]Entry, len(got.Files))
	for _, e := range got.Files {
		index[e.Path] = e
	}

	var out []string
	for _, w := range want.Files {
		g, ok := index[w.Path]
		switch {
		case !ok:
			out = append(out, "missing "+w.Path)
		case g.Digest != w.Digest:
			out = append(out, "changed "+w.Path)
		case g.Mode != w.Mode:
			out = append(out, fmt.Sprintf("mode %s: %s -> %s", w.Path, w.Mode, g.Mode))
		}
		delete(index, w.Path)
	}

	extra := make([]string, 0, len(index))
	for p := range index {
		extra = append(extra, "unexpected "+p)
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// Verify rebuilds the manifest for the files listed in want and reports
// any difference as common.ErrManifestMismatch.
func Verify(root string, want *Manifest) error {
	got, err := Build(root, want.Paths())
	if err != nil {
		return err
	}
	if d := Diff(want, got); len(d) > 0 {
		return fmt.Errorf("%w: %s", common.ErrManifestMismatch, strings.Join(d, ", "))
	}
	return nil
}
