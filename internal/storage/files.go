package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shanehull/ratescout/internal/model"
)

var ErrPersist = errors.New("persist failed")

// ReportWriter replaces the report file on every write; readers never see a
// partially written report.
type ReportWriter struct {
	path string
}

func NewReportWriter(path string) *ReportWriter {
	return &ReportWriter{path: path}
}

func (w *ReportWriter) Path() string { return w.path }

func (w *ReportWriter) Write(r *model.RateReport) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode report: %w", ErrPersist, err)
	}
	b = append(b, '\n')
	if err := writeFileAtomic(w.path, b); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// SafeName maps "Tru by Hilton (Beckley)" to "Tru_by_Hilton_Beckley". Letters
// outside ASCII are kept. Distinct names can map to the same result.
func SafeName(s string) string {
	s = strings.Trim(unsafeChars.ReplaceAllString(s, "_"), "_")
	if s == "" {
		return "unnamed"
	}
	return s
}

// hotelKey is the readable hotel name plus a hash of the exact name, so
// "Hotel A" and "Hotel-A" get separate snapshots.
func hotelKey(hotel string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.TrimSpace(hotel)))
	return fmt.Sprintf("%s_%08x", SafeName(hotel), h.Sum32())
}

func SnapshotName(provider, hotel string, label model.Label) string {
	return fmt.Sprintf("debug_%s_%s_%s.json", SafeName(provider), hotelKey(hotel), SafeName(string(label)))
}

// SnapshotWriter stores one raw provider response per (provider, hotel, label).
type SnapshotWriter struct {
	dir string
}

func NewSnapshotWriter(dir string) *SnapshotWriter {
	return &SnapshotWriter{dir: dir}
}

func (w *SnapshotWriter) Dir() string { return w.dir }

func (w *SnapshotWriter) Write(raw model.RawResult, hotel string, label model.Label) (string, error) {
	path := filepath.Join(w.dir, SnapshotName(raw.Provider, hotel, label))

	data := raw.Body
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw.Body, "", "  "); err == nil {
		buf.WriteByte('\n')
		data = buf.Bytes()
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return path, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return path, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return path, nil
}

// SnapshotFilter fields left empty match anything.
type SnapshotFilter struct {
	Provider string
	Hotel    string
	Label    string
}

func (f SnapshotFilter) pattern() string {
	part := func(s string, key func(string) string) string {
		if strings.TrimSpace(s) == "" {
			return "*"
		}
		return key(s)
	}
	return fmt.Sprintf("debug_%s_%s_%s.json",
		part(f.Provider, SafeName), part(f.Hotel, hotelKey), part(f.Label, SafeName))
}

func (w *SnapshotWriter) Match(f SnapshotFilter) ([]string, error) {
	return filepath.Glob(filepath.Join(w.dir, f.pattern()))
}

// Remove deletes the given snapshots and reports how many were removed.
func (w *SnapshotWriter) Remove(paths []string) (int, error) {
	var errs []error
	removed := 0
	for _, p := range paths {
		if err := os.Remove(p); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
