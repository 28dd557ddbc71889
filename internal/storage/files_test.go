package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shanehull/ratescout/internal/model"
)

func day(s string) time.Time {
	t, _ := time.Parse(model.DateLayout, s)
	return t
}

func sampleReport() *model.RateReport {
	r := model.NewRateReport(day("2026-10-19"), []model.CheckinDate{
		{Label: model.Today, Date: day("2026-10-19")},
		{Label: model.Tomorrow, Date: day("2026-10-20")},
		{Label: model.Friday, Date: day("2026-10-23")},
	})
	r.Set(model.Today, "Tru by Hilton Beckley", model.Price(129))
	r.Set(model.Today, "Courtyard Beckley", model.Range(120, 150))
	r.Set(model.Tomorrow, "Tru by Hilton Beckley", model.Unavailable)
	r.Set(model.Tomorrow, "Courtyard Beckley", model.Price(118))
	r.Set(model.Friday, "Tru by Hilton Beckley", model.Range(140, 189))
	r.Set(model.Friday, "Courtyard Beckley", model.Unavailable)
	return r
}

func TestReportWriterOverwritesAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "beckley_rates.json")
	w := NewReportWriter(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"stale":true, "padding":"`+strings.Repeat("x", 4096)+`"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	want := sampleReport()
	if err := w.Write(want); err != nil {
		t.Fatalf("Write: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), "stale") {
		t.Error("previous content survived the write")
	}
	if !strings.Contains(string(b), `"Courtyard Beckley": "120-150"`) {
		t.Errorf("report not indented as expected:\n%s", b)
	}

	got, err := ReadReport(path)
	if err != nil {
		t.Fatalf("ReadReport: %v", err)
	}
	if len(got.Checkins) != 3 || got.Checkins[2].String() != "2026-10-23" {
		t.Errorf("checkins = %+v", got.Checkins)
	}
	for i, d := range want.Days {
		if got.Days[i].Label != d.Label {
			t.Errorf("day %d = %s, want %s", i, got.Days[i].Label, d.Label)
		}
		for j, hr := range d.Rates {
			if got.Days[i].Rates[j] != hr {
				t.Errorf("%s[%d] = %+v, want %+v", d.Label, j, got.Days[i].Rates[j], hr)
			}
		}
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestReportWriterFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "data")
	if err := os.WriteFile(blocker, []byte("not a directory"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := NewReportWriter(filepath.Join(blocker, "beckley_rates.json")).Write(sampleReport())
	if !errors.Is(err, ErrPersist) {
		t.Errorf("err = %v, want ErrPersist", err)
	}
}

func TestSnapshotName(t *testing.T) {
	tests := []struct {
		provider, hotel string
		label           model.Label
		want            string
	}{
		{"serpapi", "Courtyard Beckley", model.Today, "debug_serpapi_Courtyard_Beckley_908597df_Today.json"},
		{"expedia", "Tru by Hilton (Beckley) ", model.Friday, "debug_expedia_Tru_by_Hilton_Beckley_b99f856d_Friday.json"},
		{"serpapi", "Best Western/Beckley's", model.Tomorrow, "debug_serpapi_Best_Western_Beckley_s_117b71c7_Tomorrow.json"},
		{"serpapi", "???", model.Today, "debug_serpapi_unnamed_7bcac794_Today.json"},
		{"serpapi", "Café Beckley", model.Today, "debug_serpapi_Café_Beckley_e4717e3e_Today.json"},
	}
	for _, tt := range tests {
		if got := SnapshotName(tt.provider, tt.hotel, tt.label); got != tt.want {
			t.Errorf("SnapshotName(%q) = %q, want %q", tt.hotel, got, tt.want)
		}
	}
}

func TestSnapshotNamesDoNotCollide(t *testing.T) {
	a := SnapshotName("serpapi", "Hotel A", model.Today)
	b := SnapshotName("serpapi", "Hotel-A", model.Today)
	if a == b {
		t.Errorf("both hotels map to %q", a)
	}

	dir := t.TempDir()
	w := NewSnapshotWriter(dir)
	for _, hotel := range []string{"Hotel A", "Hotel-A"} {
		if _, err := w.Write(model.RawResult{Provider: "serpapi", Body: []byte(`{}`)}, hotel, model.Today); err != nil {
			t.Fatal(err)
		}
	}
	if got, _ := w.Match(SnapshotFilter{Hotel: "Hotel A"}); len(got) != 1 || filepath.Base(got[0]) != a {
		t.Errorf("Match(Hotel A) = %v, want [%s]", got, a)
	}
	if all, _ := w.Match(SnapshotFilter{Label: "Today"}); len(all) != 2 {
		t.Errorf("Match(Today) = %v", all)
	}
}

func TestSnapshotWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	w := NewSnapshotWriter(dir)

	path, err := w.Write(model.RawResult{Provider: "serpapi", Body: []byte(`{"hotel_results":[{"price":"$120"}]}`)}, "Courtyard Beckley", model.Today)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	b, _ := os.ReadFile(path)
	if !strings.Contains(string(b), "\n  \"hotel_results\"") {
		t.Errorf("snapshot not indented:\n%s", b)
	}

	// Non-JSON bodies are stored verbatim.
	path, err = w.Write(model.RawResult{Provider: "serpapi", Body: []byte(`<html>oops</html>`)}, "Comfort Inn Beckley", model.Friday)
	if err != nil {
		t.Fatal(err)
	}
	if b, _ := os.ReadFile(path); string(b) != `<html>oops</html>` {
		t.Errorf("verbatim body = %q", b)
	}

	matches, err := w.Match(SnapshotFilter{Hotel: "Courtyard Beckley"})
	if err != nil || len(matches) != 1 {
		t.Fatalf("Match = %v, %v", matches, err)
	}
	all, _ := w.Match(SnapshotFilter{})
	if len(all) != 2 {
		t.Errorf("Match(all) = %v", all)
	}

	n, err := w.Remove(all)
	if err != nil || n != 2 {
		t.Errorf("Remove = %d, %v", n, err)
	}
	if left, _ := w.Match(SnapshotFilter{}); len(left) != 0 {
		t.Errorf("left after remove: %v", left)
	}
}

func TestSnapshotWriterFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "data")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewSnapshotWriter(blocker).Write(model.RawResult{Provider: "serpapi", Body: []byte(`{}`)}, "Courtyard Beckley", model.Today)
	if !errors.Is(err, ErrPersist) {
		t.Errorf("err = %v, want ErrPersist", err)
	}
}

func TestReadReportRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"invalid.json":  `{`,
		"nodate.json":   `{"generated":"yesterday"}`,
		"badrate.json":  `{"generated":"2026-10-19","checkin_dates":{"Today":"2026-10-19"},"rates_by_day":{"Today":{"A":"cheap"}}}`,
		"badcheck.json": `{"generated":"2026-10-19","checkin_dates":{"Today":"soon"}}`,
	}
	for name, body := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadReport(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
