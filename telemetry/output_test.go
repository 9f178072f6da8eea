package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/antmaze/components"
	"github.com/pthm-cable/antmaze/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager, got %v, %v", om, err)
	}
	// All methods are safe on a nil manager
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteTrips([]TripRecord{{}}); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" || om.Close() != nil {
		t.Error("nil manager should be inert")
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i * 600), Deliveries: i}); err != nil {
			t.Fatal(err)
		}
	}
	trips := []TripRecord{
		NewOutboundTrip(10, 1, components.Leg{Seconds: 2.5, Hops: 4}),
		NewReturnTrip(20, 1, components.Leg{Seconds: 1.5, Hops: 4}),
	}
	if err := om.WriteTrips(trips); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteTrips(trips[:1]); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkFirstFood, Tick: 10, Description: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	lines := readLines(t, filepath.Join(dir, "telemetry.csv"))
	if len(lines) != 4 {
		t.Fatalf("telemetry.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,sim_time,seeking") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if strings.Contains(lines[2], "window_end") {
		t.Error("header repeated")
	}

	lines = readLines(t, filepath.Join(dir, "trips.csv"))
	if len(lines) != 4 {
		t.Fatalf("trips.csv has %d lines, want header + 3", len(lines))
	}
	if lines[0] != "tick,ant,kind,seconds,hops" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[2] != "20,1,return,1.5,4" {
		t.Errorf("unexpected row %q", lines[2])
	}

	if lines := readLines(t, filepath.Join(dir, "bookmarks.csv")); len(lines) != 2 {
		t.Errorf("bookmarks.csv has %d lines, want 2", len(lines))
	}
}

func TestOutputManagerManifestAndConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	m := NewManifest(42, 7, 5, 10)
	if _, err := uuid.Parse(m.RunID); err != nil {
		t.Errorf("run id %q is not a uuid: %v", m.RunID, err)
	}
	if err := om.WriteManifest(m); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.Cfg()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var loaded Manifest
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatal(err)
	}
	if loaded.RunID != m.RunID || loaded.Seed != 42 || loaded.MazeWidth != 7 || loaded.Ants != 10 {
		t.Errorf("manifest mismatch: %+v", loaded)
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}
