package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/forage/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("empty dir should disable output, got %v %v", om, err)
	}
	// Nil manager accepts writes silently
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("nil WriteTelemetry: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 1; i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i * 600), Population: i}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	if err := om.WritePerf(PerfStats{}, 600); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	recs := []LifetimeStats{{ID: 1, AgeTicks: 50, Cause: "starved"}, {ID: 2, AgeTicks: 70, Cause: "lifespan"}}
	if err := om.WriteLifetimes(recs); err != nil {
		t.Fatalf("WriteLifetimes: %v", err)
	}
	if err := om.WriteBookmarks([]Bookmark{{Type: BookmarkExtinction, Tick: 1800, Description: "gone"}}); err != nil {
		t.Fatalf("WriteBookmarks: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	tests := []struct {
		file      string
		lines     int
		headerHas string
	}{
		{"telemetry.csv", 4, "window_end"},
		{"perf.csv", 2, "avg_tick_us"},
		{"lifetimes.csv", 3, "age_ticks"},
		{"bookmarks.csv", 2, "description"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(dir, tt.file))
			if err != nil {
				t.Fatal(err)
			}
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			if len(lines) != tt.lines {
				t.Fatalf("%s has %d lines, want %d", tt.file, len(lines), tt.lines)
			}
			if !strings.Contains(lines[0], tt.headerHas) {
				t.Errorf("header %q missing %q", lines[0], tt.headerHas)
			}
		})
	}
}

func TestOutputManagerMetadata(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	info := RunInfo{RunID: "abc", Seed: 7, StartedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	if err := om.WriteRunInfo(info); err != nil {
		t.Fatalf("WriteRunInfo: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "run.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var got RunInfo
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal run.yaml: %v", err)
	}
	if got.RunID != "abc" || got.Seed != 7 || !got.StartedAt.Equal(info.StartedAt) {
		t.Errorf("run info = %+v, want %+v", got, info)
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
}
