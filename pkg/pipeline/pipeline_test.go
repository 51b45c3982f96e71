package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/routeviz/bgpmap/pkg/cache"
)

const sampleTOML = `
title = "lab"

[[routers]]
id = "R1"
as = 100
info = "IOS 15.2, uptime 4d"

  [[routers.interfaces]]
  name = "Gi0/0"
  address = "10.12.12.1/24"

[[routers]]
id = "R2"
as = 200

  [[routers.interfaces]]
  name = "Gi0/0"
  address = "10.12.12.2/24"

[[routers]]
id = "R3"
as = 200

[[links]]
source = "R1"
target = "R2"
network = "10.12.12.0/24"
source_ip = "10.12.12.1/24"
target_ip = "10.12.12.2/24"
source_interface = "Gi0/0"
target_interface = "Gi0/0"

[[links]]
source = "R2"
target = "R3"
network = "10.23.23.0/24"
`

func tomlOptions() Options {
	return Options{
		Data:         []byte(sampleTOML),
		SourceFormat: SourceTOML,
		Formats:      []string{FormatDOT, FormatJSON},
	}
}

func TestExecuteTOML(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), tomlOptions())
	if err != nil {
		t.Fatal(err)
	}

	if result.Stats.RouterCount != 3 {
		t.Errorf("routers = %d, want 3", result.Stats.RouterCount)
	}
	if result.Stats.EdgeCount != 2 {
		t.Errorf("edges = %d, want 2", result.Stats.EdgeCount)
	}
	if result.Stats.InterfaceCount != 2 {
		t.Errorf("interfaces = %d, want 2", result.Stats.InterfaceCount)
	}
	if result.Stats.DroppedEdges != 0 {
		t.Errorf("dropped edges = %d, want 0", result.Stats.DroppedEdges)
	}
	if result.TopologyHash == "" {
		t.Error("topology hash is empty")
	}

	dot, ok := result.Artifacts[FormatDOT]
	if !ok {
		t.Fatal("dot artifact missing")
	}
	if !strings.HasPrefix(string(dot), "graph G {") {
		t.Errorf("dot artifact does not start with graph header: %q", string(dot[:20]))
	}
	if _, ok := result.Artifacts[FormatJSON]; !ok {
		t.Error("json artifact missing")
	}

	// Every router, interface and AS container is positioned.
	for _, id := range []string{"R1", "R2", "R3", "R1_Gi0/0", "R2_Gi0/0", "AS100", "AS200"} {
		if _, ok := result.Positions[id]; !ok {
			t.Errorf("no position for %s", id)
		}
	}
}

func TestExecuteCacheHits(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	ctx := context.Background()
	first, err := runner.Execute(ctx, tomlOptions())
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.ParseHit || first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should be all misses: %+v", first.CacheInfo)
	}

	second, err := runner.Execute(ctx, tomlOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.ParseHit {
		t.Error("second run: parse should hit cache")
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second run: layout should hit cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run: render should hit cache")
	}
	if second.TopologyHash != first.TopologyHash {
		t.Errorf("hash changed across runs: %s vs %s", first.TopologyHash, second.TopologyHash)
	}

	// Refresh bypasses the parse cache.
	refreshOpts := tomlOptions()
	refreshOpts.Refresh = true
	third, err := runner.Execute(ctx, refreshOpts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.ParseHit {
		t.Error("refresh run: parse should not hit cache")
	}
}

func TestExecuteJSONRoundTrip(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()
	ctx := context.Background()

	first, err := runner.Execute(ctx, tomlOptions())
	if err != nil {
		t.Fatal(err)
	}

	// Re-running from the exported JSON pins the saved positions exactly.
	second, err := runner.Execute(ctx, Options{
		Data:         first.Artifacts[FormatJSON],
		SourceFormat: SourceJSON,
		Formats:      []string{FormatJSON},
	})
	if err != nil {
		t.Fatal(err)
	}

	if second.Stats.RouterCount != first.Stats.RouterCount {
		t.Errorf("router count changed: %d vs %d", first.Stats.RouterCount, second.Stats.RouterCount)
	}
	for id, want := range first.Positions {
		got, ok := second.Positions[id]
		if !ok {
			t.Errorf("%s missing after round trip", id)
			continue
		}
		if got != want {
			t.Errorf("%s moved after round trip: %v vs %v", id, got, want)
		}
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()
	ctx := context.Background()

	tests := []struct {
		name string
		opts Options
	}{
		{"no source", Options{Formats: []string{FormatSVG}}},
		{"bad format", Options{Data: []byte(sampleTOML), SourceFormat: SourceTOML, Formats: []string{"pdf"}}},
		{"bad source format", Options{Data: []byte(sampleTOML), SourceFormat: "yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runner.Execute(ctx, tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestExecuteInvalidDocument(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	_, err := runner.Execute(context.Background(), Options{
		Data:         []byte(`{"nodes": [], "edges": [{"data": {"source": "A", "target": "B"}}]}`),
		SourceFormat: SourceJSON,
	})
	if err == nil {
		t.Fatal("expected error for dangling edge")
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{FormatSVG, FormatPNG, FormatDOT, FormatJSON} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v", f, err)
		}
	}
	if err := ValidateFormat("pdf"); err == nil {
		t.Error("ValidateFormat(pdf) should fail")
	}
}

func TestValidateForParseInfersFormat(t *testing.T) {
	opts := Options{Source: "lab.toml"}
	if err := opts.ValidateForParse(); err != nil {
		t.Fatal(err)
	}
	if opts.SourceFormat != SourceTOML {
		t.Errorf("format = %q, want toml", opts.SourceFormat)
	}

	opts = Options{Source: "lab.json"}
	if err := opts.ValidateForParse(); err != nil {
		t.Fatal(err)
	}
	if opts.SourceFormat != SourceJSON {
		t.Errorf("format = %q, want json", opts.SourceFormat)
	}
}
