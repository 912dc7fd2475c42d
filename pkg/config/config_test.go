package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Addr != ":8080" || c.NavMesh.SeedThreshold != 10 || c.Scheduler.ReservedCores != 2 {
		t.Errorf("unexpected defaults: %+v", c)
	}
	if !c.NavMesh.Options().IncludeCorners {
		t.Error("corners are off by default")
	}
}

func TestLoadHjson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "navmesh.hjson")
	data := `{
  # comments and unquoted strings are fine
  scheduler: { workers: 3 }
  navmesh: {
    seedThreshold: 25
    includeCorners: false
  }
  server: { addr: ":9090" }
}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Scheduler.Workers != 3 {
		t.Errorf("workers = %d, want 3", c.Scheduler.Workers)
	}
	opts := c.NavMesh.Options()
	if opts.SeedThreshold != 25 || opts.IncludeCorners {
		t.Errorf("mesh options = %+v", opts)
	}
	if !opts.CascadeLegalization {
		t.Error("unset keys lost their defaults")
	}
	if c.Server.Addr != ":9090" || c.Server.Snapshot != "navmesh.json" {
		t.Errorf("server = %+v", c.Server)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.hjson")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}
