package config

import (
	"fmt"
	"os"

	"github.com/hjson/hjson-go/v4"

	"navmesh-planner/pkg/jobs"
	"navmesh-planner/pkg/navmesh"
)

type Config struct {
	Scheduler Scheduler `json:"scheduler"`
	NavMesh   NavMesh   `json:"navmesh"`
	Server    Server    `json:"server"`
}

// Scheduler sizes the worker pool. Zero workers means one per CPU minus the
// reserved cores.
type Scheduler struct {
	Workers       int `json:"workers"`
	ReservedCores int `json:"reservedCores"`
}

type NavMesh struct {
	MapWidth            int     `json:"mapWidth"`
	MapHeight           int     `json:"mapHeight"`
	SeedThreshold       int     `json:"seedThreshold"`
	IncludeCorners      bool    `json:"includeCorners"`
	CascadeLegalization bool    `json:"cascadeLegalization"`
	RecoverConstraints  bool    `json:"recoverConstraints"`
	SimplifyTolerance   float64 `json:"simplifyTolerance"`
	Obstacles           string  `json:"obstacles"`
}

type Server struct {
	Addr     string `json:"addr"`
	Snapshot string `json:"snapshot"`
}

func Default() *Config {
	opts := navmesh.DefaultOptions()
	return &Config{
		Scheduler: Scheduler{ReservedCores: jobs.DefaultReservedCores},
		NavMesh: NavMesh{
			MapWidth:            500,
			MapHeight:           500,
			SeedThreshold:       opts.SeedThreshold,
			IncludeCorners:      opts.IncludeCorners,
			CascadeLegalization: opts.CascadeLegalization,
			RecoverConstraints:  opts.RecoverConstraints,
			Obstacles:           "obstacles/*.geojson",
		},
		Server: Server{Addr: ":8080", Snapshot: "navmesh.json"},
	}
}

// Load reads an hjson file over the defaults. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	fileData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(fileData) >= 3 && fileData[0] == 0xEF && fileData[1] == 0xBB && fileData[2] == 0xBF {
		fileData = fileData[3:]
	}
	if err := hjson.Unmarshal(fileData, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// Options converts the mesh section into builder options.
func (n NavMesh) Options() navmesh.Options {
	return navmesh.Options{
		SeedThreshold:       n.SeedThreshold,
		IncludeCorners:      n.IncludeCorners,
		CascadeLegalization: n.CascadeLegalization,
		RecoverConstraints:  n.RecoverConstraints,
	}
}

// Options converts the scheduler section into scheduler options.
func (s Scheduler) Options() []jobs.Option {
	return []jobs.Option{jobs.WithWorkers(s.Workers), jobs.WithReservedCores(s.ReservedCores)}
}
