package main

import (
	"context"
	"fmt"
	"log"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"

	"navmesh-planner/pkg/config"
	"navmesh-planner/pkg/geometry"
	"navmesh-planner/pkg/jobs"
	"navmesh-planner/pkg/navmesh"
)

// buildTask carries a mesh build through the scheduler.
type buildTask struct {
	obstacles []navmesh.Obstacle
	size      geometry.MapSize
	opts      navmesh.Options

	mesh *navmesh.Mesh
	err  error
}

var buildTasks = jobs.NewRegistry[*buildTask]()

func runBuild(p jobs.Param) {
	task, ok := buildTasks.Lookup(p.(jobs.Handle))
	if !ok {
		return
	}
	task.mesh, task.err = navmesh.Build(task.obstacles, task.size, task.opts)
}

// buildOnScheduler runs one mesh build as a high priority job and waits for
// it, or for ctx.
func buildOnScheduler(ctx context.Context, sched *jobs.Scheduler, task *buildTask) (*navmesh.Mesh, error) {
	h := buildTasks.Register(task)
	defer buildTasks.Release(h)

	job := jobs.NewJob(runBuild, h, jobs.High)
	if err := sched.Kick(job); err != nil {
		return nil, err
	}
	if err := job.JoinContext(ctx); err != nil {
		return nil, err
	}
	if job.Status().Abandoned() > 0 {
		return nil, jobs.ErrClosed
	}
	return task.mesh, task.err
}

// obstaclesFromRings converts raw outlines into obstacles.
func obstaclesFromRings(rings [][]geometry.Coord, tolerance float64) []navmesh.Obstacle {
	converted := make([]orb.Ring, 0, len(rings))
	for _, r := range rings {
		ring := make(orb.Ring, 0, len(r))
		for _, c := range r {
			ring = append(ring, orb.Point{float64(c.X), float64(c.Y)})
		}
		converted = append(converted, ring)
	}
	return navmesh.PrepareObstacles(converted, tolerance)
}

func BuildCmd() *cobra.Command {
	var configFile, obstacles, out string
	c := &cobra.Command{
		Use:   "build",
		Short: "build a navigation mesh from obstacle files and save it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if obstacles != "" {
				cfg.NavMesh.Obstacles = obstacles
			}
			if out != "" {
				cfg.Server.Snapshot = out
			}

			loaded, err := navmesh.LoadObstacles(cfg.NavMesh.Obstacles, cfg.NavMesh.SimplifyTolerance)
			if err != nil {
				return fmt.Errorf("load obstacles: %w", err)
			}

			sched := jobs.New(cfg.Scheduler.Options()...)
			defer sched.Close()

			mesh, err := buildOnScheduler(cmd.Context(), sched, &buildTask{
				obstacles: loaded,
				size:      geometry.MapSize{X: cfg.NavMesh.MapWidth, Y: cfg.NavMesh.MapHeight},
				opts:      cfg.NavMesh.Options(),
			})
			if err != nil {
				return fmt.Errorf("build mesh: %w", err)
			}
			if err := navmesh.SaveSnapshot(mesh.Snapshot(), cfg.Server.Snapshot); err != nil {
				return err
			}
			log.Printf("✅ Navigation mesh written to %s\n", cfg.Server.Snapshot)
			return nil
		},
	}
	c.Flags().StringVar(&configFile, "config", "", "config file (hjson)")
	c.Flags().StringVar(&obstacles, "obstacles", "", "glob of GeoJSON or WKT obstacle files")
	c.Flags().StringVar(&out, "out", "", "snapshot file (.json or .msgpack)")
	return c
}
