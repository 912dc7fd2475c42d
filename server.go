package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/spf13/cobra"

	"navmesh-planner/pkg/config"
	"navmesh-planner/pkg/geometry"
	"navmesh-planner/pkg/jobs"
	"navmesh-planner/pkg/navmesh"
)

type BuildRequest struct {
	MapSize           geometry.MapSize   `json:"mapSize"`
	Obstacles         [][]geometry.Coord `json:"obstacles"`         // Obstacle outlines, hulled before use
	SimplifyTolerance float64            `json:"simplifyTolerance"` // Douglas-Peucker tolerance, 0 disables
	SeedThreshold     int                `json:"seedThreshold,omitempty"`
	SaveToFile        bool               `json:"saveToFile"`
	Force             bool               `json:"force,omitempty"` // Set to true to force rebuild
}

var (
	globalMesh *navmesh.Snapshot
	meshMutex  sync.RWMutex

	scheduler *jobs.Scheduler
	settings  = config.Default()
)

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func currentMesh() *navmesh.Snapshot {
	meshMutex.RLock()
	defer meshMutex.RUnlock()
	return globalMesh
}

// GET /health - Health check endpoint
func healthHandler(w http.ResponseWriter, r *http.Request) {
	mesh := currentMesh()
	numTriangles, numNodes := 0, 0
	if mesh != nil {
		numTriangles = len(mesh.Triangles)
		numNodes = len(mesh.Vertices) + len(mesh.Seeded)
	}

	status := "ready"
	if mesh == nil {
		status = "waiting for navigation mesh"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":       status,
		"hasNavMesh":   mesh != nil,
		"numTriangles": numTriangles,
		"numNodes":     numNodes,
		"workers":      scheduler.Threads(),
	})
}

// POST /buildNavMesh - Triangulate the free space around the given obstacles
func buildNavMeshHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("🗺️  Build NavMesh request received")

	if r.Method != http.MethodPost {
		log.Printf("❌ Method not allowed: %s\n", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req BuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if currentMesh() != nil && !req.Force {
		log.Println("⚠️  Navigation mesh already exists")
		log.Println("========================================")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   "navigation mesh already exists",
			"message": "Mesh is already built. Set 'force: true' to rebuild.",
		})
		return
	}

	// Set defaults
	if req.MapSize.X == 0 && req.MapSize.Y == 0 {
		req.MapSize = geometry.MapSize{X: settings.NavMesh.MapWidth, Y: settings.NavMesh.MapHeight}
	}
	opts := settings.NavMesh.Options()
	if req.SeedThreshold > 0 {
		opts.SeedThreshold = req.SeedThreshold
	}

	log.Printf("   Map: %dx%d\n", req.MapSize.X, req.MapSize.Y)
	log.Printf("   Obstacles: %d polygons\n", len(req.Obstacles))

	mesh, err := buildOnScheduler(r.Context(), scheduler, &buildTask{
		obstacles: obstaclesFromRings(req.Obstacles, req.SimplifyTolerance),
		size:      req.MapSize,
		opts:      opts,
	})
	if err != nil {
		log.Printf("❌ Build failed: %v\n", err)
		status := http.StatusUnprocessableEntity
		if errors.Is(err, jobs.ErrClosed) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, err.Error(), status)
		log.Println("========================================")
		return
	}

	snap := mesh.Snapshot()
	meshMutex.Lock()
	globalMesh = snap
	meshMutex.Unlock()

	if req.SaveToFile {
		if err := navmesh.SaveSnapshot(snap, settings.Server.Snapshot); err != nil {
			log.Printf("⚠️  Failed to save mesh: %v\n", err)
		}
	}

	log.Printf("✅ Navigation mesh built and stored in memory\n")
	log.Println("========================================")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":      true,
		"numTriangles": len(snap.Triangles),
		"numVertices":  len(snap.Vertices),
		"numSeeded":    len(snap.Seeded),
		"numDropped":   len(mesh.Dropped()),
		"numRemoved":   mesh.Removed(),
	})
}

// GET /getNavMeshLines - Get mesh edges as line strings for visualization
func getNavMeshLinesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	mesh := currentMesh()
	if mesh == nil {
		http.Error(w, "Navigation mesh not built. Call /buildNavMesh first", http.StatusBadRequest)
		return
	}

	lines := mesh.Lines()
	log.Printf("📊 Returning %d line segments\n", len(lines))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":      true,
		"lines":        lines,
		"numTriangles": len(mesh.Triangles),
		"numEdges":     len(lines),
	})
}

// GET /getNavMeshNodes - Get mesh vertices and seeded pathing nodes
func getNavMeshNodesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	mesh := currentMesh()
	if mesh == nil {
		http.Error(w, "Navigation mesh not built. Call /buildNavMesh first", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":  true,
		"vertices": mesh.Vertices,
		"seeded":   mesh.Seeded,
		"numNodes": len(mesh.Vertices) + len(mesh.Seeded),
	})
}

func routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/buildNavMesh", corsMiddleware(buildNavMeshHandler))
	mux.HandleFunc("/getNavMeshLines", corsMiddleware(getNavMeshLinesHandler))
	mux.HandleFunc("/getNavMeshNodes", corsMiddleware(getNavMeshNodesHandler))
	mux.HandleFunc("/health", corsMiddleware(healthHandler))
	return mux
}

func ServeCmd() *cobra.Command {
	var configFile string
	c := &cobra.Command{
		Use:   "serve",
		Short: "serve navigation meshes over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			settings = cfg
			return serve()
		},
	}
	c.Flags().StringVar(&configFile, "config", "", "config file (hjson)")
	return c
}

func serve() error {
	log.Println("========================================")
	log.Println("🚀 Navigation Mesh Server")
	log.Println("========================================")

	scheduler = jobs.New(settings.Scheduler.Options()...)
	defer scheduler.Close()
	log.Printf("   Workers: %d of %d CPUs\n", scheduler.Threads(), jobs.CPUCount())

	log.Println("Checking for existing navigation mesh file...")
	if mesh, err := navmesh.LoadSnapshot(settings.Server.Snapshot); err == nil {
		meshMutex.Lock()
		globalMesh = mesh
		meshMutex.Unlock()
		log.Printf("✅ Loaded existing navigation mesh from file\n")
		log.Printf("   Map: %dx%d\n", mesh.MapSize.X, mesh.MapSize.Y)
	} else {
		log.Println("ℹ️  No existing mesh found (this is normal on first run)")
		log.Println("   Call /buildNavMesh to create a new mesh")
	}
	log.Println("")

	log.Printf("Server starting on %s\n", settings.Server.Addr)
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  POST /buildNavMesh       - Build navigation mesh around obstacles")
	log.Println("  GET  /getNavMeshLines    - Get mesh edges for visualization")
	log.Println("  GET  /getNavMeshNodes    - Get mesh vertices and pathing nodes")
	log.Println("  GET  /health             - Check server status")
	log.Println("")
	log.Println("CORS enabled for all origins")
	log.Println("========================================")
	log.Println("")

	return http.ListenAndServe(settings.Server.Addr, routes())
}
