package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"navmesh-planner/pkg/jobs"
)

func setup(t *testing.T) *httptest.Server {
	t.Helper()
	scheduler = jobs.New(jobs.WithWorkers(2))
	meshMutex.Lock()
	globalMesh = nil
	meshMutex.Unlock()

	srv := httptest.NewServer(routes())
	t.Cleanup(func() {
		srv.Close()
		scheduler.Close()
	})
	return srv
}

func postBuild(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/buildNavMesh", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST /buildNavMesh: %v", err)
	}
	return resp
}

func TestBuildAndFetch(t *testing.T) {
	srv := setup(t)

	resp := postBuild(t, srv, `{
		"mapSize": {"x": 500, "y": 500},
		"obstacles": [[{"x":100,"y":100},{"x":100,"y":150},{"x":150,"y":150},{"x":150,"y":100}]]
	}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var built struct {
		Success      bool `json:"success"`
		NumTriangles int  `json:"numTriangles"`
		NumVertices  int  `json:"numVertices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&built); err != nil {
		t.Fatal(err)
	}
	if !built.Success || built.NumTriangles == 0 || built.NumVertices != 8 {
		t.Errorf("build response = %+v", built)
	}

	lines, err := http.Get(srv.URL + "/getNavMeshLines")
	if err != nil {
		t.Fatal(err)
	}
	defer lines.Body.Close()
	var got struct {
		Lines    [][]map[string]int `json:"lines"`
		NumEdges int                `json:"numEdges"`
	}
	if err := json.NewDecoder(lines.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.NumEdges == 0 || len(got.Lines) != got.NumEdges {
		t.Errorf("lines = %d, numEdges = %d", len(got.Lines), got.NumEdges)
	}

	nodes, err := http.Get(srv.URL + "/getNavMeshNodes")
	if err != nil {
		t.Fatal(err)
	}
	defer nodes.Body.Close()
	if nodes.StatusCode != http.StatusOK {
		t.Errorf("nodes status = %d", nodes.StatusCode)
	}

	again := postBuild(t, srv, `{"mapSize": {"x": 500, "y": 500}}`)
	defer again.Body.Close()
	if again.StatusCode != http.StatusConflict {
		t.Errorf("rebuild without force: status = %d, want 409", again.StatusCode)
	}
}

func TestMeshEndpointsBeforeBuild(t *testing.T) {
	srv := setup(t)

	for _, path := range []string{"/getNavMeshLines", "/getNavMeshNodes"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", path, resp.StatusCode)
		}
	}

	health, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer health.Body.Close()
	var status map[string]interface{}
	json.NewDecoder(health.Body).Decode(&status)
	if status["hasNavMesh"] != false {
		t.Errorf("health = %v", status)
	}
}

func TestBuildRejectsBadInput(t *testing.T) {
	srv := setup(t)

	bad := postBuild(t, srv, `{not json`)
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want 400", bad.StatusCode)
	}

	flat := postBuild(t, srv, `{"mapSize": {"x": 500, "y": 0}}`)
	flat.Body.Close()
	if flat.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("degenerate map: status = %d, want 422", flat.StatusCode)
	}

	get, err := http.Get(srv.URL + "/buildNavMesh")
	if err != nil {
		t.Fatal(err)
	}
	get.Body.Close()
	if get.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /buildNavMesh: status = %d, want 405", get.StatusCode)
	}
}
