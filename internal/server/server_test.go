package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/routeviz/bgpmap/pkg/layout"
	"github.com/routeviz/bgpmap/pkg/pipeline"
	"github.com/routeviz/bgpmap/pkg/session"
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

[[links]]
source = "R1"
target = "R2"
network = "10.12.12.0/24"
source_ip = "10.12.12.1/24"
target_ip = "10.12.12.2/24"
source_interface = "Gi0/0"
target_interface = "Gi0/0"
`

func testServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	store, err := session.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(Options{
		Runner:   pipeline.NewRunner(nil, nil, logger),
		Sessions: store,
		Logger:   logger,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Close()
	})
	return srv, ts
}

func createDiagram(t *testing.T, ts *httptest.Server, query string) diagramResponse {
	t.Helper()
	resp, err := http.Post(ts.URL+"/topologies"+query, "application/toml",
		strings.NewReader(sampleTOML))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("create = %d: %s", resp.StatusCode, body)
	}
	var d diagramResponse
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestCreateDiagram(t *testing.T) {
	_, ts := testServer(t)

	d := createDiagram(t, ts, "")
	if d.ID == "" {
		t.Error("diagram id is empty")
	}
	if d.Routers != 2 || d.Edges != 1 || d.Interfaces != 2 {
		t.Errorf("stats = %d routers, %d edges, %d interfaces", d.Routers, d.Edges, d.Interfaces)
	}
	for _, id := range []string{"R1", "R2", "R1_Gi0/0", "R2_Gi0/0", "AS100", "AS200"} {
		if _, ok := d.Positions[id]; !ok {
			t.Errorf("no position for %s", id)
		}
	}
}

func TestCreateDiagramInvalidDocument(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Post(ts.URL+"/topologies", "application/toml",
		strings.NewReader(`[[links]]`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	var e errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatal(err)
	}
	if e.Error.Code == "" {
		t.Error("error code missing")
	}
}

func TestGetPositions(t *testing.T) {
	_, ts := testServer(t)
	d := createDiagram(t, ts, "")

	resp, err := http.Get(fmt.Sprintf("%s/topologies/%s/positions", ts.URL, d.ID))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var positions map[string]layout.Point
	if err := json.NewDecoder(resp.Body).Decode(&positions); err != nil {
		t.Fatal(err)
	}
	if len(positions) != len(d.Positions) {
		t.Errorf("positions = %d, want %d", len(positions), len(d.Positions))
	}
}

func postEvent(t *testing.T, ts *httptest.Server, id string, ev pointerEventRequest) pointerEventResponse {
	t.Helper()
	body, _ := json.Marshal(ev)
	resp, err := http.Post(fmt.Sprintf("%s/topologies/%s/events", ts.URL, id),
		"application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("event = %d: %s", resp.StatusCode, raw)
	}
	var out pointerEventResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestPointerDragMovesNode(t *testing.T) {
	_, ts := testServer(t)
	d := createDiagram(t, ts, "")
	start := d.Positions["R1"]

	down := postEvent(t, ts, d.ID, pointerEventRequest{Type: "down", X: start.X, Y: start.Y})
	if down.Action != "drag_start" || down.Node != "R1" {
		t.Fatalf("down = %+v", down)
	}
	move := postEvent(t, ts, d.ID, pointerEventRequest{Type: "move", X: start.X + 0.3, Y: start.Y - 0.1})
	if move.Action != "drag" {
		t.Fatalf("move = %+v", move)
	}
	up := postEvent(t, ts, d.ID, pointerEventRequest{Type: "up", X: start.X + 0.3, Y: start.Y - 0.1})
	if up.Action != "drag_end" {
		t.Fatalf("up = %+v", up)
	}

	resp, err := http.Get(fmt.Sprintf("%s/topologies/%s/positions", ts.URL, d.ID))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var positions map[string]layout.Point
	if err := json.NewDecoder(resp.Body).Decode(&positions); err != nil {
		t.Fatal(err)
	}
	got := positions["R1"]
	wantX, wantY := start.X+0.3, start.Y-0.1
	if got.X != wantX || got.Y != wantY {
		t.Errorf("R1 = (%v, %v), want (%v, %v)", got.X, got.Y, wantX, wantY)
	}
}

func TestNodeInfo(t *testing.T) {
	_, ts := testServer(t)
	d := createDiagram(t, ts, "")

	tests := []struct {
		node   string
		status int
		info   string
	}{
		{"R1", http.StatusOK, "IOS 15.2, uptime 4d"},
		{"R2", http.StatusOK, "no information available for R2"},
		{"R1_Gi0/0", http.StatusOK, "Gi0/0: 10.12.12.1/24"},
		{"R9", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		resp, err := http.Get(fmt.Sprintf("%s/topologies/%s/nodes/%s/info", ts.URL, d.ID, url.PathEscape(tt.node)))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.node, resp.StatusCode, tt.status)
			resp.Body.Close()
			continue
		}
		if tt.status == http.StatusOK {
			var out map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				t.Fatal(err)
			}
			if out["info"] != tt.info {
				t.Errorf("%s: info = %q, want %q", tt.node, out["info"], tt.info)
			}
		}
		resp.Body.Close()
	}
}

func TestRenderDOT(t *testing.T) {
	_, ts := testServer(t)
	d := createDiagram(t, ts, "")

	resp, err := http.Get(fmt.Sprintf("%s/topologies/%s/render.dot", ts.URL, d.ID))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	dot := string(body)
	if !strings.HasPrefix(dot, "graph G {") {
		t.Errorf("dot does not start with graph header")
	}
	if !strings.Contains(dot, `"R1" -- "R1_Gi0/0"`) {
		t.Errorf("dot missing hierarchy edge:\n%s", dot)
	}
}

func TestSessionSaveAndRestore(t *testing.T) {
	_, ts := testServer(t)
	d := createDiagram(t, ts, "")

	// Drag R1 somewhere specific, then save the arrangement.
	start := d.Positions["R1"]
	postEvent(t, ts, d.ID, pointerEventRequest{Type: "down", X: start.X, Y: start.Y})
	postEvent(t, ts, d.ID, pointerEventRequest{Type: "move", X: 0.7, Y: -0.4})
	postEvent(t, ts, d.ID, pointerEventRequest{Type: "up", X: 0.7, Y: -0.4})

	body, _ := json.Marshal(saveSessionRequest{Name: "my-lab"})
	resp, err := http.Post(fmt.Sprintf("%s/topologies/%s/sessions", ts.URL, d.ID),
		"application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("save session = %d: %s", resp.StatusCode, raw)
	}
	var sess session.Session
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if sess.ID == "" || sess.Name != "my-lab" {
		t.Fatalf("session = %+v", sess)
	}

	// A fresh upload restored from the session pins the dragged position.
	restored := createDiagram(t, ts, "?session="+sess.ID)
	r1 := restored.Positions["R1"]
	saved := sess.Positions["R1"]
	if r1 != saved {
		t.Errorf("restored R1 = %v, want %v", r1, saved)
	}

	// Listing shows the saved session.
	listResp, err := http.Get(ts.URL + "/sessions")
	if err != nil {
		t.Fatal(err)
	}
	defer listResp.Body.Close()
	var sessions []*session.Session
	if err := json.NewDecoder(listResp.Body).Decode(&sessions); err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || sessions[0].ID != sess.ID {
		t.Errorf("sessions = %+v", sessions)
	}
}

func TestDiagramNotFound(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Get(ts.URL + "/topologies/nope/positions")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	_, ts := testServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := testServer(t)
	createDiagram(t, ts, "")

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "bgpmap_") {
		t.Error("metrics exposition missing bgpmap_ series")
	}
}
