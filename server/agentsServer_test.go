package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"citytraffic/simulator"
)

var testMap = []string{
	" D ",
	">^ ",
	" ^ ",
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	params := simulator.DefaultParams()
	params.SpawnEvery = 0
	ts := httptest.NewServer(NewServer(testMap, params).Routes())
	t.Cleanup(ts.Close)
	return ts
}

func postInit(t *testing.T, ts *httptest.Server) map[string]string {
	t.Helper()
	resp, err := http.Post(ts.URL+"/init", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("init: status %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("init decode: %v", err)
	}
	return body
}

func TestQueriesRequireInit(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/getAgents", "/getCars", "/getTrafficLights", "/getCounters", "/update"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s before init: expected 400, got %d", path, resp.StatusCode)
		}
	}
}

func TestInitAndUpdate(t *testing.T) {
	ts := newTestServer(t)

	body := postInit(t, ts)
	if body["runId"] == "" {
		t.Error("init response missing runId")
	}

	resp, err := http.Get(ts.URL + "/update")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	defer resp.Body.Close()
	var update struct {
		Tick int `json:"tick"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&update); err != nil {
		t.Fatalf("update decode: %v", err)
	}
	if update.Tick != 1 {
		t.Errorf("expected tick 1 after one update, got %d", update.Tick)
	}

	// A second init starts a fresh run.
	second := postInit(t, ts)
	if second["runId"] == body["runId"] {
		t.Error("re-init should issue a new run id")
	}
}

func TestGetAgentsSnapshot(t *testing.T) {
	ts := newTestServer(t)
	postInit(t, ts)

	resp, err := http.Get(ts.URL + "/getAgents")
	if err != nil {
		t.Fatalf("getAgents: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Agents []struct {
			ID   string  `json:"id"`
			Type string  `json:"type"`
			X    int     `json:"x"`
			Y    float64 `json:"y"`
			Z    int     `json:"z"`
		} `json:"agents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	kinds := map[string]int{}
	for _, a := range body.Agents {
		kinds[a.Type]++
	}
	// The test map has three lane cells and one destination.
	if kinds["Road"] != 3 {
		t.Errorf("expected 3 road agents, got %d", kinds["Road"])
	}
	if kinds["Destination"] != 1 {
		t.Errorf("expected 1 destination agent, got %d", kinds["Destination"])
	}
}

func TestGetCountersIncludesRunID(t *testing.T) {
	ts := newTestServer(t)
	init := postInit(t, ts)

	resp, err := http.Get(ts.URL + "/getCounters")
	if err != nil {
		t.Fatalf("getCounters: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		RunID    string `json:"runId"`
		Counters struct {
			Tick int `json:"Tick"`
		} `json:"counters"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.RunID != init["runId"] {
		t.Errorf("counters runId %q does not match init %q", body.RunID, init["runId"])
	}
}
