package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"
)

// BaseURL points at a running API instance. Tests are skipped unless
// SETTLE_API_BASE_URL is set, e.g. http://localhost:8080
var BaseURL = os.Getenv("SETTLE_API_BASE_URL")

func TestMain(m *testing.M) {
	if BaseURL != "" {
		// 等待服务启动
		time.Sleep(2 * time.Second)
	}
	os.Exit(m.Run())
}

func requireAPI(t *testing.T) {
	t.Helper()
	if BaseURL == "" {
		t.Skip("SETTLE_API_BASE_URL not set; skipping integration tests")
	}
}

// doJSON sends a request with actor headers and an optional JSON body
func doJSON(t *testing.T, method, path string, body interface{}, actorID, permission string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, BaseURL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-Id", actorID)
	req.Header.Set("X-Actor-Permission", permission)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
