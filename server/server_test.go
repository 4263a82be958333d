package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"fenblit/blitboard"
	"fenblit/server"
)

func newTestServer(t *testing.T, cfg server.Config) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(server.New(cfg, zerolog.Nop()).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	var out map[string]interface{}
	data, _ := io.ReadAll(resp.Body)
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("decode response %q: %v", data, err)
		}
	}
	return resp, out
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, server.DefaultConfig())
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("healthz: %d %q", resp.StatusCode, body)
	}
}

func TestDecode(t *testing.T) {
	ts := newTestServer(t, server.DefaultConfig())

	resp, out := postJSON(t, ts.URL+"/v1/decode", `{"fen":"  `+blitboard.FENStartPos+`  "}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if out["fen"] != blitboard.FENStartPos {
		t.Fatalf("fen: %v", out["fen"])
	}
	pos := out["position"].(map[string]interface{})
	if pos["pawns"].(float64) != float64(0x00FF00000000FF00) {
		t.Fatalf("pawns: %v", pos["pawns"])
	}
	if !strings.HasPrefix(out["board"].(string), "r n b q k b n r") {
		t.Fatalf("board: %q", out["board"])
	}
}

func TestDecodeError(t *testing.T) {
	ts := newTestServer(t, server.DefaultConfig())

	resp, out := postJSON(t, ts.URL+"/v1/decode", `{"fen":"8/8/8/8/8/8/8/8 w - - 12a 1"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if out["kind"] != "numeric" || out["field"] != "halfmove clock" || out["offset"].(float64) != 2 {
		t.Fatalf("unexpected error body: %v", out)
	}
	if !strings.HasSuffix(out["diagnostic"].(string), "Halfmove clock could not be parsed.") {
		t.Fatalf("diagnostic: %q", out["diagnostic"])
	}

	resp, _ = postJSON(t, ts.URL+"/v1/decode", `{"fen":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed body: status %d", resp.StatusCode)
	}

	resp, out = postJSON(t, ts.URL+"/v1/decode", `{"fen":""}`)
	if resp.StatusCode != http.StatusUnprocessableEntity || out["kind"] != "empty_input" {
		t.Fatalf("empty record: %d %v", resp.StatusCode, out)
	}
}

func TestEncode(t *testing.T) {
	ts := newTestServer(t, server.DefaultConfig())

	// Kings on e1/e8, clocks out of range.
	body := `{"kings":1152921504606846992,"white":16,"black":1152921504606846976,` +
		`"side_to_move":1,"castling_rights":15,"ep_target":64,"halfmove_clock":300,"fullmove_number":0}`
	resp, out := postJSON(t, ts.URL+"/v1/encode", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if out["fen"] != "4k3/8/8/8/8/8/8/4K3 b - - 100 1" {
		t.Fatalf("fen: %v", out["fen"])
	}

	resp, _ = postJSON(t, ts.URL+"/v1/encode", `{"bogus":1}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown field: status %d", resp.StatusCode)
	}
}

func TestRenderSVG(t *testing.T) {
	ts := newTestServer(t, server.DefaultConfig())

	resp, err := http.Get(ts.URL + "/v1/render.svg?size=32&coords=1&fen=" + url.QueryEscape(blitboard.FENStartPos))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/svg+xml" {
		t.Fatalf("status %d, content type %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !bytes.Contains(body, []byte("<svg")) {
		t.Fatalf("not svg: %s", body)
	}

	for q, want := range map[string]int{
		"":                            http.StatusBadRequest,
		"?fen=8/8":                    http.StatusUnprocessableEntity,
		"?size=2&fen=8/8/8/8/8/8/8/8": http.StatusBadRequest,
	} {
		resp, err := http.Get(ts.URL + "/v1/render.svg" + q)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Errorf("%q: status %d want %d", q, resp.StatusCode, want)
		}
	}
}

func TestMethodAndNotFound(t *testing.T) {
	ts := newTestServer(t, server.DefaultConfig())

	resp, err := http.Get(ts.URL + "/v1/decode")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET /v1/decode: status %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET /nope: status %d", resp.StatusCode)
	}
}

func TestWebsocket(t *testing.T) {
	ts := newTestServer(t, server.DefaultConfig())

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	if err := conn.WriteMessage(websocket.TextMessage, []byte(blitboard.FENStartPos)); err != nil {
		t.Fatalf("write: %v", err)
	}
	var ok map[string]interface{}
	if err := conn.ReadJSON(&ok); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ok["fen"] != blitboard.FENStartPos {
		t.Fatalf("unexpected reply: %v", ok)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("8/8/8/8/8/8/8/8 z")); err != nil {
		t.Fatalf("write: %v", err)
	}
	var bad map[string]interface{}
	if err := conn.ReadJSON(&bad); err != nil {
		t.Fatalf("read: %v", err)
	}
	if bad["kind"] != "field_value" || bad["field"] != "side to move" {
		t.Fatalf("unexpected error reply: %v", bad)
	}
}

func TestWebsocketOrigin(t *testing.T) {
	cfg := server.DefaultConfig()
	cfg.AllowedOrigins = []string{"https://allowed.example"}
	ts := newTestServer(t, cfg)
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/ws"

	h := http.Header{"Origin": {"https://evil.example"}}
	if _, _, err := websocket.DefaultDialer.Dial(wsURL, h); err == nil {
		t.Fatalf("expected rejected origin")
	}
	h = http.Header{"Origin": {"https://allowed.example"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, h)
	if err != nil {
		t.Fatalf("allowed origin: %v", err)
	}
	conn.Close()
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"addr":"127.0.0.1:9000","read_timeout":"3s","allowed_origins":["*"]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := server.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" || time.Duration(cfg.ReadTimeout) != 3*time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if time.Duration(cfg.WriteTimeout) != 10*time.Second || cfg.MaxBodyBytes != 64<<10 {
		t.Fatalf("defaults not kept: %+v", cfg)
	}

	if err := os.WriteFile(path, []byte(`{"read_timeout":5}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := server.LoadConfig(path); err == nil {
		t.Fatalf("expected error for numeric duration")
	}
}
