package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"karaoke/cmd"
	"karaoke/config"
	"karaoke/logging"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// TestHelper provides utilities for testing the karaoke server
type TestHelper struct {
	Server      *httptest.Server
	TestDataDir string
	App         *cmd.App
	Router      *gin.Engine
}

// NewTestHelper creates a server over a temporary data and static directory
func NewTestHelper(t *testing.T) *TestHelper {
	testDir := t.TempDir()

	// Setup gin in test mode
	gin.SetMode(gin.TestMode)

	helper := &TestHelper{TestDataDir: testDir}
	helper.setupTestData(t)

	cfg := config.Default()
	cfg.Catalogue.DataDir = filepath.Join(testDir, "data")
	cfg.Server.StaticDir = filepath.Join(testDir, "public")

	app := cmd.NewApp(cfg, logging.Discard())
	go app.Hub.Run()

	helper.App = app
	helper.Router = app.Router
	helper.Server = httptest.NewServer(app.Router)

	return helper
}

// Cleanup cleans up test resources
func (h *TestHelper) Cleanup(t *testing.T) {
	if h.Server != nil {
		h.Server.Close()
	}
	if h.App != nil {
		h.App.Hub.Stop()
	}
}

// setupTestData writes small catalogues and static pages
func (h *TestHelper) setupTestData(t *testing.T) {
	h.CreateTestFile(t, "data/karafuncatalog.csv", []byte(strings.Join([]string{
		"Id;Title;Artist;Year;Duo;Explicit;Styles;Languages",
		"101;Bohemian Rhapsody;Queen;1975;0;0;Rock;English",
		"102;Don't Stop Me Now;Queen;1978;0;0;Rock;English",
		"103;Shallow;Lady Gaga;2018;1;0;Pop;English",
		"bad;Broken Row;Nobody;;0;0;;",
	}, "\n")))

	h.CreateTestFile(t, "data/jkaraokecatalog.json", []byte(`[
  {"id": 1, "title": "Yerushalayim Shel Zahav", "title_hebrew": "ירושלים של זהב", "artist": "Naomi Shemer", "artist_id": 7, "collaborators": "", "album": "", "year": 1967, "source": "jkaraoke", "views": 1200},
  {"id": 2, "title": "Hallelujah", "title_hebrew": "הללויה", "artist": "Milk and Honey", "artist_id": 8, "collaborators": "Gali Atari", "album": "Eurovision", "year": null, "source": "jkaraoke"}
]`))
	h.CreateTestFile(t, "data/jkaraoke-popular.json", []byte(`[
  {"id": 2, "title": "Hallelujah", "title_hebrew": "הללויה", "artist": "Milk and Honey", "artist_id": 8, "collaborators": "Gali Atari", "album": "Eurovision", "year": null, "source": "jkaraoke"}
]`))
	h.CreateTestFile(t, "data/karafun-genres.json", []byte(`{"Rock": [101, 102], "Pop": [103]}`))
	h.CreateTestFile(t, "data/jkaraoke-artists.json", []byte(`{"7": {"image": "https://images.example/7.jpg"}}`))

	h.CreateTestFile(t, "public/index.html", []byte("<html>home</html>"))
	h.CreateTestFile(t, "public/guest.html", []byte("<html>guest</html>"))
}

// MakeRequest makes an HTTP request to the test server
func (h *TestHelper) MakeRequest(t *testing.T, method, path string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, h.Server.URL+path, reqBody)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	return resp
}

// GetJSON makes a GET request and unmarshals JSON response
func (h *TestHelper) GetJSON(t *testing.T, path string, target interface{}) *http.Response {
	return h.doJSON(t, http.MethodGet, path, nil, target)
}

// PostJSON makes a POST request with JSON body and unmarshals JSON response
func (h *TestHelper) PostJSON(t *testing.T, path string, requestBody interface{}, target interface{}) *http.Response {
	return h.doJSON(t, http.MethodPost, path, requestBody, target)
}

func (h *TestHelper) doJSON(t *testing.T, method, path string, requestBody interface{}, target interface{}) *http.Response {
	resp := h.MakeRequest(t, method, path, requestBody)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close()

	if target != nil {
		err = json.Unmarshal(body, target)
		require.NoError(t, err, "body: %s", body)
	}

	return resp
}

// ConnectWebSocket connects to a WebSocket endpoint
func (h *TestHelper) ConnectWebSocket(t *testing.T, path string) *websocket.Conn {
	wsURL := "ws" + strings.TrimPrefix(h.Server.URL, "http") + path

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	return conn
}

// CreateTestFile creates a test file with specified content
func (h *TestHelper) CreateTestFile(t *testing.T, relativePath string, content []byte) {
	fullPath := filepath.Join(h.TestDataDir, relativePath)

	err := os.MkdirAll(filepath.Dir(fullPath), 0755)
	require.NoError(t, err)

	err = os.WriteFile(fullPath, content, 0644)
	require.NoError(t, err)
}
