package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"banking-chatbot/internal/chatbot/catalog"
	"banking-chatbot/internal/chatbot/classifier"
	"banking-chatbot/internal/chatbot/classifier/classifiertest"
	"banking-chatbot/internal/chatbot/predictor"
	"banking-chatbot/internal/chatbot/responder"
	"banking-chatbot/internal/chatbot/session"
	"banking-chatbot/internal/common/config"
	"banking-chatbot/internal/common/logger"
)

type testEnv struct {
	server *Server
	store  *session.MemoryStore
}

func newTestEnv(t *testing.T, cls classifier.IntentClassifier, origins ...string) *testEnv {
	t.Helper()
	log := logger.NewTestLogger(t)
	store := session.NewMemoryStore()

	var pred *predictor.Predictor
	if cls != nil {
		pred = predictor.New(cls, predictor.WithLogger(log))
	} else {
		pred = predictor.New(nil)
	}
	resp := responder.New(cls, store, responder.WithLogger(log))

	s := New(config.ServerConfig{AllowedOrigins: origins, MaxMessageBytes: 1024}, pred, resp, log)
	s.now = func() time.Time { return time.Date(2024, 10, 29, 20, 5, 21, 0, time.UTC) }
	return &testEnv{server: s, store: store}
}

func postChat(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChat_Success(t *testing.T) {
	env := newTestEnv(t, classifiertest.NewAdapter(t))
	h := env.server.Handler()

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "greeting",
			body: `{"message":"Hi"}`,
			want: `{"category":"custom","response":"Hello, valued client!"}`,
		},
		{
			name: "classified",
			body: `{"message":"My card was swallowed"}`,
			want: `{"category":18,"response":` + mustJSON(t, catalog.Resolve(18)) + `}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postChat(t, h, tt.body)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestChat_ClientErrors(t *testing.T) {
	env := newTestEnv(t, classifiertest.NewAdapter(t))
	h := env.server.Handler()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty body", ``, "No data provided"},
		{"not json", `message=hi`, "No data provided"},
		{"empty object", `{}`, "No data provided"},
		{"array", `["hi"]`, "No data provided"},
		{"missing message", `{"text":"hi"}`, "No message provided"},
		{"empty message", `{"message":""}`, "No message provided"},
		{"non string message", `{"message":42}`, "No message provided"},
		{"too large", `{"message":"` + strings.Repeat("a", 2048) + `"}`, "Message too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postChat(t, h, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body["error"])
		})
	}
}

func TestChat_NotInitialized(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := postChat(t, env.server.Handler(), `{"message":"hello"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"Chatbot not initialized properly"`)
}

func TestChat_PredictionFailed(t *testing.T) {
	env := newTestEnv(t, &classifiertest.Stub{Err: assert.AnError})

	rec := postChat(t, env.server.Handler(), `{"message":"where is my card"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"Prediction failed"`)
}

func TestChat_WrongMethod(t *testing.T) {
	env := newTestEnv(t, classifiertest.NewAdapter(t))
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth_IndependentOfModel(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","timestamp":"2024-10-29T20:05:21Z"}`, rec.Body.String())
}

func TestReady(t *testing.T) {
	for _, tt := range []struct {
		name string
		cls  classifier.IntentClassifier
		want int
	}{
		{"model loaded", &classifiertest.Stub{}, http.StatusOK},
		{"no model", nil, http.StatusServiceUnavailable},
	} {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.cls)
			rec := httptest.NewRecorder()
			env.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, classifiertest.NewAdapter(t))
	h := env.server.Handler()
	postChat(t, h, `{"message":"Hi"}`)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "chatbot_predictions_total")
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t, classifiertest.NewAdapter(t), "https://bank.example")
	h := env.server.Handler()

	preflight := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	preflight.Header.Set("Origin", "https://bank.example")
	preflight.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, preflight)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://bank.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")

	other := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	other.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_AllowAllByDefault(t *testing.T) {
	env := newTestEnv(t, classifiertest.NewAdapter(t))
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func dialChat(t *testing.T, srv *httptest.Server, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat"
	return websocket.DefaultDialer.Dial(url, header)
}

func exchange(t *testing.T, conn *websocket.Conn, text string) string {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(text)))
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msgType, reply, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, msgType)
	return string(reply)
}

func TestWebsocket_Conversation(t *testing.T) {
	env := newTestEnv(t, classifiertest.NewAdapter(t))
	srv := httptest.NewServer(env.server.Handler())
	defer srv.Close()

	conn, _, err := dialChat(t, srv, nil)
	require.NoError(t, err)

	assert.Equal(t, "Hello, valued client!", exchange(t, conn, "hello"))
	assert.Equal(t, responder.CardIssues.Template(responder.StageInitial), exchange(t, conn, "My card was swallowed"))
	assert.Equal(t, responder.CardIssues.Template(responder.StageFollowUp1), exchange(t, conn, "still swallowed card"))

	n, _ := env.store.Len(context.Background())
	assert.Equal(t, 1, n)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()

	// The session is discarded once the connection ends.
	assert.Eventually(t, func() bool {
		n, _ := env.store.Len(context.Background())
		return n == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWebsocket_SessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t, classifiertest.NewAdapter(t))
	srv := httptest.NewServer(env.server.Handler())
	defer srv.Close()

	a, _, err := dialChat(t, srv, nil)
	require.NoError(t, err)
	defer a.Close()
	b, _, err := dialChat(t, srv, nil)
	require.NoError(t, err)
	defer b.Close()

	initial := responder.TransferMoney.Template(responder.StageInitial)
	assert.Equal(t, initial, exchange(t, a, "transfer money"))
	assert.Equal(t, initial, exchange(t, b, "transfer money"))
	assert.Equal(t, responder.TransferMoney.Template(responder.StageFollowUp1), exchange(t, a, "transfer money"))
}

func TestWebsocket_RejectsDisallowedOrigin(t *testing.T) {
	env := newTestEnv(t, classifiertest.NewAdapter(t), "https://bank.example")
	srv := httptest.NewServer(env.server.Handler())
	defer srv.Close()

	_, resp, err := dialChat(t, srv, http.Header{"Origin": []string{"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := dialChat(t, srv, http.Header{"Origin": []string{"https://bank.example"}})
	require.NoError(t, err)
	conn.Close()
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	env := newTestEnv(t, &classifiertest.Stub{})
	env.server.cfg.Address = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.server.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
