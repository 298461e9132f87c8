package api

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/secularbird/assidenter/adapters/asr"
	"github.com/secularbird/assidenter/adapters/llm"
	"github.com/secularbird/assidenter/adapters/tts"
	"github.com/secularbird/assidenter/domain"
	"github.com/secularbird/assidenter/internal/auth"
	"github.com/secularbird/assidenter/internal/models"
	"github.com/secularbird/assidenter/internal/websocket"
	"github.com/secularbird/assidenter/usecase"
)

// testServer wires real clients against httptest service stubs, the
// configure_services path pointing them at the stubs.
type testServer struct {
	api      *httptest.Server
	asrCalls *int
	llmCalls *int
	ttsCalls *int
}

func newTestServer(t *testing.T, asrHandler, llmHandler, ttsHandler http.HandlerFunc) *testServer {
	t.Helper()

	var asrCalls, llmCalls, ttsCalls int
	count := func(n *int, h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			*n++
			if h != nil {
				h(w, r)
			}
		}
	}

	asrStub := httptest.NewServer(count(&asrCalls, asrHandler))
	llmStub := httptest.NewServer(count(&llmCalls, llmHandler))
	ttsStub := httptest.NewServer(count(&ttsCalls, ttsHandler))
	t.Cleanup(asrStub.Close)
	t.Cleanup(llmStub.Close)
	t.Cleanup(ttsStub.Close)

	logger := zap.NewNop()
	hub := websocket.NewHub(logger)
	go hub.Run()

	registry := usecase.NewRegistry(
		asr.NewWhisperClient(asr.DefaultConfig(), logger),
		llm.NewOpenAIClient(llm.DefaultConfig(), logger),
		tts.NewVoxCPMClient(tts.DefaultConfig(), logger),
		hub,
		nil,
		logger,
	)
	registry.ConfigureServices(asrStub.URL, llmStub.URL, ttsStub.URL)

	e := echo.New()
	handler := NewHandler(registry, hub, auth.New("test-secret"), models.NewManager(t.TempDir()), "shared", logger)
	handler.InitRoutes(e)

	apiServer := httptest.NewServer(e)
	t.Cleanup(apiServer.Close)

	return &testServer{
		api:      apiServer,
		asrCalls: &asrCalls,
		llmCalls: &llmCalls,
		ttsCalls: &ttsCalls,
	}
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, respBody
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func TestProcessAudioEmptyTranscription(t *testing.T) {
	ts := newTestServer(t,
		jsonHandler(`{"text": ""}`),
		jsonHandler(`{"choices":[{"message":{"content":"never"},"finish_reason":"stop"}]}`),
		jsonHandler(`{"audio":""}`),
	)

	audio := base64.StdEncoding.EncodeToString([]byte("silence"))
	resp, body := doJSON(t, http.MethodPost, ts.api.URL+"/api/v1/audio", `{"audio":"`+audio+`"}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var result domain.TurnResult
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.Status != domain.TurnStatusEmpty {
		t.Errorf("status = %q, want empty", result.Status)
	}
	if result.Transcription == nil || *result.Transcription != "" {
		t.Errorf("transcription = %v, want Some(\"\")", result.Transcription)
	}
	if result.Response != nil {
		t.Errorf("response = %v, want nil", result.Response)
	}
	if result.AudioReady {
		t.Error("audio_ready = true, want false")
	}

	// Exactly one outbound HTTP call, to the ASR endpoint only.
	if *ts.asrCalls != 1 || *ts.llmCalls != 0 || *ts.ttsCalls != 0 {
		t.Errorf("calls asr=%d llm=%d tts=%d, want 1 0 0", *ts.asrCalls, *ts.llmCalls, *ts.ttsCalls)
	}
}

func TestProcessAudioFullTurn(t *testing.T) {
	ts := newTestServer(t,
		jsonHandler(`{"text": "hi"}`),
		jsonHandler(`{"choices":[{"message":{"content":"hello"},"finish_reason":"stop"}]}`),
		jsonHandler(`{"audio":"`+base64.StdEncoding.EncodeToString([]byte{1, 2})+`"}`),
	)

	audio := base64.StdEncoding.EncodeToString([]byte("speech"))
	resp, body := doJSON(t, http.MethodPost, ts.api.URL+"/api/v1/audio", `{"audio":"`+audio+`"}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var result domain.TurnResult
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.Status != domain.TurnStatusComplete || !result.AudioReady {
		t.Errorf("result = %+v, want complete with audio", result)
	}
	if *ts.asrCalls != 1 || *ts.llmCalls != 1 || *ts.ttsCalls != 1 {
		t.Errorf("calls asr=%d llm=%d tts=%d, want 1 1 1", *ts.asrCalls, *ts.llmCalls, *ts.ttsCalls)
	}
}

func TestProcessAudioBadBase64(t *testing.T) {
	ts := newTestServer(t, nil, nil, nil)

	resp, _ := doJSON(t, http.MethodPost, ts.api.URL+"/api/v1/audio", `{"audio":"%%%"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if *ts.asrCalls != 0 {
		t.Errorf("asr calls = %d, want 0", *ts.asrCalls)
	}
}

func TestSendMessageLLMFailure(t *testing.T) {
	ts := newTestServer(t, nil,
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		nil,
	)

	resp, body := doJSON(t, http.MethodPost, ts.api.URL+"/api/v1/messages", `{"message":"hi"}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if errResp.Error != "service_error" {
		t.Errorf("error code = %q, want service_error", errResp.Error)
	}
	if *ts.ttsCalls != 0 {
		t.Errorf("tts calls = %d, want 0 after LLM failure", *ts.ttsCalls)
	}
}

func TestListeningLifecycle(t *testing.T) {
	ts := newTestServer(t, nil, nil, nil)
	base := ts.api.URL + "/api/v1/listening"

	resp, body := doJSON(t, http.MethodGet, base, "")
	var listening ListeningResponse
	json.Unmarshal(body, &listening)
	if resp.StatusCode != http.StatusOK || listening.Listening {
		t.Fatalf("initial listening = %v status %d, want false 200", listening.Listening, resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, base+"/start", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("start status = %d, want 204", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, base+"/start", "")
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("double start status = %d, want 409", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, base+"/stop", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("stop status = %d, want 204", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, base+"/start", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("restart status = %d, want 204", resp.StatusCode)
	}
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t, nil, nil, nil)

	resp, _ := doJSON(t, http.MethodPost, ts.api.URL+"/api/v1/auth", `{"secret":"wrong"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("wrong secret status = %d, want 401", resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodPost, ts.api.URL+"/api/v1/auth", `{"secret":"shared"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("auth status = %d, want 200", resp.StatusCode)
	}
	var authResp AuthResponse
	if err := json.Unmarshal(body, &authResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if authResp.Token == "" || authResp.ClientID == "" {
		t.Errorf("auth response = %+v, want token and client id", authResp)
	}
}

func TestEventStreamRejectsMissingToken(t *testing.T) {
	ts := newTestServer(t, nil, nil, nil)

	resp, _ := doJSON(t, http.MethodGet, ts.api.URL+"/ws", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestStatusAndModels(t *testing.T) {
	ts := newTestServer(t, nil, nil, nil)

	resp, body := doJSON(t, http.MethodGet, ts.api.URL+"/api/v1/status", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status status = %d, want 200", resp.StatusCode)
	}
	var status domain.ServiceStatus
	if err := json.Unmarshal(body, &status); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if status.Mode != "remote" || !status.ASRReady {
		t.Errorf("status = %+v, want remote mode with ready services", status)
	}

	resp, body = doJSON(t, http.MethodGet, ts.api.URL+"/api/v1/models", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("models status = %d, want 200", resp.StatusCode)
	}
	var info []models.Info
	if err := json.Unmarshal(body, &info); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(info) != 2 {
		t.Errorf("model info entries = %d, want 2", len(info))
	}
}

func TestClearConversation(t *testing.T) {
	ts := newTestServer(t, nil,
		jsonHandler(`{"choices":[{"message":{"content":"reply"},"finish_reason":"stop"}]}`),
		jsonHandler(`{"audio":""}`),
	)

	if resp, _ := doJSON(t, http.MethodPost, ts.api.URL+"/api/v1/messages", `{"message":"hi"}`); resp.StatusCode != http.StatusOK {
		t.Fatalf("message status = %d, want 200", resp.StatusCode)
	}

	resp, _ := doJSON(t, http.MethodDelete, ts.api.URL+"/api/v1/conversation", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("clear status = %d, want 204", resp.StatusCode)
	}
}
