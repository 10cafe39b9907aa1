package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resumescan/internal/config"
	"resumescan/internal/dictionary"
	"resumescan/internal/engine"
	"resumescan/internal/errors"
	"resumescan/internal/observability"
	"resumescan/internal/types"
)

func testServer(t *testing.T) (*Server, *observability.ObservabilityManager) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Engine.Weights = engine.DefaultWeights()
	cfg.Engine.DefaultDictionary = "software-engineering"
	cfg.App.MaxFileSize = 1024 * 1024

	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("New logger: %v", err)
	}

	srv := NewServer(cfg, ServerConfig{
		Host:           "localhost",
		Port:           "8080",
		Version:        "test",
		MaxRequestSize: 1024 * 1024,
	}, logger)
	srv.Dictionaries = dictionary.NewBuiltinStore()

	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{Enabled: false}, cfg)
	if err != nil {
		t.Fatalf("NewObservabilityManager: %v", err)
	}

	return srv, om
}

func analyzeBody(t *testing.T, resume map[string]any, job, industry string) *bytes.Buffer {
	t.Helper()

	raw, err := json.Marshal(resume)
	if err != nil {
		t.Fatalf("marshal resume: %v", err)
	}
	body, err := json.Marshal(AnalyzeRequest{
		Resume:         raw,
		JobDescription: job,
		Industry:       industry,
	})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return bytes.NewBuffer(body)
}

func TestAnalyzeHandler(t *testing.T) {
	srv, om := testServer(t)
	handler := srv.createAnalyzeHandler(om)

	resume := map[string]any{
		"personal": map[string]any{
			"name":  "Dana Fox",
			"email": "dana@example.com",
		},
		"summary": "Backend engineer with six years of experience building Go services.",
		"skills":  []any{"Go", "PostgreSQL", "Docker"},
	}

	req := httptest.NewRequest(http.MethodPost, "/analyze", analyzeBody(t, resume, "Go developer with Docker and Kubernetes experience", ""))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result types.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.ATSScore <= 0 || result.ATSScore > 100 {
		t.Errorf("ATSScore = %d, want in (0, 100]", result.ATSScore)
	}
	if result.MatchPercentage == nil {
		t.Error("MatchPercentage = nil, want set for non-empty job description")
	}
	if len(result.Breakdown) != 6 {
		t.Errorf("Breakdown has %d categories, want 6", len(result.Breakdown))
	}
}

func TestAnalyzeHandlerErrors(t *testing.T) {
	srv, om := testServer(t)
	handler := srv.createAnalyzeHandler(om)

	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		wantStatus  int
	}{
		{
			name:        "wrong method",
			method:      http.MethodGet,
			contentType: "application/json",
			body:        "{}",
			wantStatus:  http.StatusMethodNotAllowed,
		},
		{
			name:        "missing content type",
			method:      http.MethodPost,
			contentType: "",
			body:        `{"resume": {}}`,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "malformed json",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        "{not json",
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "missing resume",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"jobDescription": "Go developer"}`,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "resume is not an object",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"resume": [1, 2, 3]}`,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "empty object resume is scored",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"resume": {}}`,
			wantStatus:  http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/analyze", bytes.NewBufferString(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()

			handler(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestAnalyzeHandlerUnknownIndustryDegrades(t *testing.T) {
	srv, om := testServer(t)
	handler := srv.createAnalyzeHandler(om)

	resume := map[string]any{
		"personal": map[string]any{"name": "Dana Fox"},
		"skills":   []any{"Go"},
	}

	req := httptest.NewRequest(http.MethodPost, "/analyze", analyzeBody(t, resume, "", "no-such-industry"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 when the dictionary is unknown", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv, _ := testServer(t)
	srv.APIKeys = map[string]bool{"valid-key-12345": true}

	handler := srv.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
	}{
		{"missing key", "", "", http.StatusUnauthorized},
		{"invalid key", "X-API-Key", "wrong", http.StatusUnauthorized},
		{"valid key", "X-API-Key", "valid-key-12345", http.StatusOK},
		{"valid bearer", "Authorization", "Bearer valid-key-12345", http.StatusOK},
		{"invalid bearer", "Authorization", "Bearer wrong", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()

			handler(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestAuthMiddlewareNoKeysConfigured(t *testing.T) {
	srv, _ := testServer(t)

	handler := srv.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when no keys are configured", rec.Code)
	}
}

func TestRequestSizeLimit(t *testing.T) {
	srv, om := testServer(t)
	srv.MaxRequestSize = 64

	handler := srv.requestSizeLimitMiddleware()(srv.createAnalyzeHandler(om))

	big := bytes.Repeat([]byte("a"), 256)
	body, _ := json.Marshal(map[string]any{"resume": map[string]any{"summary": string(big)}})
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for oversized body", rec.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.healthHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", body["status"])
	}
	if body["service"] != "resumescan" {
		t.Errorf("service = %v, want resumescan", body["service"])
	}
	if _, ok := body["dictionaries"]; !ok {
		t.Error("response missing dictionaries section")
	}
}

func TestStatsHandler(t *testing.T) {
	srv, _ := testServer(t)
	srv.RateLimit = &config.RateLimitConfig{
		Enabled:        true,
		RequestsPerMin: 60,
		BurstCapacity:  10,
		ByIP:           true,
	}
	srv.RateLimiter = NewRateLimiter(60, time.Minute, 10, srv.Logger)
	defer srv.RateLimiter.Close()

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	srv.statsHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := body["rate_limiting"]; !ok {
		t.Error("response missing rate_limiting section")
	}
	if _, ok := body["rate_limit_config"]; !ok {
		t.Error("response missing rate_limit_config section")
	}
}

func TestDictionariesHandler(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/dictionaries", nil)
	rec := httptest.NewRecorder()
	srv.dictionariesHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Dictionaries []string `json:"dictionaries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Dictionaries) == 0 {
		t.Error("want at least one built-in dictionary")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	srv, om := testServer(t)
	srv.RateLimit = &config.RateLimitConfig{
		Enabled:        true,
		RequestsPerMin: 60,
		BurstCapacity:  2,
		ByIP:           true,
	}
	srv.RateLimiter = NewRateLimiter(60, time.Minute, 2, srv.Logger)
	defer srv.RateLimiter.Close()

	handler := srv.createRateLimitMiddleware(om)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Burst capacity of 2 allows two immediate requests, the third is limited.
	statuses := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler(rec, req)
		statuses = append(statuses, rec.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("first two requests = %v, want 200s", statuses[:2])
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", statuses[2])
	}
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		apiKey   string
		bearer   string
		byAPIKey bool
		byIP     bool
		want     string
	}{
		{"api key preferred", "k1", "", true, true, "api:k1"},
		{"bearer fallback", "", "k2", true, false, "api:k2"},
		{"ip fallback", "", "", true, true, "ip:192.0.2.1"},
		{"disabled", "", "", false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
			req.RemoteAddr = "192.0.2.1:5555"
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}

			if got := getRateLimitKey(req, tt.byAPIKey, tt.byIP); got != tt.want {
				t.Errorf("getRateLimitKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"remote addr", "203.0.113.7:443", "", "", "203.0.113.7"},
		{"x-forwarded-for", "203.0.113.7:443", "198.51.100.9, 10.0.0.1", "", "198.51.100.9"},
		{"x-forwarded-for garbage", "203.0.113.7:443", "not-an-ip", "", "203.0.113.7"},
		{"x-real-ip", "203.0.113.7:443", "", "198.51.100.20", "198.51.100.20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}

			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	if got := maskAPIKey("short"); got != "****" {
		t.Errorf("maskAPIKey(short) = %q", got)
	}
	if got := maskAPIKey("abcdefgh12345678"); got != "abcdefgh****" {
		t.Errorf("maskAPIKey(long) = %q", got)
	}
}
