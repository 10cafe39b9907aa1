package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
)

// healthHandler provides a health check endpoint including dictionary store status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "healthy",
		"service": "resumescan",
		"version": s.Version,
	}

	dictStatus := s.checkDictionaryHealth(r)
	response["dictionaries"] = dictStatus

	overallHealthy := true
	if healthy, ok := dictStatus["healthy"].(bool); ok && !healthy {
		overallHealthy = false
	}

	if !overallHealthy {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// checkDictionaryHealth reports the state of every configured dictionary source
func (s *Server) checkDictionaryHealth(r *http.Request) map[string]any {
	status := map[string]any{
		"healthy": true,
	}

	if s.Dictionaries != nil {
		if ids, err := s.Dictionaries.List(r.Context()); err == nil {
			status["available"] = len(ids)
		}
	}

	if s.fileStore != nil {
		status["file_store"] = map[string]any{
			"dir":      s.AppConfig.Dictionaries.Dir,
			"watching": s.AppConfig.Dictionaries.Watch,
		}
	}

	if s.remoteStore != nil {
		remoteHealthy := s.remoteStore.IsHealthy()
		status["remote"] = map[string]any{
			"healthy":         remoteHealthy,
			"circuit_breaker": s.remoteStore.BreakerStats(),
		}
		// An open breaker degrades the service but the built-in
		// dictionaries keep analysis available.
		if !remoteHealthy {
			status["degraded_sources"] = []string{"remote"}
		}
	}

	return status
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "resumescan",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
	}

	// Add rate limiting stats if enabled
	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	// Add configuration info
	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	if s.remoteStore != nil {
		response["dictionary_breaker"] = s.remoteStore.BreakerStats()
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// dictionariesHandler lists the available dictionary ids
func (s *Server) dictionariesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ids := []string{}
	if s.Dictionaries != nil {
		listed, err := s.Dictionaries.List(r.Context())
		if err != nil {
			s.Logger.LogError(err, "Failed to list dictionaries")
			writeErrorResponse(w, "Failed to list dictionaries", err.Error(), http.StatusInternalServerError)
			return
		}
		ids = listed
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"dictionaries": ids}); err != nil {
		log.Printf("Failed to encode dictionaries response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
