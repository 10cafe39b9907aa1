package server

import (
	"context"
	"encoding/json"
	"net/http"

	"resumescan/internal/dictionary"
	"resumescan/internal/engine"
	resumescanErrors "resumescan/internal/errors"
	"resumescan/internal/observability"
	"resumescan/internal/types"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// createAnalyzeHandler wraps the analyze handler with observability
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumescan.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// Parse request
		var req AnalyzeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if len(req.Resume) == 0 {
			err := resumescanErrors.NewInputError(resumescanErrors.ErrCodeInvalidInput, "missing resume", nil)
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume", "resume field is required", http.StatusBadRequest)
			return
		}

		// Add request attributes to span
		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.Resume)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("request.industry", req.Industry),
			attribute.String("operation", "analyze"),
		)

		dict := s.resolveDictionary(ctx, req.Industry, span)

		opts := engine.Options{
			Dictionary: dict,
			Weights:    s.AppConfig.Engine.Weights,
		}

		// Track the analysis with observability
		metrics := om.GetMetrics()
		result, err := metrics.TrackAnalysis(ctx, "analyze", func(ctx context.Context) (*types.AnalysisResult, error) {
			return engine.AnalyzeJSON(req.Resume, req.JobDescription, opts)
		}, om)

		if err != nil {
			span.RecordError(err)
			if resumescanErrors.IsInvalidInput(err) {
				span.SetAttributes(attribute.String("error.type", "validation"))
				writeErrorResponse(w, "Invalid resume record", err.Error(), http.StatusBadRequest)
				return
			}
			span.SetAttributes(attribute.String("error.type", "analysis"))
			writeErrorResponse(w, "Failed to analyze resume", err.Error(), http.StatusInternalServerError)
			return
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("ats.score", result.ATSScore),
			attribute.Int("suggestions_count", len(result.Suggestions)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// resolveDictionary looks up the dictionary for the requested industry. A
// missing or unreachable dictionary is not fatal; the analysis degrades to
// running without one.
func (s *Server) resolveDictionary(ctx context.Context, industry string, span oteltrace.Span) *dictionary.Dictionary {
	if s.Dictionaries == nil {
		return nil
	}

	id := industry
	if id == "" {
		id = s.AppConfig.Engine.DefaultDictionary
	}
	if id == "" {
		return nil
	}

	dict, err := s.Dictionaries.Get(ctx, id)
	if err != nil {
		s.Logger.Info("Dictionary unavailable, analyzing without one",
			"dictionary", id,
			"error", err.Error())
		span.SetAttributes(attribute.Bool("dictionary.available", false))
		return nil
	}

	span.SetAttributes(
		attribute.Bool("dictionary.available", true),
		attribute.String("dictionary.id", dict.ID),
	)
	return dict
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordInfrastructureMetric(r.Context(), "rate_limit_hit", om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
