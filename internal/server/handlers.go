package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/agbru/ratcalc/internal/config"
	apperrors "github.com/agbru/ratcalc/internal/errors"
	"github.com/agbru/ratcalc/internal/rational"
	"github.com/agbru/ratcalc/internal/service"
	"github.com/agbru/ratcalc/pkg/models"
)

// handleHealth responds to health check requests.
// It returns a 200 OK status with a JSON payload indicating the service is healthy.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	}

	s.writeJSONResponse(w, http.StatusOK, response)
}

// handleAlgorithms returns the list of available selection algorithms.
// It queries the internal registry and returns the keys as a JSON array.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	algorithms := s.factory.List()

	response := map[string]any{
		"algorithms": algorithms,
	}

	s.writeJSONResponse(w, http.StatusOK, response)
}

// approximateParams holds the parsed query parameters of an /approximate
// request.
type approximateParams struct {
	target    string
	limit     uint64
	algo      string
	bound     string
	precision uint
}

// handleApproximate processes requests to compute rational approximations.
// It parses the query parameters 'target', 'limit', 'algo' and the optional
// 'bound' and 'precision', executes the search, and returns the result in
// JSON format. When 'bound' is present the error-bounded widening search is
// run with 'limit' as the ceiling.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleApproximate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// Parse and validate parameters using helper
	params, err := parseApproximateParams(r)
	if err != nil {
		if parseErr, ok := err.(ApproximateParseError); ok {
			s.writeErrorResponse(w, parseErr.StatusCode, parseErr.Message)
		} else {
			s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	prec := params.precision
	if prec == 0 {
		prec = rational.DefaultPrecisionForLimit(params.limit)
	}
	target, err := rational.ParseTarget(params.target, prec)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// A per-request precision overrides the server configuration; the
	// service centralizes the search options, so a request-scoped service
	// carries the override.
	svc := s.service
	if params.precision != 0 {
		cfg := s.cfg
		cfg.Precision = params.precision
		svc = service.NewApproximatorService(s.factory, cfg, s.maxLimit)
	}

	// Create a context with timeout for the search
	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	var response models.ApproximationResult
	if params.bound != "" {
		var bound *big.Float
		bound, _, err = big.ParseFloat(params.bound, 10, prec, big.ToNearestEven)
		if err != nil || bound.Sign() <= 0 {
			s.writeErrorResponse(w, http.StatusBadRequest, "Invalid 'bound' parameter: must be a positive decimal")
			return
		}
		var res *rational.BoundedResult
		res, err = svc.ApproximateWithBound(ctx, params.algo, target, bound, params.limit)
		if err == nil {
			response = models.FromBoundedResult(params.target, params.bound, params.limit, params.algo, res, time.Since(start))
		}
	} else {
		var res *rational.Approximation
		res, err = svc.Approximate(ctx, params.algo, target, params.limit)
		if err == nil {
			response = models.FromApproximation(params.target, params.limit, params.algo, res, time.Since(start))
		}
	}

	if err != nil {
		s.writeSearchError(w, err)
		return
	}
	s.writeJSONResponse(w, http.StatusOK, response)
}

// writeSearchError maps a search failure onto an HTTP status code.
func (s *Server) writeSearchError(w http.ResponseWriter, err error) {
	var vErr apperrors.ValidationError
	switch {
	case errors.Is(err, service.ErrMaxLimitExceeded):
		s.writeErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("Denominator limit exceeds maximum allowed (%d). This limit prevents resource exhaustion.", s.maxLimit))
	case errors.As(err, &vErr):
		s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		s.writeErrorResponse(w, http.StatusGatewayTimeout, "Search timed out")
	default:
		s.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
	}
}

// parseApproximateParams extracts and validates the search parameters from
// the request.
//
// Parameters:
//   - r: The HTTP request containing query parameters.
//
// Returns:
//   - approximateParams: The parsed parameters with defaults applied.
//   - error: An ApproximateParseError if validation fails, nil otherwise.
func parseApproximateParams(r *http.Request) (approximateParams, error) {
	params := approximateParams{
		target: r.URL.Query().Get("target"),
		algo:   r.URL.Query().Get("algo"),
		bound:  r.URL.Query().Get("bound"),
		limit:  config.DefaultLimit,
	}

	if params.target == "" {
		return approximateParams{}, ApproximateParseError{
			Message:    "Missing 'target' parameter",
			StatusCode: http.StatusBadRequest,
		}
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.ParseUint(limitStr, 10, 64)
		if err != nil || limit < 1 {
			return approximateParams{}, ApproximateParseError{
				Message:    "Invalid 'limit' parameter: must be a positive integer",
				StatusCode: http.StatusBadRequest,
			}
		}
		params.limit = limit
	}

	if precStr := r.URL.Query().Get("precision"); precStr != "" {
		prec, err := strconv.ParseUint(precStr, 10, 32)
		if err != nil || prec < rational.MinPrecision {
			return approximateParams{}, ApproximateParseError{
				Message:    fmt.Sprintf("Invalid 'precision' parameter: must be an integer >= %d", rational.MinPrecision),
				StatusCode: http.StatusBadRequest,
			}
		}
		params.precision = uint(prec)
	}

	if params.algo == "" {
		params.algo = config.DefaultAlgo
	}

	return params, nil
}

// writeJSONResponse helper function to write a JSON response with the correct content type.
//
// Parameters:
//   - w: The HTTP response writer.
//   - statusCode: The HTTP status code to write.
//   - data: The data to be encoded as JSON.
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("Error encoding JSON response: %v", err)
	}
}

// writeErrorResponse helper function to write a standardized error response.
//
// Parameters:
//   - w: The HTTP response writer.
//   - statusCode: The HTTP status code to write.
//   - message: The error message to be included in the response body.
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	errResp := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	s.writeJSONResponse(w, statusCode, errResp)
}
