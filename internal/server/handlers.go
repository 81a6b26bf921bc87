package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/boxtower/pkg/archive"
	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/buildinfo"
	"github.com/matzehuels/boxtower/pkg/combo"
	"github.com/matzehuels/boxtower/pkg/errors"
	"github.com/matzehuels/boxtower/pkg/pipeline"
	"github.com/matzehuels/boxtower/pkg/stack"
)

// sourceAPI labels runs archived by the server.
const sourceAPI = "api"

var validate = validator.New(validator.WithRequiredStructEnabled())

// solveRequest is the body of POST /v1/solve. Boxes are [l, w, h] triples.
type solveRequest struct {
	Boxes          [][]float64 `json:"boxes" validate:"max=62,dive,len=3,dive,gt=0"`
	MaxCorrections int         `json:"max_corrections" validate:"gte=0"`
	Formats        []string    `json:"formats" validate:"dive,oneof=svg png pdf dot json"`
	Viz            string      `json:"viz" validate:"omitempty,oneof=isometric diagram"`
	Style          string      `json:"style"`
	Detailed       bool        `json:"detailed"`
	Scale          float64     `json:"scale" validate:"gte=0,lte=8"`
	Refresh        bool        `json:"refresh"`
}

// solveResponse is returned by POST /v1/solve. Artifacts are base64 encoded
// by encoding/json.
type solveResponse struct {
	RunID     string            `json:"run_id,omitempty"`
	Solution  *stack.Solution   `json:"solution"`
	CacheHit  bool              `json:"cache_hit"`
	Stats     statsResponse     `json:"stats"`
	Artifacts map[string][]byte `json:"artifacts,omitempty"`
}

type statsResponse struct {
	Boxes    int     `json:"boxes"`
	SolveMS  float64 `json:"solve_ms"`
	RenderMS float64 `json:"render_ms"`
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := decodeJSON(w, r, s.opts.MaxBodyBytes, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, validationError(err))
		return
	}
	// Refuse oversize inputs before any work, with the same error the
	// pipeline would produce.
	if err := combo.Check(len(req.Boxes), s.opts.MaxBoxes); err != nil {
		writeError(w, err)
		return
	}

	boxes := make([]box.Box, len(req.Boxes))
	for i, d := range req.Boxes {
		boxes[i] = box.New(d[0], d[1], d[2])
	}

	opts := pipeline.Options{
		MaxBoxes:       s.opts.MaxBoxes,
		Workers:        s.opts.Workers,
		MaxCorrections: req.MaxCorrections,
		Refresh:        req.Refresh,
		Viz:            req.Viz,
		Formats:        req.Formats,
		Style:          req.Style,
		Detailed:       req.Detailed,
		Scale:          req.Scale,
		Source:         sourceAPI,
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatSVG}
	}

	result, err := s.runner.Execute(r.Context(), boxes, opts)
	if err != nil {
		s.logger.Warn("solve failed", "boxes", len(boxes), "err", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, solveResponse{
		RunID:    result.RunID,
		Solution: result.Solution,
		CacheHit: result.CacheHit,
		Stats: statsResponse{
			Boxes:    result.Stats.Boxes,
			SolveMS:  float64(result.Stats.SolveTime.Microseconds()) / 1000,
			RenderMS: float64(result.Stats.RenderTime.Microseconds()) / 1000,
		},
		Artifacts: result.Artifacts,
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	store, ok := s.archive(w)
	if !ok {
		return
	}
	limit := archive.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = min(n, 500)
	}
	runs, err := store.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if runs == nil {
		runs = []*archive.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// handleRenderRun draws an archived run. Query parameters viz, style,
// detailed and scale select the drawing.
func (s *Server) handleRenderRun(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	if run.Solution == nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "run %s has no solution", run.ID))
		return
	}

	q := r.URL.Query()
	opts := pipeline.Options{
		Viz:      q.Get("viz"),
		Style:    q.Get("style"),
		Detailed: q.Get("detailed") == "true",
		Formats:  []string{format},
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 || scale > 8 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "scale must be a number in (0, 8]"))
			return
		}
		opts.Scale = scale
	}

	artifacts, err := s.runner.Render(r.Context(), run.Solution, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"build":   buildinfo.Get(),
		"archive": s.runner.Archive != nil,
	})
}

func (s *Server) archive(w http.ResponseWriter) (archive.Store, bool) {
	if s.runner.Archive == nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "run archive is disabled"))
		return nil, false
	}
	return s.runner.Archive, true
}

func (s *Server) loadRun(w http.ResponseWriter, r *http.Request) (*archive.Run, bool) {
	store, ok := s.archive(w)
	if !ok {
		return nil, false
	}
	run, err := store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return run, true
}

// =============================================================================
// Encoding
// =============================================================================

func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return errors.New(errors.ErrCodeResourceLimit, "request body exceeds %d bytes", maxErr.Limit)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(err), errorBody{Error: errorDetail{Code: code, Message: errors.UserMessage(err)}})
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidDimension, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidStyle, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeResourceLimit:
		return http.StatusRequestEntityTooLarge
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		code := errors.ErrCodeInvalidInput
		switch {
		case fe.Tag() == "gt":
			code = errors.ErrCodeInvalidDimension
		case fe.Tag() == "max" && fe.Field() == "Boxes":
			code = errors.ErrCodeResourceLimit
		case fe.Tag() == "oneof" && fe.StructField() != "Viz":
			code = errors.ErrCodeInvalidFormat
		}
		return errors.New(code, "%s failed %q check (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request")
}
