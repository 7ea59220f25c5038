package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/raysh454/configlens/internal/app"
	"github.com/raysh454/configlens/internal/loader"
	"github.com/raysh454/configlens/internal/logging"
	"github.com/raysh454/configlens/internal/platform"
	"github.com/raysh454/configlens/internal/store"
)

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parsePlatform(name string) (platform.Platform, error) {
	if name == "" {
		return "", nil
	}
	return platform.Parse(name)
}

func compareOptions(body CompareRequest, p platform.Platform) app.CompareOptions {
	return app.CompareOptions{
		Platform:   p,
		Normalize:  body.Normalize,
		Persist:    body.Persist,
		SourceName: body.SourceName,
		TargetName: body.TargetName,
	}
}

// --- HTTP handlers ---

// Compare

// handleCompare godoc
// @Summary Compare two configurations
// @Accept json
// @Produce json
// @Param request body CompareRequest true "Configs to compare"
// @Success 200 {object} app.CompareResult
// @Failure 400 {object} ErrorResponse
// @Router /compare [post]
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var body CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("decoding compare body", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	p, err := parsePlatform(body.Platform)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.orchestrator.CompareLines(r.Context(),
		loader.Split(body.Source), loader.Split(body.Target),
		compareOptions(body, p))
	if err != nil {
		s.logger.Warn("comparing configs", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("compared configs",
		logging.Field{Key: "rows", Value: len(res.Structural.Rows)},
		logging.Field{Key: "has_diff", Value: res.HasDiff})
	writeJSON(w, http.StatusOK, res)
}

// Validate

// handleValidate godoc
// @Summary Validate a change script against before/after configs
// @Accept json
// @Produce json
// @Param request body ValidateRequest true "Running, change and expected configs"
// @Success 200 {object} validate.Result
// @Failure 400 {object} ErrorResponse
// @Router /validate [post]
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var body ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("decoding validate body", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	p, err := parsePlatform(body.Platform)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.orchestrator.Validate(
		loader.Split(body.Running), loader.Split(body.Change), loader.Split(body.Expected), p)
	if err != nil {
		s.logger.Warn("validating change", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("validated change",
		logging.Field{Key: "is_valid", Value: res.IsValid},
		logging.Field{Key: "has_unapplied_change", Value: res.HasUnappliedChange})
	writeJSON(w, http.StatusOK, res)
}

// History

// handleListRuns godoc
// @Summary List persisted comparison runs, newest first
// @Produce json
// @Param limit query int false "Maximum number of runs"
// @Success 200 {array} store.Run
// @Router /runs [get]
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	history := s.orchestrator.History()
	if history == nil {
		writeError(w, http.StatusNotFound, "run history is disabled")
		return
	}

	limit := 0
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil && v > 0 {
			limit = v
		}
	}

	runs, err := history.ListRuns(r.Context(), limit)
	if err != nil {
		s.logger.Warn("listing runs", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	s.logger.Info("listed runs", logging.Field{Key: "count", Value: len(runs)})
	writeJSON(w, http.StatusOK, runs)
}

// handleGetRun godoc
// @Summary Fetch one run with its row document
// @Produce json
// @Param runID path string true "Run id"
// @Success 200 {object} store.Run
// @Failure 404 {object} ErrorResponse
// @Router /runs/{runID} [get]
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	history := s.orchestrator.History()
	if history == nil {
		writeError(w, http.StatusNotFound, "run history is disabled")
		return
	}
	runID := chi.URLParam(r, "runID")

	run, err := history.GetRun(r.Context(), runID)
	if errors.Is(err, store.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.logger.Warn("getting run", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// handleDeleteRun godoc
// @Summary Delete a persisted run
// @Param runID path string true "Run id"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /runs/{runID} [delete]
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	history := s.orchestrator.History()
	if history == nil {
		writeError(w, http.StatusNotFound, "run history is disabled")
		return
	}
	runID := chi.URLParam(r, "runID")

	err := history.DeleteRun(r.Context(), runID)
	if errors.Is(err, store.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.logger.Warn("deleting run", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("deleted run", logging.Field{Key: "run_id", Value: runID})
	writeJSON(w, http.StatusNoContent, nil)
}

// Platforms

// handleListPlatforms godoc
// @Summary List recognized and fully supported platforms
// @Produce json
// @Success 200 {object} PlatformsResponse
// @Router /platforms [get]
func (s *Server) handleListPlatforms(w http.ResponseWriter, r *http.Request) {
	all := platform.All()
	supported := make([]platform.Platform, 0, len(all))
	for _, p := range all {
		if platform.Supported(p) {
			supported = append(supported, p)
		}
	}
	writeJSON(w, http.StatusOK, PlatformsResponse{Platforms: all, Supported: supported})
}
