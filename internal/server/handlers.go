package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-builder/internal/pipeline"
	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/types"
)

// handleCreateDocument opens an empty document
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req types.CreateDocumentRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	state, err := s.service.CreateDocument(r.Context(), &req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, state)
}

// handleGetDocument returns the full document state
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.Snapshot(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, state)
}

// handleDeleteDocument removes a document
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteDocument(r.Context(), r.PathValue("id")); err != nil {
		s.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGuidance returns the completeness summary of a document
func (s *Server) handleGuidance(w http.ResponseWriter, r *http.Request) {
	summary, err := s.service.GetGuidance(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, summary)
}

// handleValidateDocument runs the schema and quality checks on a document
func (s *Server) handleValidateDocument(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.ValidateDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleGenerateSection runs one conversational turn
func (s *Server) handleGenerateSection(w http.ResponseWriter, r *http.Request) {
	var req types.GenerationRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.service.RequestGeneration(r.Context(), &req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGenerateSectionStream runs one turn and streams its progress as server-sent events
func (s *Server) handleGenerateSectionStream(w http.ResponseWriter, r *http.Request) {
	var req types.GenerationRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	stream, err := newSectionStream(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp, err := s.service.RequestGenerationWithProgress(r.Context(), &req, func(event pipeline.ProgressEvent) {
		if err := stream.progress(event); err != nil {
			s.logger.Warn("failed to write progress event", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		if HTTPStatus(err) >= http.StatusInternalServerError {
			s.logger.Error("streamed generation failed", slog.String("error", err.Error()))
		}
		stream.fail(err) //nolint:errcheck
		return
	}
	if err := stream.complete(resp); err != nil {
		s.logger.Warn("failed to write complete event", slog.String("error", err.Error()))
	}
}

// handleListTemplates lists registered styles, optionally filtered by category
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	registry := s.service.Registry()
	styles := registry.List()
	if category := r.URL.Query().Get("category"); category != "" {
		styles = registry.ByCategory(templates.Category(category))
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"templates": styles,
		"count":     len(styles),
	})
}

// handleGetTemplate returns the requirements of one style
func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		s.serviceError(w, r, &ErrValidation{Field: "id", Message: "must be a number"})
		return
	}
	style, err := s.service.Registry().Get(id)
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, style)
}
