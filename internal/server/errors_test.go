package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-builder/internal/pipeline"
	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/tracker"
	"github.com/jonathan/resume-builder/internal/types"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "id", Message: "must be a number"}
	assert.Equal(t, "validation error: id - must be a number", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"request error", &pipeline.RequestError{Message: "bad"}, http.StatusBadRequest},
		{"invalid section", &types.InvalidSectionError{Name: "hobbies"}, http.StatusBadRequest},
		{"unknown style", &templates.UnknownStyleError{StyleID: 99}, http.StatusBadRequest},
		{"document not found", &tracker.DocumentNotFoundError{ID: "d1"}, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", &tracker.DocumentNotFoundError{ID: "d1"}), http.StatusNotFound},
		{"store error", &tracker.StoreError{Op: "save", ID: "d1", Cause: errors.New("conn reset")}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
