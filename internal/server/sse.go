package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-builder/internal/pipeline"
	"github.com/jonathan/resume-builder/internal/types"
)

// errStreamingUnsupported is returned when the response writer cannot flush
var errStreamingUnsupported = errors.New("streaming not supported")

// sectionStream writes the events of one streamed generation turn.
// Events are numbered so a client can tell whether it missed one.
type sectionStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	nextID  int
}

// streamError is the payload of an "error" event
type streamError struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func newSectionStream(w http.ResponseWriter) (*sectionStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errStreamingUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &sectionStream{w: w, flusher: flusher, nextID: 1}, nil
}

func (s *sectionStream) send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(s.w, "id: %d\nevent: %s\ndata: %s\n\n", s.nextID, event, data); err != nil {
		return err
	}
	s.nextID++
	s.flusher.Flush()
	return nil
}

// progress forwards a pipeline step
func (s *sectionStream) progress(event pipeline.ProgressEvent) error {
	return s.send("progress", event)
}

// fail reports a turn that did not produce a response. Internal errors are not echoed.
func (s *sectionStream) fail(err error) error {
	status := HTTPStatus(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = "internal error"
	}
	return s.send("error", streamError{Error: msg, Status: status})
}

// complete sends the response of the turn and ends the stream
func (s *sectionStream) complete(resp *types.GenerationResponse) error {
	return s.send("complete", resp)
}
