package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/algoviz/pkg/buildinfo"
	"github.com/matzehuels/algoviz/pkg/errors"
	"github.com/matzehuels/algoviz/pkg/render/nodelink"
	"github.com/matzehuels/algoviz/pkg/scenario"
	"github.com/matzehuels/algoviz/pkg/store"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	if infos == nil {
		infos = []store.Info{}
	}
	s.respondJSON(w, http.StatusOK, infos)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	format := scenario.FormatJSON
	if v := r.URL.Query().Get("format"); v != "" {
		if format, err = scenario.ParseFormat(v); err != nil {
			s.respondError(w, err)
			return
		}
	}
	if format == scenario.FormatJSON {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
		return
	}
	doc, err := scenario.Decode(bytes.NewReader(data), scenario.FormatJSON)
	if err != nil {
		s.respondError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := doc.Encode(&buf, format); err != nil {
		s.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateDocumentID(id); err != nil {
		s.respondError(w, err)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}

	format := scenario.FormatJSON
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		format = scenario.FormatYAML
	}
	doc, err := scenario.Decode(bytes.NewReader(body), format)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if doc.ID != id {
		s.respondError(w, errors.New(errors.ErrCodeInvalidID, "document id %q does not match path id %q", doc.ID, id))
		return
	}
	if _, _, err := doc.Build(s.treeOpts...); err != nil {
		s.respondError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := doc.Encode(&buf, scenario.FormatJSON); err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.store.Put(r.Context(), id, buf.Bytes()); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, store.Info{ID: id, Size: buf.Len()})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	doc, step, ok := s.loadStep(w, r)
	if !ok {
		return
	}
	svg, err := doc.Frame(step, s.viewport, s.treeOpts...)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondSVG(w, svg)
}

func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	doc, step, ok := s.loadStep(w, r)
	if !ok {
		return
	}
	tree, _, err := doc.At(step, s.viewport, s.treeOpts...)
	if err != nil {
		s.respondError(w, err)
		return
	}
	opts := nodelink.Options{Detailed: r.URL.Query().Has("detailed")}
	svg, err := nodelink.Render(r.Context(), tree.Entries(), "svg", opts)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondSVG(w, svg)
}

// loadStep fetches the document named by the path and parses ?step. It
// writes the error response itself and reports whether to continue.
func (s *Server) loadStep(w http.ResponseWriter, r *http.Request) (*scenario.Document, int, bool) {
	step := -1
	if v := r.URL.Query().Get("step"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "invalid step %q", v))
			return nil, 0, false
		}
		step = n
	}
	data, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return nil, 0, false
	}
	doc, err := scenario.Decode(bytes.NewReader(data), scenario.FormatJSON)
	if err != nil {
		s.respondError(w, err)
		return nil, 0, false
	}
	return doc, step, true
}

func (s *Server) respondSVG(w http.ResponseWriter, svg []byte) {
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil && s.logger != nil {
		s.logger.Error("Encoding response", "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError && s.logger != nil {
		s.logger.Error("Request failed", "err", err)
	}
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		msg = "internal error"
	}
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    string(errors.GetCode(err)),
		Message: msg,
	})
}

// statusOf maps an error to its HTTP status.
func statusOf(err error) int {
	if store.IsNotFound(err) {
		return http.StatusNotFound
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidID,
		errors.ErrCodeUnknownAction:
		return http.StatusBadRequest
	case errors.ErrCodeUnresolvedReference:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}
