package http

import (
	"bytes"
	"errors"
	"net/http"
	"sync/atomic"

	"mortgage/internal/form"
	applog "mortgage/internal/log"
)

type indexData struct {
	Fields  []fieldView
	Results resultsView
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	_, c := s.session(w, r)
	snap := c.Snapshot()

	data := indexData{
		Fields:  fieldViews(snap.Params),
		Results: newResultsView(snap),
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		s.renderFailed(w, r, "index.html", err)
		return
	}
	NewHTMXResponse().BodyHTML(buf.Bytes()).Write(w)
}

// handleEdit applies one keystroke. Rejected text leaves the page as is.
func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	logger := applog.FromContext(r.Context())

	req, err := ParseEditRequest(w, r)
	if err != nil {
		logger.WarnContext(r.Context(), "Invalid edit request",
			applog.FieldOperation, applog.OpParse,
			applog.FieldError, err)
		if errors.Is(err, form.ErrUnknownField) {
			BadRequestError("Unknown field").Write(w)
			return
		}
		BadRequestError("Invalid request").Write(w)
		return
	}

	_, c := s.session(w, r)
	snap, ok := c.Apply(r.Context(), req.Field, req.Value)
	if !ok {
		atomic.AddInt64(&s.appMetrics.editsRejected, 1)
		NoContent().Write(w)
		return
	}
	atomic.AddInt64(&s.appMetrics.editsAccepted, 1)

	view := newResultsView(snap)
	body, err := s.renderResults(view)
	if err != nil {
		s.renderFailed(w, r, "results", err)
		return
	}

	NewHTMXResponse().
		TriggerPaymentRecomputed(view.Revision, view.MonthlyWithExtras).
		BodyHTML(body).
		Write(w)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	_, c := s.session(w, r)

	body, err := s.renderResults(newResultsView(c.Snapshot()))
	if err != nil {
		s.renderFailed(w, r, "results", err)
		return
	}
	NewHTMXResponse().BodyHTML(body).Write(w)
}

func (s *Server) renderResults(view resultsView) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "results", view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Server) renderFailed(w http.ResponseWriter, r *http.Request, name string, err error) {
	applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
		"template", name,
		applog.FieldOperation, applog.OpRender,
		"error_type", applog.ErrorTypeInternal,
		applog.FieldError, err)
	InternalServerError("Something went wrong").Write(w)
}
