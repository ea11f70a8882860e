package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"termplan/internal/catalog"
	appLog "termplan/internal/log"
	"termplan/internal/model"
	"termplan/internal/planner"
)

const maxBodyBytes = 1 << 20

// Server exposes the planner as a JSON API.
type Server struct {
	planner *planner.Planner
	router  chi.Router
}

// NewServer constructs a new Server.
func NewServer(p *planner.Planner) *Server {
	s := &Server{planner: p, router: chi.NewRouter()}
	s.registerRoutes()
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// StartServer serves until ctx is cancelled, then shuts down gracefully.
func StartServer(ctx context.Context, listen string, p *planner.Planner) error {
	srv := &http.Server{
		Addr:              listen,
		Handler:           NewServer(p).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) registerRoutes() {
	r := s.router
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/term", s.handleTerm)
		r.Get("/templates", s.handleTemplates)
		r.Get("/grid", s.handleGrid)
		r.Get("/urgency", s.handleUrgency)
		r.Post("/import", s.handleImport)

		r.Route("/assignments", func(r chi.Router) {
			r.Get("/", s.handleListAssignments)
			r.Post("/", s.handleCreateAssignment)
			r.Route("/{unit}/{index}", func(r chi.Router) {
				r.Get("/", s.handleGetAssignment)
				r.Put("/", s.handleUpdateAssignment)
				r.Delete("/", s.handleDeleteAssignment)
				r.Get("/export", s.handleExportAssignment)
			})
		})
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		appLog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleTerm(w http.ResponseWriter, _ *http.Request) {
	term := s.planner.Term()
	rows, err := term.WeekRows()
	if err != nil {
		appLog.Error("week rows failed", err)
		writeError(w, http.StatusInternalServerError, "failed to compute week rows")
		return
	}
	writeJSON(w, http.StatusOK, termResponse{
		Start:       term.Start,
		End:         term.End,
		LengthDays:  term.LengthDays,
		DayGridSize: term.DayGridSize(),
		Detail:      term.Detail,
		WeekRows:    rows,
	})
}

func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	tpls := s.planner.Templates()
	out := make([]templateDTO, 0, len(tpls))
	for _, tpl := range tpls {
		out = append(out, toTemplateDTO(tpl))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListAssignments(w http.ResponseWriter, _ *http.Request) {
	groups := s.planner.Groups()
	out := make([]groupDTO, 0, len(groups))
	for _, g := range groups {
		dto := groupDTO{UnitCode: g.UnitCode, Color: g.Color, Assignments: make([]assignmentDTO, 0, len(g.Assignments))}
		for i, a := range g.Assignments {
			dto.Assignments = append(dto.Assignments, toAssignmentDTO(a, i))
		}
		out = append(out, dto)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateAssignment(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCreateRequest(w, r)
	if !ok {
		return
	}
	a, added, err := s.planner.Create(req)
	if err != nil {
		writePlannerError(w, err)
		return
	}
	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	writeJSON(w, status, createResponse{Added: added, Assignment: toAssignmentDTO(a, s.indexOf(a))})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "calendar too large")
		return
	}
	a, added, err := s.planner.Import(string(body), r.URL.Query().Get("filename"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	writeJSON(w, status, createResponse{Added: added, Assignment: toAssignmentDTO(a, s.indexOf(a))})
}

func (s *Server) handleGetAssignment(w http.ResponseWriter, r *http.Request) {
	a, idx, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toAssignmentDTO(a, idx))
}

func (s *Server) handleUpdateAssignment(w http.ResponseWriter, r *http.Request) {
	old, _, ok := s.lookup(w, r)
	if !ok {
		return
	}
	req, ok := decodeCreateRequest(w, r)
	if !ok {
		return
	}
	a, added, err := s.planner.Edit(old, req)
	if err != nil {
		writePlannerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, createResponse{Added: added, Assignment: toAssignmentDTO(a, s.indexOf(a))})
}

func (s *Server) handleDeleteAssignment(w http.ResponseWriter, r *http.Request) {
	a, _, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.planner.Delete(a)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportAssignment(w http.ResponseWriter, r *http.Request) {
	a, _, ok := s.lookup(w, r)
	if !ok {
		return
	}
	text, filename, err := s.planner.Export(a)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, text)
}

func (s *Server) handleGrid(w http.ResponseWriter, _ *http.Request) {
	days := s.planner.Grid()
	out := make([]dayDTO, 0, len(days))
	for _, d := range days {
		dto := dayDTO{Index: d.Index, Date: d.Date, InTerm: d.InTerm, Cells: make([]cellDTO, 0, len(d.Cells))}
		for _, c := range d.Cells {
			dto.Cells = append(dto.Cells, cellDTO{
				Name:       c.Assignment.Name,
				UnitCode:   c.Assignment.UnitCode,
				Color:      c.Assignment.Color,
				EventIndex: c.EventIndex,
				Milestone:  c.Event.Summary,
			})
		}
		out = append(out, dto)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUrgency(w http.ResponseWriter, _ *http.Request) {
	entries := s.planner.Urgent()
	out := make([]urgencyDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, urgencyDTO{
			Name:         e.Assignment.Name,
			UnitCode:     e.Assignment.UnitCode,
			Color:        e.Assignment.Color,
			End:          e.Assignment.End,
			DaysUntilDue: e.DaysUntilDue,
			Band:         string(e.Band),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// lookup resolves /{unit}/{index}, writing the error response itself.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*model.Assignment, int, bool) {
	unit := chi.URLParam(r, "unit")
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return nil, 0, false
	}
	a, err := s.planner.Find(unit, idx)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, 0, false
	}
	return a, idx, true
}

// indexOf is the position of a in its group, or -1.
func (s *Server) indexOf(a *model.Assignment) int {
	for _, g := range s.planner.Groups() {
		if g.UnitCode != a.UnitCode {
			continue
		}
		for i, m := range g.Assignments {
			if m == a {
				return i
			}
		}
	}
	return -1
}

func decodeCreateRequest(w http.ResponseWriter, r *http.Request) (planner.CreateRequest, bool) {
	var body createRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return planner.CreateRequest{}, false
	}
	if body.Start.IsZero() || body.End.IsZero() {
		writeError(w, http.StatusBadRequest, "start and end are required")
		return planner.CreateRequest{}, false
	}
	return planner.CreateRequest{
		Name:     body.Name,
		UnitCode: body.UnitCode,
		Color:    body.Color,
		TypeID:   body.TypeID,
		Start:    body.Start,
		End:      body.End,
	}, true
}

func writePlannerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrUnknownTemplate):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrReversedRange):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		appLog.Error("planner request failed", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
