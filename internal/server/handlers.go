package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/leapquery/internal/browse"
	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/dialect"
)

// maxPageSize bounds the size query parameter and the size a cursor carries.
const maxPageSize = 1000

// Reserved query parameters of the entity page endpoint. Every other
// query parameter binds a named HQL parameter.
const (
	paramWhere  = "where"
	paramOrder  = "order"
	paramSize   = "size"
	paramCursor = "cursor"
)

type attributeView struct {
	Name     string `json:"name"`
	Column   string `json:"column"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

type entityView struct {
	Name       string          `json:"name"`
	Table      string          `json:"table"`
	ID         string          `json:"id"`
	Attributes []attributeView `json:"attributes"`
}

type pageView struct {
	Rows           []map[string]any `json:"rows"`
	Page           int              `json:"page"`
	NextCursor     string           `json:"next_cursor,omitempty"`
	PreviousCursor string           `json:"previous_cursor,omitempty"`
}

type queryRequest struct {
	HQL    string            `json:"hql"`
	Params map[string]string `json:"params"`
}

type queryView struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"dialect":  s.factory.Dialect().Name,
		"entities": len(s.factory.Models().Entities()),
	})
}

func (s *Server) handleDialects(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dialect.Describe())
}

func (s *Server) handleEntities(w http.ResponseWriter, _ *http.Request) {
	entities := s.factory.Models().Entities()
	out := make([]entityView, 0, len(entities))
	for _, e := range entities {
		v := entityView{Name: e.Name, Table: e.Table, ID: e.ID}
		for i, a := range e.Attributes {
			v.Attributes = append(v.Attributes, attributeView{
				Name:     a.Name,
				Column:   a.Column,
				Type:     a.Type.String(),
				Nullable: e.Nullable(&e.Attributes[i]),
			})
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleEntityPage serves one keyset page of an entity:
//
//	GET /api/entities/Person?where=e.lastName = :name&name=Doe&order=dob:desc,id&size=10
//
// The where clause refers to the entity as e. The next page is read by
// repeating the request with cursor set to next_cursor; the cursor carries
// the order and size but not the where clause.
func (s *Server) handleEntityPage(w http.ResponseWriter, r *http.Request) {
	e, ok := s.factory.Models().Entity(chi.URLParam(r, "entity"))
	if !ok {
		s.writeError(w, &core.SchemaError{Entity: chi.URLParam(r, "entity")})
		return
	}

	q := r.URL.Query()
	hql := "from " + e.Name + " e"
	if where := q.Get(paramWhere); where != "" {
		hql += " where " + where
	}

	req := browse.PageRequest{
		HQL:     hql,
		Order:   q.Get(paramOrder),
		Cursor:  q.Get(paramCursor),
		Params:  map[string]any{},
		MaxSize: maxPageSize,
	}
	if raw := q.Get(paramSize); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 || size > maxPageSize {
			s.writeError(w, core.NewInvalidArgument("size", fmt.Sprintf("must be between 1 and %d", maxPageSize)))
			return
		}
		req.Size = size
	}
	for name, values := range q {
		switch name {
		case paramWhere, paramOrder, paramSize, paramCursor:
			continue
		}
		req.Params[name] = browse.ParseParam(values[0])
	}

	sess := s.factory.Open()
	defer func() { _ = sess.Close() }()

	res, err := browse.Page(r.Context(), sess, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageView{
		Rows:           res.Records(),
		Page:           res.Number,
		NextCursor:     res.NextCursor,
		PreviousCursor: res.PreviousCursor,
	})
}

// handleQuery runs an ad-hoc query from a JSON body.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var body queryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, core.NewInvalidArgument("query", "malformed request body"))
		return
	}
	if body.HQL == "" {
		s.writeError(w, core.NewInvalidArgument("query", "hql is required"))
		return
	}

	sess := s.factory.Open()
	defer func() { _ = sess.Close() }()

	res, err := browse.Run(r.Context(), sess, body.HQL, browse.ParseParams(body.Params))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, queryView{Columns: res.Columns, Rows: res.Records()})
}

// handleEvents streams reload events as server-sent events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.notifier.subscribe()
	defer s.notifier.unsubscribe(ch)

	_, _ = fmt.Fprint(w, ": connected\n\n")
	if err := rc.Flush(); err != nil {
		s.logger.Debug("event stream cannot flush", "error", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			data, err := json.Marshal(ev)
			if err != nil {
				s.logger.Error("encoding event", "error", err)
				continue
			}
			_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

// writeError maps query errors to HTTP statuses: unknown entities are
// 404, other argument errors 400, everything else 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var schemaErr *core.SchemaError
	switch {
	case errors.As(err, &schemaErr) && schemaErr.Attribute == "":
		status = http.StatusNotFound
	case errors.Is(err, core.ErrInvalidArgument):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
