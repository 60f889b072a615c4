package server

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/httputil"
	fio "github.com/matzehuels/forcelayout/pkg/io"
	"github.com/matzehuels/forcelayout/pkg/layout"
	"github.com/matzehuels/forcelayout/pkg/observability"
	"github.com/matzehuels/forcelayout/pkg/vec"
)

// =============================================================================
// Middleware
// =============================================================================

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"took", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// serialize holds the server lock for the whole request.
func (s *Server) serialize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Request and response bodies
// =============================================================================

type graphInfo struct {
	graph.Stats
	Center vec.Vec3 `json:"center"`
	Tick   uint64   `json:"tick"`
}

type vertexRequest struct {
	Label    string         `json:"label"`
	Position *vec.Vec3      `json:"position,omitempty"`
	Meta     graph.Metadata `json:"meta,omitempty"`
}

type vertexResponse struct {
	ID       graph.VertexID `json:"id"`
	Position vec.Vec3       `json:"position"`
}

type edgeRequest struct {
	Source   uint64         `json:"source"`
	Target   uint64         `json:"target"`
	Strength *float64       `json:"strength,omitempty"`
	Directed bool           `json:"directed"`
	Gravity  bool           `json:"gravity"`
	Meta     graph.Metadata `json:"meta,omitempty"`
}

type edgeResponse struct {
	ID           graph.EdgeID `json:"id"`
	Multiplicity int          `json:"multiplicity"`
}

type position struct {
	ID       graph.VertexID `json:"id"`
	Position vec.Vec3       `json:"position"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) describe(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, graphInfo{
		Stats:  s.g.Describe(),
		Center: s.g.Center(),
		Tick:   s.eng.Ticks(),
	})
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	s.g.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := fio.WriteGraph(s.g, &buf); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) importGraph(w http.ResponseWriter, r *http.Request) {
	if err := s.importLocked(r.Body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	s.describe(w, r)
}

func (s *Server) dotOptions(r *http.Request) (fio.DOTOptions, error) {
	opts := fio.DOTOptions{Scale: 1, Labels: r.URL.Query().Get("labels") != "false"}
	if raw := r.URL.Query().Get("scale"); raw != "" {
		scale, err := strconv.ParseFloat(raw, 64)
		if err != nil || scale <= 0 {
			return opts, errors.New(errors.ErrCodeInvalidArgument, "invalid scale %q", raw)
		}
		opts.Scale = scale
	}
	return opts, nil
}

func (s *Server) dot(w http.ResponseWriter, r *http.Request) {
	opts, err := s.dotOptions(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = w.Write([]byte(fio.ToDOT(s.g, opts)))
}

func (s *Server) svg(w http.ResponseWriter, r *http.Request) {
	opts, err := s.dotOptions(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out, err := fio.RenderSVG(r.Context(), fio.ToDOT(s.g, opts))
	if err != nil {
		httputil.WriteError(w, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(out)
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	if err := s.g.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func (s *Server) addVertex(w http.ResponseWriter, r *http.Request) {
	var req vertexRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := errors.ValidateLabel(req.Label); err != nil {
		httputil.WriteError(w, err)
		return
	}
	opts := graph.VertexOptions{Label: req.Label, Meta: req.Meta}
	if req.Position != nil {
		p := *req.Position
		for _, c := range []float64{p.X, p.Y, p.Z} {
			if err := errors.ValidateFinite("position", c); err != nil {
				httputil.WriteError(w, err)
				return
			}
		}
		opts.Position = p
	} else {
		// Placed before creation so hooks observe the scattered position.
		s.placed++
		opts.Position = layout.ScatterPosition(s.opts.Seed, graph.VertexID(s.placed), s.opts.ScatterRadius)
	}

	v, _ := s.g.Vertex(s.g.AddVertex(opts))
	httputil.WriteJSON(w, http.StatusCreated, vertexResponse{ID: v.ID, Position: v.Position})
}

func (s *Server) vertexParam(name, raw string) (graph.VertexHandle, error) {
	id, err := httputil.ParseID(name, raw)
	if err != nil {
		return graph.VertexHandle{}, err
	}
	v, ok := s.g.VertexByID(graph.VertexID(id))
	if !ok {
		return graph.VertexHandle{}, errors.New(errors.ErrCodeNotFound, "vertex %d not found", id)
	}
	return s.g.Handle(v), nil
}

func (s *Server) removeVertex(w http.ResponseWriter, r *http.Request) {
	h, err := s.vertexParam("vertex id", chi.URLParam(r, "id"))
	if err == nil {
		err = s.g.RemoveVertex(h)
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addEdge(w http.ResponseWriter, r *http.Request) {
	var req edgeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	// Unknown endpoints are a bad request here, not a missing resource.
	endpoint := func(name string, id uint64) (graph.VertexHandle, error) {
		v, ok := s.g.VertexByID(graph.VertexID(id))
		if !ok {
			return graph.VertexHandle{}, errors.New(errors.ErrCodeInvalidArgument, "%s vertex %d does not exist", name, id)
		}
		return s.g.Handle(v), nil
	}
	src, err := endpoint("source", req.Source)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	dst, err := endpoint("target", req.Target)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h, err := s.g.AddEdge(src, dst, graph.EdgeOptions{
		Strength: req.Strength,
		Directed: req.Directed,
		Gravity:  req.Gravity,
		Meta:     req.Meta,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	e, _ := s.g.Edge(h)
	httputil.WriteJSON(w, http.StatusCreated, edgeResponse{ID: e.ID, Multiplicity: e.Multiplicity()})
}

func (s *Server) removeEdge(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.ParseID("edge id", chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	e, ok := s.g.EdgeByID(graph.EdgeID(id))
	if !ok {
		httputil.WriteError(w, errors.New(errors.ErrCodeNotFound, "edge %d not found", id))
		return
	}
	if err := s.g.RemoveEdge(s.g.EdgeHandleOf(e)); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	n := 1
	if raw := r.URL.Query().Get("ticks"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > s.opts.MaxTicks {
			httputil.WriteError(w, errors.New(errors.ErrCodeInvalidArgument,
				"ticks must be between 1 and %d, got %q", s.opts.MaxTicks, raw))
			return
		}
		n = v
	}
	stats, err := s.eng.Run(r.Context(), n)
	if err != nil {
		httputil.WriteError(w, errors.Wrap(errors.ErrCodeInternal, err, "layout interrupted"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (s *Server) positions(w http.ResponseWriter, r *http.Request) {
	vs := s.g.Vertices()
	out := make([]position, len(vs))
	for i, v := range vs {
		out[i] = position{ID: v.ID, Position: v.Position}
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) eventsSince(w http.ResponseWriter, r *http.Request) {
	var since uint64
	if raw := r.URL.Query().Get("since"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httputil.WriteError(w, errors.New(errors.ErrCodeInvalidArgument, "invalid since %q", raw))
			return
		}
		since = v
	}
	events := s.events.Since(since)
	if events == nil {
		events = []observability.Event{}
	}
	first := s.events.FirstSeq()
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"first":     first,
		"last":      s.events.LastSeq(),
		"truncated": first > since+1,
		"events":    events,
	})
}

func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, s.eng.Config())
}

func (s *Server) putConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.eng.Config()
	if err := httputil.DecodeJSON(r, &cfg); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := s.eng.SetConfig(cfg); err != nil {
		httputil.WriteError(w, err)
		return
	}
	s.logger.Info("config updated", "source", "http")
	httputil.WriteJSON(w, http.StatusOK, s.eng.Config())
}
