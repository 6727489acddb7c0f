package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/treeideals/pkg/bench"
	"github.com/matzehuels/treeideals/pkg/buildinfo"
	"github.com/matzehuels/treeideals/pkg/enumerate"
	apperrors "github.com/matzehuels/treeideals/pkg/errors"
	"github.com/matzehuels/treeideals/pkg/forest"
	"github.com/matzehuels/treeideals/pkg/ideal"
	treeio "github.com/matzehuels/treeideals/pkg/io"
	"github.com/matzehuels/treeideals/pkg/partition"
	"github.com/matzehuels/treeideals/pkg/popjumppush"
	"github.com/matzehuels/treeideals/pkg/render"
	"github.com/matzehuels/treeideals/pkg/samples"
)

// maxBenchIdeals bounds the trees a benchmark request may enumerate.
const maxBenchIdeals = 1 << 26

// treeHandler serves a request about one tree. name is empty for POSTed
// trees.
type treeHandler func(w http.ResponseWriter, r *http.Request, t forest.Tree, name string)

func (s *Server) withSample(h treeHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if err := apperrors.ValidateSampleName(name); err != nil {
			s.writeError(w, err)
			return
		}
		t, err := samples.Get(name)
		if err != nil {
			s.writeError(w, err)
			return
		}
		h(w, r, t, name)
	}
}

func (s *Server) withBody(h treeHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := treeio.Read(http.MaxBytesReader(w, r.Body, maxBodyBytes), treeio.FormatJSON)
		if err != nil {
			s.writeError(w, err)
			return
		}
		h(w, r, t, "")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, buildinfo.Get())
}

type sampleSummary struct {
	Name   string `json:"name"`
	Nodes  int    `json:"nodes"`
	Ideals uint64 `json:"ideals"`
}

func (s *Server) handleSamples(w http.ResponseWriter, r *http.Request) {
	names := samples.Names()
	out := make([]sampleSummary, 0, len(names))
	for _, name := range names {
		t := samples.MustGet(name)
		out = append(out, sampleSummary{Name: name, Nodes: t.Len(), Ideals: t.CountSubtrees()})
	}
	s.writeJSON(w, http.StatusOK, out)
}

type treeResponse struct {
	Name     string `json:"name,omitempty"`
	Root     int    `json:"root"`
	Parents  []int  `json:"parents"`
	Children []int  `json:"children"`
	Ideals   uint64 `json:"ideals"`
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request, t forest.Tree, name string) {
	s.writeJSON(w, http.StatusOK, treeResponse{
		Name: name, Root: t.Root, Parents: t.Parents, Children: t.Children, Ideals: t.CountSubtrees(),
	})
}

type countResponse struct {
	Name   string `json:"name,omitempty"`
	Nodes  int    `json:"nodes"`
	At     int    `json:"at,omitempty"`
	Ideals uint64 `json:"ideals"`
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request, t forest.Tree, name string) {
	at, err := intParam(r, "at", 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := countResponse{Name: name, Nodes: t.Len(), At: at}
	if at == 0 {
		resp.Ideals = t.CountSubtrees()
	} else if _, ok := t.Positions()[at]; !ok {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown node %d", at))
		return
	} else {
		resp.Ideals = t.CountSubtreesAt(at)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type idealsResponse struct {
	Name      string           `json:"name,omitempty"`
	Engine    enumerate.Engine `json:"engine"`
	Mode      string           `json:"mode"`
	Total     uint64           `json:"total"`
	Truncated bool             `json:"truncated"`
	Ideals    [][]int          `json:"ideals"`
	Workers   []int            `json:"workers,omitempty"`
}

// boundedCollector gathers at most limit ideals from any number of
// workers.
type boundedCollector struct {
	mu      sync.Mutex
	mode    ideal.Mode
	limit   int
	ideals  [][]int
	workers []int
}

func (c *boundedCollector) Visit(v ideal.View) bool {
	form := v.Form(c.mode)
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.ideals) >= c.limit {
		return false
	}
	c.ideals = append(c.ideals, form)
	c.workers = append(c.workers, v.Worker())
	return len(c.ideals) < c.limit
}

func (s *Server) handleIdeals(w http.ResponseWriter, r *http.Request, t forest.Tree, name string) {
	q := r.URL.Query()
	engine, err := enumerate.ParseEngine(stringParam(q.Get("engine"), string(enumerate.KodaRuskey)))
	if err != nil {
		s.writeError(w, err)
		return
	}
	mode, err := ideal.ParseMode(stringParam(q.Get("mode"), ideal.ModeLabels.String()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	limit, err := intParam(r, "limit", s.opts.MaxIdeals)
	if err != nil {
		s.writeError(w, err)
		return
	}
	workers, err := intParam(r, "workers", s.opts.Workers)
	if err != nil {
		s.writeError(w, err)
		return
	}

	col := &boundedCollector{mode: mode, limit: min(max(1, limit), s.opts.MaxIdeals)}
	if _, err := enumerate.Run(r.Context(), engine, t, enumerate.Options{Workers: workers}, enumerate.Shared(col)); err != nil {
		s.writeError(w, err)
		return
	}
	total := t.CountSubtrees()
	resp := idealsResponse{
		Name:      name,
		Engine:    engine,
		Mode:      mode.String(),
		Total:     total,
		Truncated: uint64(len(col.ideals)) < total,
		Ideals:    col.ideals,
	}
	if engine == enumerate.Parallel {
		resp.Workers = col.workers
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request, t forest.Tree, name string) {
	workers, err := intParam(r, "workers", s.opts.Workers)
	if err != nil {
		s.writeError(w, err)
		return
	}
	layout, err := popjumppush.Prepare(t)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, partition.Plan(layout.Jump(), workers))
}

func (s *Server) handleBench(w http.ResponseWriter, r *http.Request, t forest.Tree, name string) {
	engine, err := enumerate.ParseEngine(stringParam(r.URL.Query().Get("engine"), string(enumerate.KodaRuskey)))
	if err != nil {
		s.writeError(w, err)
		return
	}
	reps, err := intParam(r, "reps", 1)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if reps < 1 || reps > s.opts.MaxReps {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "reps must be between 1 and %d", s.opts.MaxReps))
		return
	}
	workers, err := intParam(r, "workers", s.opts.Workers)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if n := t.CountSubtrees(); n > maxBenchIdeals {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "%s has %d ideals, benchmarks allow at most %d", name, n, maxBenchIdeals))
		return
	}

	report, hit, err := s.opts.Store.RunCached(r.Context(), engine, t, bench.Options{Reps: reps, Workers: workers, Sample: name})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request, t forest.Tree, name string) {
	q := r.URL.Query()
	active, err := parseLabels(q.Get("ideal"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(active) > 0 {
		if err := t.CheckIdeal(active); err != nil {
			s.writeError(w, err)
			return
		}
	}
	dot := render.ToDOT(t, render.Options{Active: active, Title: name, Positions: q.Get("positions") == "true"})

	switch stringParam(q.Get("format"), "svg") {
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(dot))
	case "svg":
		svg, err := render.RenderSVG(r.Context(), dot)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(svg)
	default:
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidFormat, "format %q (want svg or dot)", q.Get("format")))
	}
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.opts.Logger.Warn("encode response", "err", err)
	}
}

type errorResponse struct {
	Code  apperrors.Code `json:"code,omitempty"`
	Error string         `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.opts.Logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, errorResponse{Code: apperrors.GetCode(err), Error: apperrors.UserMessage(err)})
}

func stringParam(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intParam(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "query parameter %s", key)
	}
	return n, nil
}

func parseLabels(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "ideal label %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}
