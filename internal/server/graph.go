package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/doctriage/pkg/errors"
	"github.com/matzehuels/doctriage/pkg/graph"
	"github.com/matzehuels/doctriage/pkg/observability"
	"github.com/matzehuels/doctriage/pkg/pipeline"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/interact"
	"github.com/matzehuels/doctriage/pkg/render/relgraph/layout"
	"github.com/matzehuels/doctriage/pkg/storage"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatOps:  "application/json",
}

// maxRemembered bounds the number of remembered layouts.
const maxRemembered = 64

// viewKey identifies a solved picture: the graph content it was solved from
// and the viewport and solver settings the client asked for.
type viewKey struct {
	bundle        string
	width, height float64
	focus, scope  string
	seed          uint64
	iterations    int
}

func keyOf(bundleHash string, opts pipeline.Options) viewKey {
	return viewKey{
		bundle:     bundleHash,
		width:      opts.Width,
		height:     opts.Height,
		focus:      opts.Focus,
		scope:      opts.Scope,
		seed:       opts.Seed,
		iterations: opts.Iterations,
	}
}

// remember stores l, evicting the oldest entry once maxRemembered is reached.
func (s *Server) remember(k viewKey, l layout.Layout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.layouts[k]; !ok {
		if len(s.order) >= maxRemembered {
			delete(s.layouts, s.order[0])
			s.order = s.order[1:]
		}
		s.order = append(s.order, k)
	}
	s.layouts[k] = l
}

func (s *Server) recall(k viewKey) (layout.Layout, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.layouts[k]
	return l, ok
}

// forget drops every remembered layout. Mutating handlers call it so stale
// node sets are never hit-tested.
func (s *Server) forget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.layouts)
	s.order = s.order[:0]
}

// remembered reports how many layouts are held.
func (s *Server) remembered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.layouts)
}

func (s *Server) bundle(r *http.Request) (graph.Bundle, error) {
	documents, rels, err := storage.Snapshot(r.Context(), s.store)
	if err != nil {
		return graph.Bundle{}, err
	}
	return graph.NewBundle(documents, rels), nil
}

// renderGraph renders the whole workspace graph in the format named by the
// path extension.
func (s *Server) renderGraph(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.graphOptions(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}

	b, err := s.bundle(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	hash, err := pipeline.BundleHash(b)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), b, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.remember(keyOf(hash, opts), res.Layout)

	w.Header().Set("Content-Type", contentTypes[format])
	if res.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

type hitResponse struct {
	Hit  bool          `json:"hit"`
	Mode string        `json:"mode"`
	X    float64       `json:"x"`
	Y    float64       `json:"y"`
	Node *layout.Node  `json:"node,omitempty"`
	At   *layout.Point `json:"at,omitempty"`
}

// hitTest resolves a pointer position against the layout last rendered for
// the same graph content and viewport. Without one, the layout is solved
// from the query.
func (s *Server) hitTest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "x and y must be numbers"))
		return
	}
	modeName := q.Get("mode")
	if modeName != "" && modeName != string(interact.ModeClick) && modeName != string(interact.ModeHover) {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "mode must be click or hover, got %q", modeName))
		return
	}
	mode := interact.ParseMode(modeName)

	opts, err := s.graphOptions(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := opts.ValidateForLayout(); err != nil {
		s.writeError(w, r, err)
		return
	}

	b, err := s.bundle(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	hash, err := pipeline.BundleHash(b)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	k := keyOf(hash, opts)
	l, ok := s.recall(k)
	if !ok {
		if l, err = s.runner.Layout(r.Context(), b, opts); err != nil {
			s.writeError(w, r, err)
			return
		}
		s.remember(k, l)
	}

	n, hit := interact.HitTest(l, x, y, mode.Tolerance())
	observability.Interaction().OnHitTest(r.Context(), string(mode), hit)

	resp := hitResponse{Hit: hit, Mode: string(mode), X: x, Y: y}
	if hit {
		p, _ := l.Position(n.ID)
		resp.Node, resp.At = &n, &p
	}
	writeJSON(w, http.StatusOK, resp)
}

// graphOptions reads pipeline options from query parameters on top of the
// server defaults.
func (s *Server) graphOptions(q url.Values) (pipeline.Options, error) {
	opts := s.defaults
	opts.Formats = nil
	opts.Logger = s.logger

	floats := map[string]*float64{"width": &opts.Width, "height": &opts.Height, "scale": &opts.Scale}
	for key, dst := range floats {
		if raw := q.Get(key); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s: expected a number, got %q", key, raw)
			}
			*dst = v
		}
	}
	if raw := q.Get("seed"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "seed: expected an unsigned integer, got %q", raw)
		}
		opts.Seed = v
	}
	if raw := q.Get("iterations"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "iterations: expected an integer, got %q", raw)
		}
		opts.Iterations = v
	}
	bools := map[string]*bool{"legend": &opts.Legend, "titles": &opts.Titles, "detailed": &opts.Detailed, "refresh": &opts.Refresh}
	for key, dst := range bools {
		if raw := q.Get(key); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s: expected a boolean, got %q", key, raw)
			}
			*dst = v
		}
	}
	if v := q.Get("focus"); v != "" {
		opts.Focus = v
	}
	if v := q.Get("scope"); v != "" {
		opts.Scope = v
	}
	if v := q.Get("renderer"); v != "" {
		opts.Renderer = v
	}
	if v := q.Get("engine"); v != "" {
		opts.Engine = v
	}
	return opts, nil
}
