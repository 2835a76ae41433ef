package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/pkg/buildinfo"
	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/graph"
	"github.com/matzehuels/sankeyflow/pkg/observability"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

const (
	defaultAddr     = "localhost:8080"
	shutdownTimeout = 5 * time.Second
)

// serveCommand creates the serve command that shows a diagram over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		df     diagramFlags
		addr   string
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "serve [input]",
		Short: "Serve an interactive diagram over HTTP",
		Long: `Serve an interactive diagram over HTTP.

The diagram is assembled once at startup. Routes:

  GET /                    interactive HTML page
  GET /api/diagram         the JSON document
  GET /api/frames          frame index, labels and sizes
  GET /api/frames/{index}  one frame (zero-based) with its snapshot
  GET /healthz             liveness check`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cfg, err := df.options(cmd, args)
			if err != nil {
				return err
			}
			opts.Formats = []string{pipeline.FormatHTML}
			opts.Width, opts.Height = width, height
			return c.runServe(cmd.Context(), opts, df.cache(cfg), addr)
		},
	}

	df.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().IntVar(&width, "width", 0, "canvas width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "canvas height in pixels")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts pipeline.Options, cs cacheSettings, addr string) error {
	runner, err := c.newRunner(ctx, cs)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	result, err := runner.Execute(ctx, opts)
	runner.Close()
	if err != nil {
		return err
	}

	handler, err := newServer(result.Document, result.Artifacts[pipeline.FormatHTML])
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	printSuccess("%s", result.Document.Title)
	printStats(result.Document.Stats.Nodes, result.Document.Stats.Edges, result.Document.Stats.Frames, result.CacheInfo.DocumentHit)
	printKeyValue("Serving", StyleLink.Render("http://"+ln.Addr().String()))
	printDetail("Press Ctrl+C to stop")

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		printInfo("Server stopped")
		return nil
	}
}

// =============================================================================
// HTTP Handlers
// =============================================================================

// server serves one assembled document. Its state is immutable after
// construction, so handlers need no locking.
type server struct {
	doc     graph.Document
	docJSON []byte
	page    []byte
}

// frameSummary is one entry of the /api/frames listing.
type frameSummary struct {
	Index     int     `json:"index"`
	Label     string  `json:"label"`
	Key       string  `json:"key"`
	Nodes     int     `json:"nodes"`
	Edges     int     `json:"edges"`
	TotalFlow float64 `json:"total_flow"`
}

// newServer builds the router for doc and its rendered HTML page.
func newServer(doc graph.Document, page []byte) (http.Handler, error) {
	data, err := graph.EncodeDocument(doc)
	if err != nil {
		return nil, err
	}
	s := &server{doc: doc, docJSON: data, page: page}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Server", buildinfo.UserAgent()))
	r.Use(observe)

	r.Get("/", s.handlePage)
	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/diagram", s.handleDiagram)
		r.Get("/frames", s.handleFrames)
		r.Get("/frames/{index}", s.handleFrame)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r, nil
}

// observe reports requests and responses to the server hooks.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.Server()
		start := time.Now()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

func (s *server) handlePage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(s.page)
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *server) handleDiagram(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.docJSON)
}

func (s *server) handleFrames(w http.ResponseWriter, _ *http.Request) {
	frames := make([]frameSummary, len(s.doc.Frames))
	for i, f := range s.doc.Frames {
		frames[i] = frameSummary{
			Index:     f.Index,
			Label:     f.Label,
			Key:       f.Key,
			Nodes:     len(f.Snapshot.Nodes),
			Edges:     len(f.Snapshot.Edges),
			TotalFlow: f.Snapshot.TotalFlow(),
		}
	}
	writeJSON(w, http.StatusOK, frames)
}

func (s *server) handleFrame(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "frame index must be an integer")
		return
	}
	f, err := s.doc.Frame(index)
	if err != nil {
		writeError(w, http.StatusNotFound, errors.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
