package web

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/addrcheck/internal/demo"
	"github.com/UnknownOlympus/addrcheck/internal/selftest"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html
var templateFS embed.FS

// SuiteRunner runs the live self-test suite.
type SuiteRunner interface {
	Run(ctx context.Context) *selftest.Report
}

// DemoRunner runs the demos.
type DemoRunner interface {
	Run(ctx context.Context) []demo.Entry
	Inputs() demo.Inputs
}

// Options configures the router.
type Options struct {
	// TestsEnabled exposes the live self-test page.
	TestsEnabled bool
	Gatherer     prometheus.Gatherer
}

type handler struct {
	log   *slog.Logger
	tests SuiteRunner
	demos DemoRunner
	opts  Options
	pages *template.Template
}

// NewRouter creates the HTTP router serving the HTML pages, the health check and the metrics.
func NewRouter(log *slog.Logger, tests SuiteRunner, demos DemoRunner, opts Options) *mux.Router {
	h := &handler{
		log:   log,
		tests: tests,
		demos: demos,
		opts:  opts,
		pages: template.Must(template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html")),
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	router.HandleFunc("/", h.showTests).Methods(http.MethodGet).Queries("page", "tests")
	router.HandleFunc("/", h.showDemo).Methods(http.MethodGet).Queries("page", "demo")
	router.HandleFunc("/", h.showIndex).Methods(http.MethodGet)

	return router
}

func (h *handler) healthz(writer http.ResponseWriter, req *http.Request) {
	h.log.DebugContext(req.Context(), "Performing health checks...")
	writer.WriteHeader(http.StatusOK)
	if _, err := writer.Write([]byte("OK")); err != nil {
		h.log.ErrorContext(req.Context(), "failed to write reply", "error", err)
	}
}

type indexPage struct {
	Inputs       demo.Inputs
	TestsEnabled bool
}

func (h *handler) showIndex(writer http.ResponseWriter, req *http.Request) {
	h.render(writer, req, "index.html", indexPage{Inputs: h.demos.Inputs(), TestsEnabled: h.opts.TestsEnabled})
}

type demoPage struct {
	Entries []demo.Entry
}

func (h *handler) showDemo(writer http.ResponseWriter, req *http.Request) {
	h.render(writer, req, "demo.html", demoPage{Entries: h.demos.Run(req.Context())})
}

func (h *handler) showTests(writer http.ResponseWriter, req *http.Request) {
	if !h.opts.TestsEnabled {
		h.log.DebugContext(req.Context(), "Self-test page requested outside of development")
		h.showIndex(writer, req)
		return
	}

	report := h.tests.Run(req.Context())
	h.log.InfoContext(req.Context(), "Self-test suite finished",
		"passed", report.Passed,
		"total", report.Total,
		"duration", report.Duration,
	)
	h.render(writer, req, "tests.html", report)
}

// render buffers the page so a template error still ends as a 500.
func (h *handler) render(writer http.ResponseWriter, req *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, name, data); err != nil {
		h.log.ErrorContext(req.Context(), "failed to render page", "page", name, "error", err)
		http.Error(writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(writer); err != nil {
		h.log.ErrorContext(req.Context(), "failed to write reply", "page", name, "error", err)
	}
}
