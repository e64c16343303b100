package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"motiffinder/internal/config"
	"motiffinder/internal/finder"
	"motiffinder/internal/logging"
	"motiffinder/internal/motif"
	"motiffinder/internal/render"
	"motiffinder/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// maxBodyBytes bounds submitted sequence text.
const maxBodyBytes = 4 << 20

func loadTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html")
}

// server carries what every handler needs. history is nil when run history is disabled.
type server struct {
	cfg       *config.Config
	finder    *finder.Finder
	history   *store.Store
	templates *template.Template
	logger    *log.Logger
}

// statusResponseWriter captures status and bytes written for logging
type statusResponseWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

// loggingMiddleware logs each request with method, path, status, size and duration
func loggingMiddleware(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w}
		next.ServeHTTP(srw, r)
		if srw.status == 0 {
			srw.status = http.StatusOK
		}
		logger.Info("request", "remote", r.RemoteAddr, "method", r.Method, "path", r.URL.RequestURI(),
			"status", srw.status, "bytes", srw.written, "duration", time.Since(start), "user_agent", r.UserAgent())
	})
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.indexHandler)
	mux.HandleFunc("POST /search", s.searchHandler)
	mux.HandleFunc("POST /api/search", s.apiSearchHandler)
	mux.HandleFunc("GET /api/runs", s.apiRunsHandler)
	mux.HandleFunc("GET /api/run/{id}", s.apiRunHandler)
	return loggingMiddleware(s.logger, mux)
}

type indexPage struct {
	Sequences      string
	MotifLength    int
	MinMotifLength int
	MaxMotifLength int
	Algorithms     []finder.Algorithm
}

func (s *server) indexHandler(w http.ResponseWriter, r *http.Request) {
	page := indexPage{
		Sequences:      r.URL.Query().Get("sequences"),
		MotifLength:    s.cfg.MotifLength,
		MinMotifLength: s.cfg.MinMotifLength,
		MaxMotifLength: s.cfg.MaxMotifLength,
		Algorithms:     finder.Algorithms,
	}
	if err := s.templates.ExecuteTemplate(w, "base.html", page); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type pwmRow struct {
	Symbol string
	Values []string
}

type resultPage struct {
	Warning   string
	Result    *finder.Result
	RunID     string
	View      render.View
	Positions []int
	PWM       []pwmRow
}

func newResultPage(res *finder.Result, runID string, view render.View) resultPage {
	page := resultPage{Result: res, RunID: runID, View: view}
	for i := 1; i <= res.Profile.Width(); i++ {
		page.Positions = append(page.Positions, i)
	}
	for _, n := range motif.Alphabet {
		row := pwmRow{Symbol: n.String()}
		for i := 0; i < res.Profile.Width(); i++ {
			row.Values = append(row.Values, strconv.FormatFloat(res.Profile.Prob(n, i), 'f', 2, 64))
		}
		page.PWM = append(page.PWM, row)
	}
	return page
}

// searchHandler runs a search from the HTML form and renders the result fragment.
func (s *server) searchHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	k := s.cfg.MotifLength
	if v := strings.TrimSpace(r.FormValue("motif_length")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.renderFragment(w, http.StatusOK, resultPage{Warning: finder.Warning(finder.ErrMotifLengthRange)})
			return
		}
		k = n
	}
	req, err := finder.NewRequest(r.FormValue("sequences"), k, r.FormValue("algorithm"))
	if err != nil {
		http.Error(w, "invalid sequences", http.StatusBadRequest)
		return
	}
	res, runID, err := s.search(r.Context(), req)
	if err != nil {
		if !finder.IsValidation(err) {
			http.Error(w, "search failed", http.StatusInternalServerError)
			return
		}
		s.renderFragment(w, http.StatusOK, resultPage{Warning: finder.Warning(err)})
		return
	}
	view := render.View{
		Alignment: r.FormValue("show_alignment") != "",
		Consensus: r.FormValue("show_consensus") != "",
		PWM:       r.FormValue("show_pwm") != "",
		Logo:      r.FormValue("show_logo") != "",
	}
	s.renderFragment(w, http.StatusOK, newResultPage(res, runID, view))
}

func (s *server) renderFragment(w http.ResponseWriter, status int, page resultPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, "result.html", page); err != nil {
		s.logger.Error("render result", "err", err)
	}
}

// apiSearchRequest is the JSON search body. An omitted motif_length means the
// configured default.
type apiSearchRequest struct {
	Sequences   string `json:"sequences"`
	MotifLength *int   `json:"motif_length,omitempty"`
	Algorithm   string `json:"algorithm"`
}

type apiSearchResponse struct {
	*finder.Result
	RunID string `json:"run_id,omitempty"`
}

// apiSearchHandler runs a search from a JSON body and returns the result as JSON.
func (s *server) apiSearchHandler(w http.ResponseWriter, r *http.Request) {
	var body apiSearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	k := s.cfg.MotifLength
	if body.MotifLength != nil {
		k = *body.MotifLength
	}
	req, err := finder.NewRequest(body.Sequences, k, body.Algorithm)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	res, runID, err := s.search(r.Context(), req)
	if err != nil {
		if finder.IsValidation(err) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"warning": finder.Warning(err), "error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "search failed"})
		return
	}
	writeJSON(w, http.StatusOK, apiSearchResponse{Result: res, RunID: runID})
}

// apiRunsHandler lists stored runs, newest first.
func (s *server) apiRunsHandler(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "run history disabled"})
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}
	runs, err := s.history.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("list runs", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read run history"})
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// apiRunHandler returns one stored run.
func (s *server) apiRunHandler(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "run history disabled"})
		return
	}
	id := strings.TrimSpace(r.PathValue("id"))
	run, err := s.history.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
		return
	}
	if err != nil {
		s.logger.Error("get run", "id", id, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read run history"})
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// search runs req, consulting and filling the run history when enabled. The
// returned run id is empty without history.
func (s *server) search(ctx context.Context, req finder.Request) (*finder.Result, string, error) {
	alg, err := s.finder.Validate(req)
	if err != nil {
		s.logger.Warn("search rejected", "warning", finder.Warning(err), "err", err)
		return nil, "", err
	}
	if s.history == nil {
		res, err := s.finder.Run(req)
		return res, "", err
	}
	id := store.Key(alg, req.MotifLength, req.Sequences)
	if res, ok, err := s.history.Lookup(ctx, alg, req.MotifLength, req.Sequences); err != nil {
		s.logger.Warn("history lookup failed", "err", err)
	} else if ok {
		s.logger.Debug("answered from run history", "id", id)
		return res, id, nil
	}
	res, err := s.finder.Run(req)
	if err != nil {
		return nil, "", err
	}
	if _, err := s.history.Save(ctx, req.Sequences, res); err != nil {
		s.logger.Warn("failed to save run", "id", id, "err", err)
		return res, "", nil
	}
	return res, id, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	configFlag := flag.String("config", "", "path to config.json (optional)")
	historyFlag := flag.String("history", "", "sqlite run history path (optional)")
	logFile := flag.String("log", "", "path to write logs (optional); logs always go to stderr")
	verbose := flag.Bool("verbose", false, "enable verbose (debug) logging")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *historyFlag != "" {
		cfg.HistoryDB = *historyFlag
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}

	logger, closeLog := logging.New(logging.Options{LogFile: cfg.LogFile, Level: cfg.LogLevel, Verbose: *verbose, Prefix: "motiffinder"})
	defer closeLog()

	tmpl, err := loadTemplates()
	if err != nil {
		logger.Fatal("failed to load templates", "err", err)
	}

	s := &server{
		cfg: cfg,
		finder: finder.New(finder.Options{
			MinMotifLength: cfg.MinMotifLength,
			MaxMotifLength: cfg.MaxMotifLength,
			MaxWorkload:    cfg.MaxWorkload,
		}, logger),
		templates: tmpl,
		logger:    logger,
	}
	if cfg.HistoryDB != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		s.history, err = store.Open(ctx, cfg.HistoryDB)
		cancel()
		if err != nil {
			logger.Fatal("failed to open run history", "path", cfg.HistoryDB, "err", err)
		}
		defer s.history.Close()
	}

	srv := &http.Server{Addr: *addr, Handler: s.routes(), ReadTimeout: 10 * time.Second, WriteTimeout: 2 * time.Minute}
	logger.Info("serving motif finder", "addr", *addr, "history_db", cfg.HistoryDB)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", "err", err)
	}
}
