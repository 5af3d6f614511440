package serverapp

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"weeklytrack/internal/analytics"
	"weeklytrack/internal/checklist"
	"weeklytrack/internal/config"
	"weeklytrack/internal/dates"
	"weeklytrack/internal/httpmw"
	"weeklytrack/internal/storage"
	"weeklytrack/internal/task"
	staticfiles "weeklytrack/static"
	"weeklytrack/ui/page"
)

type Options struct {
	Config        *config.Config
	StaticDir     string
	UseDiskStatic bool
	Logger        *log.Logger

	// Now overrides the reference clock; tests use it to pin "today".
	Now func() time.Time
}

// App bundles the wired stores so cmd binaries can share them with the
// HTTP handler.
type App struct {
	Tasks     *task.Store
	Checklist *checklist.Store
	Blobs     storage.Store
}

func (a *App) Close() error {
	return a.Blobs.Close()
}

// NewApp opens the configured storage backend and loads both collections.
func NewApp(cfg *config.Config, logger *log.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	blobs, err := storage.Open(cfg.Storage.Backend, cfg.Storage.DataDir, cfg.Storage.SQLitePath)
	if err != nil {
		return nil, err
	}
	return &App{
		Tasks:     task.NewStore(blobs, logger),
		Checklist: checklist.NewStore(blobs, logger),
		Blobs:     blobs,
	}, nil
}

// NewHandler wires the full HTTP surface over an App.
func NewHandler(app *App, opts Options) (http.Handler, error) {
	if app == nil {
		return nil, errors.New("app is required")
	}
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if strings.TrimSpace(opts.StaticDir) == "" {
		opts.StaticDir = "static"
	}

	mux := http.NewServeMux()

	staticHandler := http.FileServer(http.FS(staticfiles.EmbeddedFS()))
	if opts.UseDiskStatic {
		staticHandler = http.FileServer(http.Dir(opts.StaticDir))
	}
	mux.Handle("/static/", http.StripPrefix("/static/", staticHandler))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "weeklytrack",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	taskHandler := task.NewHandler(app.Tasks)
	taskHandler.SetNow(opts.Now)
	mux.HandleFunc("/api/tasks", taskHandler.TasksRoot)
	mux.HandleFunc("/api/tasks/order", taskHandler.TasksOrder)
	mux.HandleFunc("/api/tasks/export", taskHandler.TasksExport)
	mux.HandleFunc("/api/tasks/", taskHandler.TasksSub)

	checklistHandler := checklist.NewHandler(app.Checklist)
	checklistHandler.SetNow(opts.Now)
	mux.HandleFunc("/api/checklist", checklistHandler.WeekRoot)
	mux.HandleFunc("/api/checklist/summary", checklistHandler.Summary)
	mux.HandleFunc("/api/checklist/items", checklistHandler.Items)
	mux.HandleFunc("/api/checklist/items/", checklistHandler.Items)

	mux.HandleFunc("/api/analytics", analyticsHandler(app, opts))

	dashboard := templ.Handler(page.Dashboard(opts.Config.UI.Title))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		dashboard.ServeHTTP(w, r)
	})

	return httpmw.Chain(
		mux,
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
		httpmw.WithAccessLog(opts.Logger),
	), nil
}

// analyticsHandler serves the composite report. Optional query params:
// weeks=N overrides the trend window, today=YYYY-MM-DD pins the reference
// date (useful for inspection and tests).
func analyticsHandler(app *App, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
			return
		}

		weeks := opts.Config.Analytics.TrendWeeks
		if v := r.URL.Query().Get("weeks"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": "weeks must be a positive integer"})
				return
			}
			weeks = n
		}

		today := opts.Now()
		if v := r.URL.Query().Get("today"); v != "" {
			t, err := dates.ParseKey(v)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
				return
			}
			today = t
		}

		report := analytics.BuildReport(app.Tasks.Snapshot(), app.Checklist.All(), weeks, today)
		writeJSON(w, http.StatusOK, report)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
