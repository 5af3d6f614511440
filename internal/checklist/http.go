package checklist

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"weeklytrack/internal/analytics"
	"weeklytrack/internal/dates"
)

type Handler struct {
	store *Store
	now   func() time.Time
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store, now: time.Now}
}

func (h *Handler) SetNow(now func() time.Time) {
	h.now = now
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// /api/checklist?week=YYYY-MM-DD  (defaults to the current week)
func (h *Handler) WeekRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}

	key := strings.TrimSpace(r.URL.Query().Get("week"))
	if key == "" {
		key = dates.FormatKey(h.now())
	}
	week, err := h.store.Week(key)
	if err != nil {
		writeErr(w, 400, err.Error())
		return
	}
	start, _ := dates.ParseKey(week.StartDate)
	writeJSON(w, 200, map[string]any{
		"week":    week,
		"label":   dates.DisplayWeek(start, h.now()),
		"range":   dates.FormatWeekRange(start),
		"isToday": dates.FormatKey(dates.WeekStart(h.now())) == week.StartDate,
	})
}

// /api/checklist/summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}
	writeJSON(w, 200, analytics.SummarizeChecklist(h.store.All()))
}

// /api/checklist/items and /api/checklist/items/{id}[/toggle]
func (h *Handler) Items(w http.ResponseWriter, r *http.Request) {
	tail := strings.TrimPrefix(r.URL.Path, "/api/checklist/items")
	tail = strings.Trim(tail, "/")

	if tail == "" {
		if r.Method != http.MethodPost {
			writeErr(w, 405, "method not allowed")
			return
		}
		var in struct {
			Date string `json:"date"`
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		item, err := h.store.AddItem(in.Date, in.Name)
		if errors.Is(err, ErrEmptyName) {
			writeErr(w, 400, err.Error())
			return
		}
		if err != nil {
			writeErr(w, 400, err.Error())
			return
		}
		writeJSON(w, 201, item)
		return
	}

	parts := strings.Split(tail, "/")
	id := parts[0]

	if len(parts) == 1 {
		if r.Method != http.MethodDelete {
			writeErr(w, 405, "method not allowed")
			return
		}
		err := h.store.DeleteItem(id)
		if errors.Is(err, ErrNotFound) {
			writeErr(w, 404, "not found")
			return
		}
		if err != nil {
			writeErr(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, map[string]any{"ok": true})
		return
	}

	if len(parts) == 2 && parts[1] == "toggle" {
		if r.Method != http.MethodPost {
			writeErr(w, 405, "method not allowed")
			return
		}
		item, err := h.store.ToggleItem(id)
		if errors.Is(err, ErrNotFound) {
			writeErr(w, 404, "not found")
			return
		}
		if err != nil {
			writeErr(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, item)
		return
	}

	writeErr(w, 404, "not found")
}
