package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"weeklytrack/internal/export"
	"weeklytrack/internal/model"
)

type Handler struct {
	store *Store
	now   func() time.Time
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store, now: time.Now}
}

// SetNow overrides the handler clock for tests.
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

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

// Patch is a partial update; nil pointer means "no change".
type Patch struct {
	Name     *string `json:"name,omitempty"`
	Interval *int    `json:"interval,omitempty"`
}

// /api/tasks  (collection)
func (h *Handler) TasksRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, 200, h.store.Snapshot())
		return

	case http.MethodPost:
		var in struct {
			Name     string `json:"name"`
			Interval int    `json:"interval"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		t, err := h.store.Add(in.Name, in.Interval)
		if errors.Is(err, ErrEmptyName) {
			writeErr(w, 400, err.Error())
			return
		}
		if err != nil {
			writeErr(w, 500, err.Error())
			return
		}
		writeJSON(w, 201, t)
		return

	default:
		writeErr(w, 405, "method not allowed")
		return
	}
}

// /api/tasks/order  (explicit full ordering)
func (h *Handler) TasksOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeErr(w, 405, "method not allowed")
		return
	}

	var in struct {
		IDs  []string `json:"ids"`
		From *int     `json:"from"`
		To   *int     `json:"to"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}

	if in.From != nil && in.To != nil {
		if err := h.store.Reorder(*in.From, *in.To); err != nil {
			if errors.Is(err, ErrBadIndex) {
				writeErr(w, 400, err.Error())
				return
			}
			writeErr(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, h.store.Snapshot())
		return
	}

	ids := make([]model.TaskID, 0, len(in.IDs))
	for _, s := range in.IDs {
		s = strings.TrimSpace(s)
		if s != "" {
			ids = append(ids, model.TaskID(s))
		}
	}
	if err := h.store.ReorderByID(ids); err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, h.store.Snapshot())
}

// /api/tasks/export  (CSV download)
func (h *Handler) TasksExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}

	today := h.now()
	rows := export.Rows(h.store.Snapshot(), today)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(today)))
	if err := export.WriteCSV(w, rows); err != nil {
		// Headers are already out; nothing useful left to send.
		return
	}
}

// /api/tasks/{id} and subresources
func (h *Handler) TasksSub(w http.ResponseWriter, r *http.Request) {
	tail := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	tail = strings.Trim(tail, "/")
	if tail == "" {
		writeErr(w, 404, "not found")
		return
	}

	parts := strings.Split(tail, "/")
	id := model.TaskID(parts[0])

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			t, err := h.store.Get(id)
			if errors.Is(err, ErrNotFound) {
				writeErr(w, 404, "not found")
				return
			}
			if err != nil {
				writeErr(w, 500, err.Error())
				return
			}
			writeJSON(w, 200, t)
			return

		case http.MethodPatch:
			var p Patch
			if err := decodeJSON(r, &p); err != nil {
				writeErr(w, 400, "bad json")
				return
			}
			t, err := h.applyPatch(id, p)
			if errors.Is(err, ErrNotFound) {
				writeErr(w, 404, "not found")
				return
			}
			if errors.Is(err, ErrEmptyName) {
				writeErr(w, 400, err.Error())
				return
			}
			if err != nil {
				writeErr(w, 500, err.Error())
				return
			}
			writeJSON(w, 200, t)
			return

		case http.MethodDelete:
			err := h.store.Delete(id)
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

		default:
			writeErr(w, 405, "method not allowed")
			return
		}
	}

	if len(parts) == 2 && parts[1] == "toggle" {
		if r.Method != http.MethodPost {
			writeErr(w, 405, "method not allowed")
			return
		}
		var in struct {
			Date string `json:"date"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		t, err := h.store.ToggleDay(id, in.Date)
		if errors.Is(err, ErrNotFound) {
			writeErr(w, 404, "not found")
			return
		}
		if err != nil {
			writeErr(w, 400, err.Error())
			return
		}
		writeJSON(w, 200, t)
		return
	}

	if len(parts) == 2 && parts[1] == "count" {
		if r.Method != http.MethodPost {
			writeErr(w, 405, "method not allowed")
			return
		}
		var in struct {
			Date string `json:"date"`
			Op   string `json:"op"`
			N    int    `json:"n"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		op, err := ParseCountOp(in.Op)
		if err != nil {
			writeErr(w, 400, err.Error())
			return
		}
		t, err := h.store.AdjustCount(id, in.Date, op, in.N)
		if errors.Is(err, ErrNotFound) {
			writeErr(w, 404, "not found")
			return
		}
		if err != nil {
			writeErr(w, 400, err.Error())
			return
		}
		writeJSON(w, 200, t)
		return
	}

	writeErr(w, 404, "not found")
}

func (h *Handler) applyPatch(id model.TaskID, p Patch) (model.Task, error) {
	t, err := h.store.Get(id)
	if err != nil {
		return model.Task{}, err
	}
	if p.Name != nil {
		if t, err = h.store.Rename(id, *p.Name); err != nil {
			return model.Task{}, err
		}
	}
	if p.Interval != nil {
		if t, err = h.store.SetInterval(id, *p.Interval); err != nil {
			return model.Task{}, err
		}
	}
	return t, nil
}
