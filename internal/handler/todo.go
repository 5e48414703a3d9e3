package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/web3-frozen/todo-board/internal/cache"
	"github.com/web3-frozen/todo-board/internal/metrics"
	"github.com/web3-frozen/todo-board/internal/model"
	"github.com/web3-frozen/todo-board/internal/queue"
	"github.com/web3-frozen/todo-board/internal/store"
)

const maxBodyBytes = 1 << 20

// TodoHandler serves /api/todos. cache and producer are optional.
type TodoHandler struct {
	store    store.Store
	cache    *cache.RedisCache
	producer *queue.KafkaProducer
	logger   *slog.Logger
	now      func() time.Time
}

func NewTodoHandler(s store.Store, c *cache.RedisCache, p *queue.KafkaProducer, l *slog.Logger) *TodoHandler {
	return &TodoHandler{store: s, cache: c, producer: p, logger: l, now: time.Now}
}

func (h *TodoHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/starred", h.Starred)
	r.Get("/search", h.Search)
	r.Get("/tags", h.Tags)
	r.Get("/overdue", h.Overdue)
	r.Get("/today", h.DueToday)
	r.Get("/statistics", h.Statistics)
	r.Get("/status/{completed}", h.ByStatus)
	r.Get("/priority/{priority}", h.ByPriority)
	r.Get("/tag/{tag}", h.ByTag)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Patch("/{id}/star", h.ToggleStar)
	r.Delete("/{id}", h.Delete)
	return r
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	todos, err := h.store.List(r.Context(), r.URL.Query().Get("sort"))
	h.writeList(w, "list", start, todos, err)
}

func (h *TodoHandler) ByStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	completed, err := strconv.ParseBool(chi.URLParam(r, "completed"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "status must be true or false")
		return
	}
	todos, err := h.store.ListByStatus(r.Context(), completed)
	h.writeList(w, "list_by_status", start, todos, err)
}

func (h *TodoHandler) ByPriority(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	p, ok := model.ParsePriority(chi.URLParam(r, "priority"))
	if !ok {
		writeError(w, http.StatusBadRequest, "priority must be LOW, MEDIUM, or HIGH")
		return
	}
	todos, err := h.store.ListByPriority(r.Context(), p)
	h.writeList(w, "list_by_priority", start, todos, err)
}

func (h *TodoHandler) Starred(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	todos, err := h.store.ListStarred(r.Context())
	h.writeList(w, "list_starred", start, todos, err)
}

func (h *TodoHandler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	todos, err := h.store.Search(r.Context(), r.URL.Query().Get("q"))
	h.writeList(w, "search", start, todos, err)
}

func (h *TodoHandler) ByTag(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	todos, err := h.store.ListByTag(r.Context(), pathParam(r, "tag"))
	h.writeList(w, "list_by_tag", start, todos, err)
}

func (h *TodoHandler) Tags(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	tags, err := h.store.Tags(r.Context())
	metrics.Observe("tags", start, err)
	if err != nil {
		h.logger.Error("list tags", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list tags")
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (h *TodoHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	todos, err := h.store.ListOverdue(r.Context(), h.now())
	h.writeList(w, "list_overdue", start, todos, err)
}

func (h *TodoHandler) DueToday(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	dayStart, dayEnd := store.DayBounds(h.now())
	todos, err := h.store.ListDueBetween(r.Context(), dayStart, dayEnd)
	h.writeList(w, "list_due_today", start, todos, err)
}

func (h *TodoHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.cache != nil {
		if stats, err := h.cache.Statistics(r.Context()); err == nil {
			metrics.Observe("statistics", start, nil)
			writeJSON(w, http.StatusOK, stats)
			return
		}
	}

	stats, err := h.store.Statistics(r.Context(), h.now())
	metrics.Observe("statistics", start, err)
	if err != nil {
		h.logger.Error("compute statistics", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute statistics")
		return
	}
	if h.cache != nil {
		_ = h.cache.SetStatistics(r.Context(), stats)
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	// Try cache first
	if h.cache != nil {
		if todo, err := h.cache.Get(r.Context(), id); err == nil {
			metrics.Observe("get", start, nil)
			writeJSON(w, http.StatusOK, todo)
			return
		}
	}

	todo, err := h.store.Get(r.Context(), id)
	metrics.Observe("get", start, err)
	if err != nil {
		h.writeStoreError(w, "get todo", err)
		return
	}

	if h.cache != nil {
		_ = h.cache.Set(r.Context(), todo)
	}
	writeJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req model.CreateTodoRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := req.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	todo, err := h.store.Create(r.Context(), req)
	metrics.Observe("create", start, err)
	if err != nil {
		h.logger.Error("create todo", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create todo")
		return
	}
	metrics.TodoCreated(todo.Title)

	h.afterWrite(r, model.EventCreated, todo.ID, todo)
	writeJSON(w, http.StatusCreated, todo)
}

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req model.UpdateTodoRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := req.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	todo, err := h.store.Update(r.Context(), id, req)
	metrics.Observe("update", start, err)
	if err != nil {
		h.writeStoreError(w, "update todo", err)
		return
	}

	h.afterWrite(r, model.EventUpdated, todo.ID, todo)
	writeJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) ToggleStar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	todo, err := h.store.ToggleStar(r.Context(), id)
	metrics.Observe("toggle_star", start, err)
	if err != nil {
		h.writeStoreError(w, "toggle star", err)
		return
	}

	h.afterWrite(r, model.EventStarred, todo.ID, todo)
	writeJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	err := h.store.Delete(r.Context(), id)
	metrics.Observe("delete", start, err)
	if err != nil {
		h.writeStoreError(w, "delete todo", err)
		return
	}

	h.afterWrite(r, model.EventDeleted, id, nil)
	w.WriteHeader(http.StatusNoContent)
}

// afterWrite drops stale cache entries and publishes the change.
func (h *TodoHandler) afterWrite(r *http.Request, event string, id int64, data any) {
	if h.cache != nil {
		_ = h.cache.Delete(r.Context(), id)
		_ = h.cache.InvalidateStatistics(r.Context())
	}
	if h.producer != nil {
		h.producer.PublishEvent(r.Context(), event, id, data)
	}
}

func (h *TodoHandler) writeList(w http.ResponseWriter, op string, start time.Time, todos []model.Todo, err error) {
	metrics.Observe(op, start, err)
	if err != nil {
		h.logger.Error("list todos", "operation", op, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list todos")
		return
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	writeJSON(w, http.StatusOK, todos)
}

func (h *TodoHandler) writeStoreError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "todo not found")
		return
	}
	h.logger.Error(op, "error", err)
	writeError(w, http.StatusInternalServerError, "failed to "+op)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// pathParam undoes percent-encoding chi leaves in place when the request
// carries a raw path.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" || !strings.Contains(v, "%") {
		return v
	}
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
