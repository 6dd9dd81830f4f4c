// Package fakeapi is an in-memory stand-in for the bucket-list REST API. It backs
// the test suites and `dreams mock-server`; it is not a production server.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/idilsaglam/dreams/internal/logger"
	"github.com/idilsaglam/dreams/internal/model"
)

var allowedExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true}

const maxUpload = 16 << 20

type failRule struct {
	method  string
	pattern string
	calls   map[int]bool // empty = every call
	status  int
	seen    int
}

// Server holds items and uploaded files in memory.
type Server struct {
	mu      sync.Mutex
	items   map[int64]*model.Item
	files   map[string][]byte
	nextID  int64
	nextPID int64
	rules   []*failRule
	hits    map[string]int
	now     func() time.Time
}

func New() *Server {
	return &Server{
		items: map[int64]*model.Item{},
		files: map[string][]byte{},
		hits:  map[string]int{},
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SetClock pins timestamps for deterministic output.
func (s *Server) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Seed inserts an item as-is (ids assigned when zero) and returns it.
func (s *Server) Seed(it model.Item) model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it.ID == 0 {
		s.nextID++
		it.ID = s.nextID
	} else if it.ID > s.nextID {
		s.nextID = it.ID
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = model.Timestamp{Time: s.now()}
	}
	for i := range it.Photos {
		if it.Photos[i].ID == 0 {
			s.nextPID++
			it.Photos[i].ID = s.nextPID
		} else if it.Photos[i].ID > s.nextPID {
			s.nextPID = it.Photos[i].ID
		}
		it.Photos[i].ItemID = it.ID
	}
	cp := it
	cp.Photos = append([]model.Photo(nil), it.Photos...)
	s.items[it.ID] = &cp
	return cp
}

// FailCalls makes the listed 1-based calls matching method and pattern answer
// with 500. pattern uses path.Match syntax, e.g. "/api/items/*/photos".
// With no calls listed every matching request fails.
func (s *Server) FailCalls(method, pattern string, calls ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &failRule{method: method, pattern: pattern, calls: map[int]bool{}, status: http.StatusInternalServerError}
	for _, c := range calls {
		r.calls[c] = true
	}
	s.rules = append(s.rules, r)
}

// ClearFailures drops every FailCalls rule.
func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = nil
}

// Hits returns how many requests reached "METHOD /path".
func (s *Server) Hits(method, p string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+p]
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.countAndFail)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	r.Get("/uploads/{name}", s.handleUpload)

	r.Route("/api", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", s.listItems)
			r.Post("/", s.createItem)
			r.Put("/{id}", s.updateItem)
			r.Delete("/{id}", s.deleteItem)
			r.Post("/{id}/photos", s.uploadPhoto)
		})
		r.Delete("/photos/{id}", s.deletePhoto)
		r.Get("/stats", s.stats)
	})
	return r
}

func (s *Server) countAndFail(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := strings.TrimRight(r.URL.Path, "/")
		if p == "" {
			p = "/"
		}
		s.mu.Lock()
		s.hits[r.Method+" "+p]++
		status := 0
		for _, rule := range s.rules {
			if rule.method != r.Method {
				continue
			}
			if ok, _ := path.Match(rule.pattern, p); !ok {
				continue
			}
			rule.seen++
			if len(rule.calls) == 0 || rule.calls[rule.seen] {
				status = rule.status
			}
		}
		s.mu.Unlock()
		if status != 0 {
			logger.LogDebug("fakeapi: injected %d for %s %s", status, r.Method, p)
			writeJSON(w, status, map[string]string{"error": "injected failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listItems(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := make([]model.Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, copyItem(it))
	}
	s.mu.Unlock()
	// newest first, id as tiebreak
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt.Time) {
			return out[i].CreatedAt.After(out[j].CreatedAt.Time)
		}
		return out[i].ID > out[j].ID
	})
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var in model.NewItem
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Description == "" || in.AddedBy == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Description and added_by are required"})
		return
	}
	s.mu.Lock()
	s.nextID++
	it := &model.Item{
		ID:          s.nextID,
		Description: in.Description,
		AddedBy:     in.AddedBy,
		CreatedAt:   model.Timestamp{Time: s.now()},
		Photos:      []model.Photo{},
	}
	s.items[it.ID] = it
	out := copyItem(it)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch model.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	s.mu.Lock()
	it, found := s.items[id]
	if !found {
		s.mu.Unlock()
		http.NotFound(w, r)
		return
	}
	if patch.Description != nil {
		it.Description = *patch.Description
	}
	if patch.AddedBy != nil {
		it.AddedBy = *patch.AddedBy
	}
	if patch.IsCompleted != nil {
		it.IsCompleted = *patch.IsCompleted
		if it.IsCompleted {
			it.CompletedAt = model.At(s.now())
		} else {
			it.CompletedAt = nil
		}
	}
	out := copyItem(it)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	it, found := s.items[id]
	if found {
		for _, p := range it.Photos {
			delete(s.files, path.Base(p.PhotoPath))
		}
		delete(s.items, id)
	}
	s.mu.Unlock()
	if !found {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Item deleted successfully"})
}

func (s *Server) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	f, hdr, err := r.FormFile("photo")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No photo provided"})
		return
	}
	defer f.Close()
	ext := strings.ToLower(filepath.Ext(hdr.Filename))
	if !allowedExt[ext] {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid file type"})
		return
	}
	data, err := io.ReadAll(f)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read failed"})
		return
	}

	s.mu.Lock()
	it, found := s.items[id]
	if !found {
		s.mu.Unlock()
		http.NotFound(w, r)
		return
	}
	s.nextPID++
	name := fmt.Sprintf("%d_%d_%s", id, s.nextPID, filepath.Base(hdr.Filename))
	s.files[name] = data
	it.Photos = append(it.Photos, model.Photo{
		ID:         s.nextPID,
		PhotoPath:  "uploads/" + name,
		ItemID:     id,
		UploadedAt: model.At(s.now()),
	})
	out := copyItem(it)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deletePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	var owner *model.Item
	for _, it := range s.items {
		for i, p := range it.Photos {
			if p.ID == id {
				delete(s.files, path.Base(p.PhotoPath))
				it.Photos = append(it.Photos[:i], it.Photos[i+1:]...)
				owner = it
				break
			}
		}
		if owner != nil {
			break
		}
	}
	var out model.Item
	if owner != nil {
		out = copyItem(owner)
	}
	s.mu.Unlock()
	if owner == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) stats(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	var st model.Stats
	for _, it := range s.items {
		st.Total++
		if it.IsCompleted {
			st.Completed++
		}
	}
	s.mu.Unlock()
	st.Pending = st.Total - st.Completed
	if st.Total > 0 {
		st.CompletionPercentage = math.Round(float64(st.Completed)/float64(st.Total)*1000) / 10
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.mu.Lock()
	data, ok := s.files[name]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	_, _ = w.Write(data)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}

func copyItem(it *model.Item) model.Item {
	cp := *it
	cp.Photos = append([]model.Photo{}, it.Photos...)
	return cp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
