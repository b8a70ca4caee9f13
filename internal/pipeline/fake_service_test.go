package pipeline

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/moamenhredeen/relcheck/internal/config"
	"github.com/moamenhredeen/relcheck/internal/tester"
)

// fakeService is an in-memory products/users/categories service
type fakeService struct {
	mu sync.Mutex

	users    []map[string]any
	products map[int64]map[string]any
	order    []int64
	nextID   int64

	// behaviour switches
	omitRelations  bool
	nullCategory   bool
	rewriteName    string
	deleteStatus   int
	createStatus   int
	listByUserNone bool

	requests []string
}

func newFakeService() *fakeService {
	return &fakeService{
		users:    []map[string]any{{"id": 7, "name": "Ana"}},
		products: make(map[int64]map[string]any),
		nextID:   42,
	}
}

func (f *fakeService) start(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, f.users)
	})
	mux.HandleFunc("POST /api/users", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		body["id"] = 100 + len(f.users)
		f.users = append(f.users, body)
		writeJSON(w, http.StatusCreated, body)
	})
	mux.HandleFunc("GET /api/categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "Electronics"}})
	})
	mux.HandleFunc("POST /api/categories", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		body["id"] = 5
		writeJSON(w, http.StatusCreated, body)
	})
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		list := []map[string]any{}
		for _, id := range f.order {
			list = append(list, f.products[id])
		}
		writeJSON(w, http.StatusOK, list)
	})
	mux.HandleFunc("POST /api/products", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.createStatus != 0 {
			writeJSON(w, f.createStatus, map[string]string{"error": "rejected"})
			return
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		id := f.nextID
		f.nextID++
		p := f.render(id, body)
		f.products[id] = p
		f.order = append(f.order, id)
		writeJSON(w, http.StatusCreated, p)
	})
	mux.HandleFunc("GET /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		p, ok := f.products[pathID(r, "id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		writeJSON(w, http.StatusOK, p)
	})
	mux.HandleFunc("PUT /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		id := pathID(r, "id")
		p, ok := f.products[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		p["name"] = body["name"]
		if f.rewriteName != "" {
			p["name"] = f.rewriteName
		}
		p["price"] = body["price"]
		writeJSON(w, http.StatusOK, p)
	})
	mux.HandleFunc("DELETE /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.deleteStatus != 0 {
			w.WriteHeader(f.deleteStatus)
			return
		}
		id := pathID(r, "id")
		delete(f.products, id)
		for i, o := range f.order {
			if o == id {
				f.order = append(f.order[:i], f.order[i+1:]...)
				break
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/products/user/{userId}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.listByUserNone {
			writeJSON(w, http.StatusOK, []any{})
			return
		}
		writeJSON(w, http.StatusOK, f.filter("userId", pathID(r, "userId")))
	})
	mux.HandleFunc("GET /api/products/category/{categoryId}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, f.filter("categoryId", pathID(r, "categoryId")))
	})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)
	return server
}

func (f *fakeService) render(id int64, body map[string]any) map[string]any {
	p := map[string]any{
		"id":          id,
		"name":        body["name"],
		"price":       body["price"],
		"description": body["description"],
		"userId":      body["userId"],
	}
	categoryID := body["categoryId"]
	if ids, ok := body["categoryIds"].([]any); ok && len(ids) > 0 {
		categoryID = ids[0]
	}
	p["categoryId"] = categoryID
	if f.omitRelations {
		return p
	}
	p["user"] = map[string]any{"id": body["userId"], "name": "Ana"}
	if f.nullCategory {
		p["category"] = nil
	} else {
		p["category"] = map[string]any{"id": categoryID, "name": "Electronics"}
	}
	return p
}

func (f *fakeService) filter(field string, id int64) []map[string]any {
	list := []map[string]any{}
	for _, pid := range f.order {
		p := f.products[pid]
		if v, ok := p[field].(float64); ok && int64(v) == id {
			list = append(list, p)
		}
	}
	return list
}

func (f *fakeService) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func pathID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func newTestEnv(serverURL string, mutate func(*config.Config)) *Env {
	cfg := config.Default()
	cfg.Server = serverURL
	if mutate != nil {
		mutate(cfg)
	}
	return NewEnv(cfg, tester.NewTester(tester.Config{}))
}
