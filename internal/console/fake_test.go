package console

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"go.uber.org/zap"

	"recloop-admin/internal/backend"
	"recloop-admin/internal/core/kv"
	"recloop-admin/internal/domain"
)

// fakeMarket 内存版后端，记录收到的请求
type fakeMarket struct {
	mu         sync.Mutex
	calls      []string
	categories []domain.Category
	products   []domain.Product
	reports    []domain.Report
	users      map[int64]*domain.AdminUser
	nextID     int64
}

func newFakeMarket() *fakeMarket {
	return &fakeMarket{
		categories: []domain.Category{{ID: 1, Name: "Furniture"}},
		products: []domain.Product{
			{ID: 41, Title: "Chair"},
			{ID: 42, Title: "<b>Lamp</b>"},
			{ID: 43, Title: "Desk", IsApproved: true},
		},
		reports: []domain.Report{
			{ID: 1, Reason: "spam"},
			{ID: 2, Reason: "<script>x</script>fraud"},
		},
		users: map[int64]*domain.AdminUser{
			1: {ID: 1, Email: "admin@x.io", FullName: "Admin", Role: "Admin"},
			5: {ID: 5, Email: "u@x.io", FullName: "U", Role: "user"},
		},
		nextID: 100,
	}
}

func (f *fakeMarket) record(r *http.Request) {
	f.mu.Lock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	f.mu.Unlock()
}

func (f *fakeMarket) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id
}

func (f *fakeMarket) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/Auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req domain.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		switch req.Email {
		case "unverified@x.io":
			reply(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		case "coded@x.io":
			reply(w, http.StatusBadRequest, map[string]string{"code": "EMAIL_NOT_VERIFIED", "message": "Verify your email"})
		case "bad@x.io":
			reply(w, http.StatusBadRequest, map[string]string{"message": "Invalid credentials"})
		case "member@x.io":
			reply(w, http.StatusOK, map[string]any{"token": "member-token", "user": map[string]any{"id": 5, "email": req.Email, "role": "user"}})
		default:
			reply(w, http.StatusOK, map[string]any{"token": "admin-token", "user": map[string]any{"id": 1, "email": req.Email, "fullName": "Admin", "role": "Admin"}})
		}
	})
	mux.HandleFunc("POST /api/Auth/register", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	mux.HandleFunc("POST /api/Auth/verify-email", func(w http.ResponseWriter, r *http.Request) {
		var req domain.VerifyEmailRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.OTP != "123456" {
			reply(w, http.StatusBadRequest, map[string]string{"message": "Invalid OTP"})
			return
		}
		reply(w, http.StatusOK, map[string]string{"message": "verified"})
	})
	mux.HandleFunc("POST /api/Auth/resend-otp", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("GET /api/Category", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		reply(w, http.StatusOK, f.categories)
	})
	mux.HandleFunc("POST /api/Category", func(w http.ResponseWriter, r *http.Request) {
		var req domain.CategoryRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.nextID++
		f.categories = append(f.categories, domain.Category{ID: f.nextID, Name: req.Name})
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("PUT /api/Category/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req domain.CategoryRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.categories {
			if f.categories[i].ID == pathID(r) {
				f.categories[i].Name = req.Name
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /api/Category/{id}", func(w http.ResponseWriter, r *http.Request) {
		if pathID(r) == 1 {
			reply(w, http.StatusConflict, map[string]string{"code": "CATEGORY_IN_USE"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /api/admin/products", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		reply(w, http.StatusOK, f.products)
	})
	mux.HandleFunc("PUT /api/admin/products/{id}/approve", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.products {
			if f.products[i].ID == pathID(r) {
				f.products[i].IsApproved = true
				reply(w, http.StatusOK, f.products[i])
				return
			}
		}
		reply(w, http.StatusNotFound, map[string]string{"message": "Product not found"})
	})
	mux.HandleFunc("PUT /api/admin/products/{id}/reject", func(w http.ResponseWriter, r *http.Request) {
		var req domain.RejectProductRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.products {
			if f.products[i].ID == pathID(r) {
				reason := req.RejectedReason
				f.products[i].RejectedReason = &reason
				reply(w, http.StatusOK, f.products[i])
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})

	mux.HandleFunc("GET /api/Admin/ReportManagement", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		reply(w, http.StatusOK, f.reports)
	})
	mux.HandleFunc("PUT /api/Admin/ReportManagement/{id}/resolve", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "Resolved")
	})
	mux.HandleFunc("DELETE /api/Admin/ReportManagement/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	userJSON := func(u *domain.AdminUser) map[string]any {
		m := map[string]any{"id": u.ID, "email": u.Email, "fullName": u.FullName, "role": u.Role}
		if u.IsLocked {
			m["isLocked"] = true
		}
		return m
	}
	mux.HandleFunc("GET /api/UserManager", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := []map[string]any{userJSON(f.users[1]), userJSON(f.users[5])}
		reply(w, http.StatusOK, out)
	})
	mux.HandleFunc("GET /api/UserManager/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		u, ok := f.users[pathID(r)]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		reply(w, http.StatusOK, userJSON(u))
	})
	mux.HandleFunc("PUT /api/UserManager/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req domain.UserUpdateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		u := f.users[pathID(r)]
		u.FullName, u.Role = req.FullName, req.Role
		reply(w, http.StatusOK, userJSON(u))
	})
	mux.HandleFunc("PATCH /api/UserManager/{id}/toggle-lock", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		u := f.users[pathID(r)]
		u.IsLocked = !u.IsLocked
		f.mu.Unlock()
		_, _ = io.WriteString(w, "User lock toggled")
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		mux.ServeHTTP(w, r)
	})
}

type fixture struct {
	market  *fakeMarket
	store   *kv.Memory
	console *Console
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	m := newFakeMarket()
	srv := httptest.NewServer(m.handler())
	t.Cleanup(srv.Close)
	api := backend.New(backend.Options{BaseURL: srv.URL, HTTPClient: srv.Client(), Logger: zap.NewNop()})
	store := kv.NewMemory()
	return &fixture{market: m, store: store, console: New("sid-test", api, store, zap.NewNop())}
}
