package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"recloop-admin/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Options{BaseURL: srv.URL + "/", HTTPClient: srv.Client(), Logger: zap.NewNop()}), srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestApproveProduct_RequestShape(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/admin/products/42/approve" {
			t.Errorf("request = %s %s, want PUT /api/admin/products/42/approve", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tkn" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": 42, "title": "Lamp", "isApproved": true})
	})

	p, err := c.ApproveProduct(context.Background(), "tkn", 42)
	if err != nil {
		t.Fatalf("ApproveProduct: %v", err)
	}
	if p.ID != 42 || !p.IsApproved || p.Title != "Lamp" {
		t.Fatalf("product = %+v", p)
	}
}

func TestApproveProduct_TextResponseRefetches(t *testing.T) {
	var gets atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "PUT /api/admin/products/7/approve":
			_, _ = io.WriteString(w, "Product approved")
		case "GET /api/admin/products/7":
			gets.Add(1)
			writeJSON(w, http.StatusOK, map[string]any{"id": 7, "title": "Desk", "isApproved": true})
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})

	p, err := c.ApproveProduct(context.Background(), "tkn", 7)
	if err != nil {
		t.Fatalf("ApproveProduct: %v", err)
	}
	if gets.Load() != 1 || p.Title != "Desk" || !p.IsApproved {
		t.Fatalf("gets=%d product=%+v", gets.Load(), p)
	}
}

func TestHTTPFailureMessages(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantIs  error
		wantMsg string
	}{
		{name: "json message", status: 400, body: `{"message":"Name exists"}`, wantMsg: "Name exists"},
		{name: "problem details", status: 400, body: `{"title":"One or more validation errors occurred."}`, wantMsg: "One or more validation errors occurred."},
		{name: "empty body", status: 500, body: "", wantMsg: "Failed to fetch categories"},
		{name: "plain text", status: 502, body: "bad gateway", wantMsg: "bad gateway"},
		{name: "unauthorized", status: 401, body: `{}`, wantMsg: "Failed to fetch categories", wantIs: ErrUnauthorized},
		{name: "forbidden", status: 403, body: ``, wantMsg: "Failed to fetch categories", wantIs: ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			_, err := c.ListCategories(context.Background(), "tkn")
			var be *Error
			if !errors.As(err, &be) {
				t.Fatalf("err = %v, want *Error", err)
			}
			if be.Kind != KindHTTP || be.Status != tc.status || be.Message != tc.wantMsg {
				t.Fatalf("got kind=%v status=%d msg=%q", be.Kind, be.Status, be.Message)
			}
			if tc.wantIs != nil && !errors.Is(err, tc.wantIs) {
				t.Fatalf("errors.Is(%v) = false", tc.wantIs)
			}
		})
	}
}

func TestDeleteCategory_InUseByCode(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"code": "CATEGORY_IN_USE", "message": "FK_Products_Categories"})
	})
	err := c.DeleteCategory(context.Background(), "tkn", 3)
	if !errors.Is(err, ErrCategoryInUse) {
		t.Fatalf("err = %v, want ErrCategoryInUse", err)
	}
	if Message(err) != msgCategoryInUse {
		t.Fatalf("message = %q", Message(err))
	}
}

func TestDeleteCategory_ConstraintTextIsNotMatched(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "The DELETE statement conflicted with the REFERENCE constraint"})
	})
	err := c.DeleteCategory(context.Background(), "tkn", 3)
	if errors.Is(err, ErrCategoryInUse) {
		t.Fatal("message text must not classify the error")
	}
	if StatusOf(err) != 500 {
		t.Fatalf("status = %d", StatusOf(err))
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(Options{BaseURL: base})
	_, err := c.ListReports(context.Background(), "tkn")
	var be *Error
	if !errors.As(err, &be) || be.Kind != KindNetwork || be.Status != 0 {
		t.Fatalf("err = %#v", err)
	}
	if be.Message != msgNetwork || !errors.Is(err, ErrNetwork) {
		t.Fatalf("message = %q", be.Message)
	}
}

func TestTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	c := New(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.ListUsers(context.Background(), "tkn")
	var be *Error
	if !errors.As(err, &be) || be.Kind != KindNetwork || be.Message != msgTimeout {
		t.Fatalf("err = %#v", err)
	}
}

func TestSuccessBodies(t *testing.T) {
	t.Run("non json success is empty", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "OK")
		})
		got, err := c.ListCategories(context.Background(), "tkn")
		if err != nil || len(got) != 0 {
			t.Fatalf("got=%v err=%v", got, err)
		}
	})
	t.Run("wrong shape is a decode failure", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"id": "x"})
		})
		_, err := c.ListCategories(context.Background(), "tkn")
		var be *Error
		if !errors.As(err, &be) || be.Kind != KindDecode {
			t.Fatalf("err = %#v", err)
		}
	})
	t.Run("oversized body is an error, not an empty list", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, "[")
			row := `{"id":1,"title":"` + strings.Repeat("x", 1000) + `"},`
			for i := 0; i < 5000; i++ {
				_, _ = io.WriteString(w, row)
			}
			_, _ = io.WriteString(w, `{"id":2}]`)
		})
		got, err := c.ListProducts(context.Background(), "tkn")
		var be *Error
		if !errors.As(err, &be) || be.Kind != KindDecode || be.Message != msgTooLarge {
			t.Fatalf("len=%d err=%#v", len(got), err)
		}
		if got != nil {
			t.Fatalf("got %d products", len(got))
		}
	})
}

func TestUpdateCategory_TrimsAndValidates(t *testing.T) {
	var hits atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body) != 1 || body["name"] != "Books" {
			t.Errorf("body = %v", body)
		}
		if r.URL.Path != "/api/Category/5" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.UpdateCategory(context.Background(), "tkn", 5, domain.CategoryRequest{Name: "   "}); !errors.Is(err, ErrCategoryNameRequired) {
		t.Fatalf("err = %v", err)
	}
	if hits.Load() != 0 {
		t.Fatal("empty name must not reach the backend")
	}
	if err := c.UpdateCategory(context.Background(), "tkn", 5, domain.CategoryRequest{Name: "  Books "}); err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("hits = %d", hits.Load())
	}
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestLogin(t *testing.T) {
	t.Run("user present", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "" {
				t.Error("login must not send Authorization")
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"token": "abc",
				"user":  map[string]any{"id": 9, "email": "a@x.io", "fullName": "Ann", "role": "Admin"},
			})
		})
		res, err := c.Login(context.Background(), domain.LoginRequest{Email: "a@x.io", Password: "pw"})
		if err != nil {
			t.Fatal(err)
		}
		if res.Token != "abc" || res.User.ID != 9 || res.User.Role != "Admin" {
			t.Fatalf("res = %+v", res)
		}
	})

	t.Run("profile from token claims", func(t *testing.T) {
		tok := signed(t, jwt.MapClaims{"email": "b@x.io", "role": "admin", "id": "12"})
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"token": tok})
		})
		res, err := c.Login(context.Background(), domain.LoginRequest{Email: "b@x.io", Password: "pw"})
		if err != nil {
			t.Fatal(err)
		}
		if res.User == nil || res.User.ID != 12 || res.User.Role != "admin" || res.User.FullName != "b" {
			t.Fatalf("user = %+v", res.User)
		}
	})

	t.Run("opaque token keeps login email", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"token": "opaque"})
		})
		res, err := c.Login(context.Background(), domain.LoginRequest{Email: "c@x.io"})
		if err != nil {
			t.Fatal(err)
		}
		if res.User.Email != "c@x.io" || res.User.Role != "" {
			t.Fatalf("user = %+v", res.User)
		}
	})

	t.Run("unauthorized", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Please verify your email"})
		})
		_, err := c.Login(context.Background(), domain.LoginRequest{Email: "c@x.io"})
		if !errors.Is(err, ErrUnauthorized) || Message(err) != "Please verify your email" {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{})
		})
		_, err := c.Login(context.Background(), domain.LoginRequest{Email: "c@x.io"})
		var be *Error
		if !errors.As(err, &be) || be.Kind != KindDecode {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestUsers_MissingLockFlag(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "email": "a@x.io", "isLocked": true},
			{"id": 2, "email": "b@x.io"},
		})
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, Logger: zap.New(core)})
	users, err := c.ListUsers(context.Background(), "tkn")
	if err != nil {
		t.Fatal(err)
	}
	if !users[0].IsLocked || users[1].IsLocked {
		t.Fatalf("users = %+v", users)
	}
	if logs.FilterMessage("backend user without isLocked").Len() != 1 {
		t.Fatalf("warnings = %d", logs.Len())
	}
}

func TestToggleUserLock_ReadsBackState(t *testing.T) {
	locked := false
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "PATCH /api/UserManager/4/toggle-lock":
			locked = !locked
			_, _ = io.WriteString(w, "User lock status updated")
		case "GET /api/UserManager/4":
			writeJSON(w, http.StatusOK, map[string]any{"id": 4, "email": "d@x.io", "isLocked": locked})
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})

	first, err := c.ToggleUserLock(context.Background(), "tkn", 4)
	if err != nil || !first.IsLocked {
		t.Fatalf("first = %+v, %v", first, err)
	}
	second, err := c.ToggleUserLock(context.Background(), "tkn", 4)
	if err != nil || second.IsLocked {
		t.Fatalf("second = %+v, %v", second, err)
	}
}

func TestRequestIDAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Request-ID"); got != "rid-1" {
			t.Errorf("X-Request-ID = %q", got)
		}
		if strings.HasSuffix(r.URL.Path, "/resolve") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, Metrics: m})
	ctx := WithRequestID(context.Background(), "rid-1")
	if err := c.DeleteReport(ctx, "tkn", 1); err != nil {
		t.Fatal(err)
	}
	if err := c.ResolveReport(ctx, "tkn", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}

	if got := testutil.ToFloat64(m.requests.WithLabelValues("report.delete", "ok")); got != 1 {
		t.Fatalf("ok count = %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("report.resolve", "http")); got != 1 {
		t.Fatalf("http count = %v", got)
	}
	// 同一 registry 重复创建复用已注册的 collector
	if again := NewMetrics(reg); again.requests != m.requests {
		t.Fatal("expected existing collector")
	}
}
