package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newBackend(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, WithHTTPClient(srv.Client()))
}

func TestPing(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   bool
	}{
		{name: "method not allowed", status: http.StatusMethodNotAllowed, want: true},
		{name: "ok", status: http.StatusOK, want: true},
		{name: "server error", status: http.StatusInternalServerError, want: false},
		{name: "not found", status: http.StatusNotFound, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodHead, r.Method)
				assert.Equal(t, "/admin/login", r.URL.Path)
				w.WriteHeader(tc.status)
			})
			assert.Equal(t, tc.want, c.Ping(context.Background()))
		})
	}
}

func TestPingTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, WithHTTPClient(srv.Client()), WithProbeTimeout(50*time.Millisecond))
	start := time.Now()
	assert.False(t, c.Ping(context.Background()))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestPingUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	assert.False(t, New(url).Ping(context.Background()))
}

func TestListProducts(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/product/get", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"products":[{"_id":"1","name":"Premium Notebook","price":24.99,"image":"a.png","category":"Notebooks"}]}`))
	})

	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "1", products[0].ID)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("24.99")))
}

func TestAdminLoginStoresToken(t *testing.T) {
	var calls atomic.Int32
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/admin/login":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "admin", body["username"])
			_, _ = w.Write([]byte(`{"token":"tok-1","admin":{"id":"1","username":"admin"},"expiresAt":"2024-03-01T00:00:00Z"}`))
		case "/admin/orders":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			assert.Equal(t, "pending", r.URL.Query().Get("status"))
			_, _ = w.Write([]byte(`{"orders":[{"_id":"9","status":"pending","total":29.99,"items":[{"productId":"1","productName":"Premium Notebook","quantity":1,"price":24.99}]}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	_, err := c.ListOrders(context.Background(), "")
	require.ErrorIs(t, err, ErrNotLoggedIn)

	session, err := c.AdminLogin(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "admin", session.Admin.Username)
	assert.Equal(t, "tok-1", c.Token())

	orders, err := c.ListOrders(context.Background(), "pending")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 1, orders[0].Items[0].Quantity)
	assert.EqualValues(t, 2, calls.Load())
}

func TestProductWritesAndOrderStatus(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch r.Method + " " + r.URL.Path {
		case "POST /product/add":
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Gel Pen Set", body["name"])
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"message":"Product added successfully","product":{"_id":"5","name":"Gel Pen Set","price":9.5}}`))
		case "PUT /product/update/5":
			_, _ = w.Write([]byte(`{"message":"Product updated successfully","product":{"_id":"5","name":"Gel Pens","price":9.5}}`))
		case "DELETE /product/delete/5":
			_, _ = w.Write([]byte(`{"message":"Product deleted successfully"}`))
		case "PUT /admin/orders/9/status":
			_, _ = w.Write([]byte(`{"message":"Order status updated","order":{"_id":"9","status":"shipped"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	c.SetToken("tok")
	ctx := context.Background()

	created, err := c.CreateProduct(ctx, ProductInput{Name: "Gel Pen Set", Price: decimal.RequireFromString("9.5"), Category: "Pens"})
	require.NoError(t, err)
	assert.Equal(t, "5", created.ID)

	updated, err := c.UpdateProduct(ctx, "5", ProductInput{Name: "Gel Pens", Price: decimal.RequireFromString("9.5"), Category: "Pens"})
	require.NoError(t, err)
	assert.Equal(t, "Gel Pens", updated.Name)

	require.NoError(t, c.DeleteProduct(ctx, "5"))

	order, err := c.UpdateOrderStatus(ctx, "9", "shipped")
	require.NoError(t, err)
	assert.Equal(t, "shipped", order.Status)
}

func TestAPIError(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid username or password"}`))
	})

	_, err := c.AdminLogin(context.Background(), "admin", "wrong")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid username or password", apiErr.Message)
	assert.Empty(t, c.Token())
}

func TestInvalidResponse(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})
	_, err := c.ListProducts(context.Background())
	assert.ErrorIs(t, err, ErrResponseInvalid)
}

type fakePinger struct {
	mu      sync.Mutex
	results []bool
}

func (p *fakePinger) Ping(context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.results) == 0 {
		return false
	}
	v := p.results[0]
	if len(p.results) > 1 {
		p.results = p.results[1:]
	}
	return v
}

func TestMonitorCheck(t *testing.T) {
	m := NewMonitor(&fakePinger{results: []bool{true}}, time.Second, nil)
	var got []Status
	status := m.Check(context.Background(), func(s Status) { got = append(got, s) })
	assert.Equal(t, StatusOnline, status)
	assert.Equal(t, []Status{StatusChecking, StatusOnline}, got)

	assert.Equal(t, StatusOffline, NewMonitor(nil, 0, nil).Check(context.Background(), nil))
}

func TestMonitorRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	pinger := &fakePinger{results: []bool{false, true}}
	m := NewMonitor(pinger, 10*time.Millisecond, nil)

	var mu sync.Mutex
	var got []Status
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- m.Run(ctx, func(s Status) {
			mu.Lock()
			got = append(got, s)
			mu.Unlock()
		})
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) >= 4
	}, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Status{StatusChecking, StatusOffline, StatusChecking, StatusOnline}, got[:4])
}
