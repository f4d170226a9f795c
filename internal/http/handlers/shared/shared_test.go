package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stationeryhub/internal/http/response"
	"github.com/stationeryhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	StatusCode int                  `json:"status_code"`
	Msg        string               `json:"msg"`
	Data       json.RawMessage      `json:"data"`
	Pagination *response.Pagination `json:"pagination"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

type note struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type noteInput struct {
	Title string `json:"title"`
}

func newNoteRouter(store map[string]*note) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	nextID := len(store)
	h := &ResourceHandler[note, noteInput]{
		Rules:       []MappedError{{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.post_not_found"}, {Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.post_invalid"}},
		NotFoundKey: "error.post_not_found",
		List: func(c *gin.Context, page, pageSize int) ([]note, int64, error) {
			items := make([]note, 0, len(store))
			for i := 1; i <= nextID; i++ {
				if n, ok := store[strconv.Itoa(i)]; ok {
					items = append(items, *n)
				}
			}
			return items, int64(len(items)), nil
		},
		Get: func(c *gin.Context, id string) (*note, error) {
			if n, ok := store[id]; ok {
				return n, nil
			}
			return nil, service.ErrNotFound
		},
		Create: func(c *gin.Context, input noteInput) (*note, error) {
			if strings.TrimSpace(input.Title) == "" {
				return nil, service.ErrInvalidInput
			}
			nextID++
			n := &note{ID: strconv.Itoa(nextID), Title: input.Title}
			store[n.ID] = n
			return n, nil
		},
		Delete: func(c *gin.Context, id string) error {
			if _, ok := store[id]; !ok {
				return service.ErrNotFound
			}
			delete(store, id)
			return nil
		},
	}
	h.Register(r.Group("/admin"), "notes")
	return r
}

func TestResourceHandlerLifecycle(t *testing.T) {
	store := map[string]*note{}
	r := newNoteRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/notes", strings.NewReader(`{"title":"Ink"}`)))
	env := decodeEnvelope(t, w)
	require.Equal(t, response.CodeOK, env.StatusCode)
	assert.JSONEq(t, `{"id":"1","title":"Ink"}`, string(env.Data))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/notes?page=1&page_size=10", nil))
	env = decodeEnvelope(t, w)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, int64(1), env.Pagination.Total)
	assert.Equal(t, 10, env.Pagination.PageSize)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/notes/1", nil))
	assert.Equal(t, response.CodeOK, decodeEnvelope(t, w).StatusCode)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/notes/1", nil))
	assert.Equal(t, response.CodeOK, decodeEnvelope(t, w).StatusCode)
	assert.Empty(t, store)
}

func TestResourceHandlerErrors(t *testing.T) {
	r := newNoteRouter(map[string]*note{})

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
		msg    string
	}{
		{"missing", http.MethodGet, "/admin/notes/7", "", response.CodeNotFound, "Post not found"},
				{"invalid input", http.MethodPost, "/admin/notes", `{"title":" "}`, response.CodeBadRequest, "Title and content are required"},
		{"malformed body", http.MethodPost, "/admin/notes", `{`, response.CodeBadRequest, "Invalid request parameters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			var req *http.Request
			if tc.body != "" {
				req = httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			} else {
				req = httptest.NewRequest(tc.method, tc.path, nil)
			}
			r.ServeHTTP(w, req)
			env := decodeEnvelope(t, w)
			assert.Equal(t, tc.code, env.StatusCode)
			assert.Equal(t, tc.msg, env.Msg)
		})
	}
}

func TestResourceHandlerSkipsUnsetOperations(t *testing.T) {
	r := newNoteRouter(map[string]*note{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/admin/notes/1", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type fakePolicyError struct{}

func (fakePolicyError) Error() string        { return "error.password_min_length" }
func (fakePolicyError) Is(target error) bool { return target == service.ErrWeakPassword }
func (fakePolicyError) Key() string          { return "error.password_min_length" }
func (fakePolicyError) Args() []interface{}  { return []interface{}{8} }

func TestRespondMappedErrorWeakPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondMappedError(c, fakePolicyError{}, AuthErrorRules, response.CodeInternal, "error.internal")

	env := decodeEnvelope(t, w)
	assert.Equal(t, response.CodeBadRequest, env.StatusCode)
	assert.Equal(t, "Password must be at least 8 characters", env.Msg)
}

func TestMessageForError(t *testing.T) {
	code, msg := MessageForError(service.ErrInvalidCredentials, AuthErrorRules, "error.internal")
	assert.Equal(t, response.CodeUnauthorized, code)
	assert.Equal(t, "Invalid username or password", msg)

	code, msg = MessageForError(service.ErrSessionMergeForbidden, SessionErrorRules, "error.session_failed")
	assert.Equal(t, response.CodeForbidden, code)
	assert.Equal(t, "Cannot merge a cart that belongs to another account", msg)

	code, msg = MessageForError(errors.New("boom"), AuthErrorRules, "error.internal")
	assert.Equal(t, response.CodeInternal, code)
	assert.Equal(t, "Internal server error", msg)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Too many login attempts, please try again in 30 seconds", Message("error.login_rate_limited", 30))
	assert.Equal(t, "error.unknown_key", Message("error.unknown_key"))
}

func TestNormalizePagination(t *testing.T) {
	page, size := NormalizePagination(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)
	_, size = NormalizePagination(2, 500)
	assert.Equal(t, 100, size)
}
