package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-9")

	NotFound(c, "missing")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		StatusCode int               `json:"status_code"`
		Msg        string            `json:"msg"`
		Data       map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, CodeNotFound, resp.StatusCode)
	assert.Equal(t, "missing", resp.Msg)
	assert.Equal(t, "req-9", resp.Data["request_id"])
}

func TestLegacyUsesRealStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	LegacyError(c, http.StatusUnauthorized, "Invalid credentials")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Invalid credentials"}`, w.Body.String())
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, int64(3), NewPagination(1, 20, 41).TotalPage)
	assert.Equal(t, int64(0), NewPagination(1, 20, 0).TotalPage)
	assert.Equal(t, int64(0), NewPagination(1, 0, 5).TotalPage)
}

func TestAppErrorUnwrap(t *testing.T) {
	base := errors.New("db down")
	err := WrapError(CodeInternal, "save failed", base)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "save failed: db down", err.Error())
	assert.Equal(t, "save failed", WrapError(CodeBadRequest, "save failed", nil).Error())
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, HTTPStatus(CodeOK))
	assert.Equal(t, http.StatusConflict, HTTPStatus(CodeConflict))
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatus(CodeTooManyRequests))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(12345))
	assert.Equal(t, http.StatusNotFound, WrapError(CodeNotFound, "missing", nil).Status())
}

func TestSuccessWithPageFlattensEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SuccessWithPage(c, []int{1, 2}, NewPagination(1, 2, 3))

	assert.JSONEq(t, `{
		"status_code": 0,
		"msg": "success",
		"data": [1, 2],
		"pagination": {"page": 1, "page_size": 2, "total": 3, "total_page": 2}
	}`, w.Body.String())
}
