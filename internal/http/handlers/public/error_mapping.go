package public

import (
	handlershared "github.com/stationeryhub/internal/http/handlers/shared"
	"github.com/stationeryhub/internal/http/response"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondSessionError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, handlershared.SessionErrorRules, response.CodeInternal, "error.session_failed")
}

func respondCheckoutError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, handlershared.CheckoutErrorRules, response.CodeInternal, "error.order_create_failed")
}

func respondOrderError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, "error.query_failed")
}

func respondAuthError(c *gin.Context, err error, fallbackKey string) {
	handlershared.RespondMappedError(c, err, handlershared.AuthErrorRules, response.CodeInternal, fallbackKey)
}
