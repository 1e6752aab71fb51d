package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farmart/livestock-api/internal/apperr"
)

var kindStatus = map[apperr.Kind]int{
	apperr.KindValidation:     http.StatusBadRequest,
	apperr.KindAuthentication: http.StatusUnauthorized,
	apperr.KindForbidden:      http.StatusForbidden,
	apperr.KindNotFound:       http.StatusNotFound,
	apperr.KindConflict:       http.StatusConflict,
	apperr.KindInternal:       http.StatusInternalServerError,
}

// writeError answers with the status of err's kind. Unclassified errors are
// logged and reported as a generic internal error.
func writeError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.JSON(kindStatus[kind], gin.H{"error": apperr.MessageOf(err), "kind": kind})
}

func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": apperr.KindValidation})
}

func writeInvalidID(c *gin.Context, what string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + what + " ID", "kind": apperr.KindValidation})
}
