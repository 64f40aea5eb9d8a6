package api

import (
	"net/http"

	"gymhero/training-api/internal/errs"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// statusOf maps an application error kind to its HTTP status.
func statusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindInvalid, errs.KindInactive, errs.KindReferential:
		return http.StatusBadRequest
	case errs.KindUnauthorized:
		return http.StatusUnauthorized
	case errs.KindForbidden:
		return http.StatusForbidden
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict, errs.KindNotInRelation:
		return http.StatusConflict
	case errs.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": message} and aborts. Internal errors
// are logged and replaced by an opaque message.
func respondError(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	status := statusOf(kind)

	if kind == errs.KindInternal {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	if kind == errs.KindUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	abortWithError(c, status, errs.MessageOf(err))
}

// bindError reports a request body that failed to decode or validate.
func bindError(c *gin.Context, err error) {
	abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
}
