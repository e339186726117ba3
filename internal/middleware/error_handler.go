package middleware

import (
	"net/http"
	"time"

	"github.com/Contabilizar/estoque/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const msgErroInterno = "Erro interno do servidor"

// requestEvent starts a log event tagged with the request id and route.
func requestEvent(c *gin.Context, ev *zerolog.Event) *zerolog.Event {
	return ev.
		Str("request_id", c.GetString(RequestIDKey)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path)
}

// abortInterno answers 500 with the generic body unless a handler already
// wrote its own response.
func abortInterno(c *gin.Context) {
	if c.Writer.Written() {
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New(msgErroInterno))
}

// ErrorHandler turns errors pushed with c.Error into a 500. Only the log sees
// the cause; the client gets msgErroInterno.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}
		requestEvent(c, log.Error()).
			Int("errors", len(c.Errors)).
			Err(last.Err).
			Msg("request failed")
		abortInterno(c)
	}
}

// Recovery converts a panic in any later handler into the same 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			requestEvent(c, log.Error()).
				Interface("panic", r).
				Msg("panic recovered")
			abortInterno(c)
		}()
		c.Next()
	}
}

// Logger writes one access-log line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ev := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = log.Warn()
		}
		requestEvent(c, ev).
			Str("ip", c.ClientIP()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
