package middleware

import (
	stdhttp "net/http"
	"runtime/debug"

	perr "censusbq/internal/platform/errors"
	"censusbq/internal/platform/logger"
	pnet "censusbq/internal/platform/net"
	phttp "censusbq/internal/platform/net/http"
)

// RecoverJSON converts panics into the standard error envelope with a 500 and logs the stack
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == stdhttp.ErrAbortHandler {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			err := perr.PanicErrf("panic recovered")
			phttp.JSON(w, stdhttp.StatusInternalServerError, phttp.Envelope{
				StatusCode: stdhttp.StatusInternalServerError,
				Status:     stdhttp.StatusText(stdhttp.StatusInternalServerError),
				Code:       perr.CodeOf(err),
				Kind:       perr.CodeOf(err).String(),
				Error:      err.Error(),
				RequestID:  reqID,
			})
		}()
		next.ServeHTTP(w, r)
	})
}
