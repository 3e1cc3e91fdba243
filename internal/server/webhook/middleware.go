package webhook

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/mealbot/internal/common"
	"github.com/dmitrijs2005/mealbot/internal/cryptox"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed.String(),
			"request_id", middleware.GetReqID(r.Context()),
		)

		if s.observer != nil && r.URL.Path == "/whatsapp" {
			s.observer.ObserveRequest(strconv.Itoa(status), elapsed)
		}
	})
}

// signatureCheck rejects webhook calls that were not signed with the
// provider auth token. The signed URL is the public one the provider called.
func (s *Server) signatureCheck(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		fullURL := strings.TrimRight(s.opts.PublicBaseURL, "/") + r.URL.RequestURI()
		sig := r.Header.Get(common.TwilioSignatureHeaderName)

		if err := cryptox.VerifySignature(s.opts.AuthToken, fullURL, r.PostForm, sig); err != nil {
			s.logger.Warn(r.Context(), "webhook signature rejected", "url", fullURL)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
