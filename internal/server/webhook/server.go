// Package webhook is the HTTP surface of mealbot: the messaging provider's
// inbound webhook plus health, metrics and chart routes.
package webhook

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/mealbot/internal/logging"
	"github.com/dmitrijs2005/mealbot/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MessageHandler produces the reply for one inbound message.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg models.InboundMessage) models.Reply
}

// Observer records per-request metrics and serves them.
type Observer interface {
	ObserveRequest(status string, d time.Duration)
	Handler() http.Handler
}

type Options struct {
	Address        string
	RequestTimeout time.Duration

	// Provider signature check
	VerifySignature bool
	AuthToken       string
	PublicBaseURL   string

	// Locally stored charts; empty ChartDir disables /charts
	ChartDir    string
	ChartSecret []byte
}

type Server struct {
	opts     Options
	handler  MessageHandler
	observer Observer
	logger   logging.Logger
}

func NewServer(opts Options, h MessageHandler, o Observer, l logging.Logger) *Server {
	if l == nil {
		l = logging.Nop{}
	}
	return &Server{
		opts:     opts,
		handler:  h,
		observer: o,
		logger:   l.With("module", "webhook"),
	}
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	if s.observer != nil {
		r.Method(http.MethodGet, "/metrics", s.observer.Handler())
	}

	if s.opts.ChartDir != "" {
		r.Get("/charts/{token}", s.serveChart)
	}

	r.Group(func(r chi.Router) {
		if s.opts.VerifySignature {
			r.Use(s.signatureCheck)
		}
		r.Post("/whatsapp", s.whatsapp)
	})

	return r
}

func (s *Server) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
