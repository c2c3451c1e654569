package main

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/weft/internal/config"
	"github.com/vango-dev/weft/pkg/metrics"
	"github.com/vango-dev/weft/pkg/weft"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		addr string
		doc  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an interactive document over WebSocket",
		Long: `Serve a document rendered by the engine. Every browser connection gets
its own engine and event loop; clicks are sent over a WebSocket, dispatched
to the in-memory host tree, and the committed HTML is pushed back.

Engine metrics are exposed in Prometheus format (see metrics in weft.yaml).

Examples:
  weft serve
  weft serve --addr=:9000 --doc=page.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			var docArgs []string
			if doc != "" {
				docArgs = []string{doc}
			}
			el, err := loadDocument(cmd.InOrStdin(), docArgs)
			if err != nil {
				return err
			}

			logger := cfg.Logger(cmd.ErrOrStderr())
			srv := newServer(cfg, el, logger, prometheus.NewRegistry())

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			success(cmd, "Serving on http://localhost%s", cfg.Server.Addr)
			return srv.listenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from weft.yaml)")
	cmd.Flags().StringVar(&doc, "doc", "", "Element document to serve (default: demo)")

	return cmd
}

// clientMessage is sent by the browser.
type clientMessage struct {
	Type  string `json:"type"`
	Event string `json:"event"`
	ID    string `json:"id"`
	Value string `json:"value,omitempty"`
}

// serverMessage is pushed to the browser after every committed dispatch.
type serverMessage struct {
	Type  string `json:"type"`
	HTML  string `json:"html,omitempty"`
	Error string `json:"error,omitempty"`
}

type server struct {
	cfg      *config.Config
	el       *weft.Element
	logger   *slog.Logger
	recorder weft.Recorder
	gatherer prometheus.Gatherer
	upgrader websocket.Upgrader
	sessions atomic.Int64
}

func newServer(cfg *config.Config, el *weft.Element, logger *slog.Logger, reg *prometheus.Registry) *server {
	s := &server{
		cfg:      cfg,
		el:       el,
		logger:   logger,
		gatherer: reg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	if cfg.MetricsEnabled() {
		reg.MustRegister(collectors.NewGoCollector())
		s.recorder = metrics.New(
			metrics.WithRegistry(reg),
			metrics.WithNamespace(cfg.Metrics.Namespace),
		)
	}
	return s
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/ws", s.handleWebSocket)
	if s.cfg.MetricsEnabled() {
		r.Method(http.MethodGet, s.cfg.Metrics.Path, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *server) listenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newSession starts an engine for one client.
func (s *server) newSession(logger *slog.Logger) *session {
	opts := []weft.Option{
		weft.WithLogger(logger),
		weft.WithErrorHandler(func(err error) {
			logger.Warn("render pass aborted", "error", err)
		}),
	}
	if s.recorder != nil {
		opts = append(opts, weft.WithRecorder(s.recorder))
	}
	// Sessions are driven from connection goroutines, so they always run
	// on a loop whatever scheduler the config selects.
	loopCfg := *s.cfg
	loopCfg.Engine.Scheduler = config.SchedulerLoop
	return newSession(newRunner(&loopCfg, logger), opts...)
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>weft</title></head>
<body>
<div id="root">{{.HTML}}</div>
<script>
(function () {
  var root = document.getElementById("root");
  var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
  ws.onmessage = function (e) {
    var msg = JSON.parse(e.data);
    if (msg.type === "html") { root.innerHTML = msg.html; }
    if (msg.type === "error") { console.error(msg.error); }
  };
  root.addEventListener("click", function (e) {
    var el = e.target.closest("[id]");
    if (el && ws.readyState === 1) {
      ws.send(JSON.stringify({type: "event", event: "click", id: el.id}));
    }
  });
})();
</script>
</body>
</html>
`))

// handleIndex renders the document once for the initial page.
func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.newSession(s.logger)
	defer sess.close()

	if err := sess.render(r.Context(), s.el); err != nil {
		http.Error(w, weft.Describe(err), http.StatusInternalServerError)
		return
	}
	html, err := sess.html(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, struct{ HTML template.HTML }{template.HTML(html)}); err != nil {
		s.logger.Error("index template", "error", err)
	}
}

// handleWebSocket runs one interactive session per connection.
func (s *server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	id := s.sessions.Add(1)
	logger := s.logger.With("session", id, "request_id", middleware.GetReqID(r.Context()))
	sess := s.newSession(logger)
	defer sess.close()

	ctx := r.Context()
	logger.Info("session started")
	defer logger.Info("session closed")

	if err := sess.render(ctx, s.el); err != nil {
		_ = conn.WriteJSON(serverMessage{Type: "error", Error: weft.Describe(err)})
		return
	}
	if err := s.push(ctx, conn, sess); err != nil {
		return
	}

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Type != "event" || msg.Event == "" {
			_ = conn.WriteJSON(serverMessage{Type: "error", Error: fmt.Sprintf("unsupported message %q", msg.Type)})
			continue
		}

		var data map[string]any
		if msg.Value != "" {
			data = map[string]any{"value": msg.Value}
		}
		if err := sess.dispatch(ctx, msg.ID, msg.Event, data); err != nil {
			logger.Debug("dispatch failed", "id", msg.ID, "event", msg.Event, "error", err)
			if err := conn.WriteJSON(serverMessage{Type: "error", Error: weft.Describe(err)}); err != nil {
				return
			}
		}
		if err := s.push(ctx, conn, sess); err != nil {
			return
		}
	}
}

// push sends the session's current HTML.
func (s *server) push(ctx context.Context, conn *websocket.Conn, sess *session) error {
	html, err := sess.html(ctx)
	if err != nil {
		return err
	}
	return conn.WriteJSON(serverMessage{Type: "html", HTML: html})
}
