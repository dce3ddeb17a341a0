// Package server exposes the flow editor over HTTP. Each flow being edited
// is a session holding one crewflow.Editor; requests against a session are
// serialized so the editor sees one mutation at a time.
package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"

	"github.com/meikuraledutech/crewflow"
)

// Server routes HTTP requests to flow sessions and the Store.
type Server struct {
	app     *fiber.App
	store   crewflow.Store
	logger  *slog.Logger
	metrics *metrics

	mu       sync.Mutex
	sessions map[string]*session
	newID    func() string
}

type session struct {
	mu     sync.Mutex
	editor *crewflow.Editor
}

// New builds the server and registers its routes.
func New(store crewflow.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		app:      fiber.New(),
		store:    store,
		logger:   logger,
		metrics:  newMetrics(),
		sessions: make(map[string]*session),
		newID:    uuid.NewString,
	}
	s.app.Use(recoverer.New())
	s.app.Use(s.logRequests)
	s.routes()
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("Listening", slog.String("addr", addr))
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) routes() {
	app := s.app

	// ── Catalogs ──────────────────────────────────────────────────────
	app.Get("/presets", s.listPresets)
	app.Get("/tools", s.listTools)
	app.Get("/metrics", s.metrics.handler())

	// ── Flows ─────────────────────────────────────────────────────────
	app.Post("/flows", s.createFlow)
	app.Get("/flows/:id", s.getFlow)
	app.Delete("/flows/:id", s.closeFlow)
	app.Get("/flows/:id/script", s.getScript)
	app.Get("/flows/:id/snapshot", s.getSnapshot)
	app.Post("/flows/:id/preset/:name", s.loadPreset)

	// ── Persistence ───────────────────────────────────────────────────
	app.Get("/saved", s.listSaved)
	app.Post("/flows/:id/save", s.saveFlow)
	app.Post("/flows/:id/restore", s.restoreFlow)

	// ── Nodes ─────────────────────────────────────────────────────────
	app.Post("/flows/:id/nodes", s.addNode)
	app.Put("/flows/:id/nodes/:nodeId", s.updateNode)
	app.Delete("/flows/:id/nodes", s.removeNodes)

	// ── Edges ─────────────────────────────────────────────────────────
	app.Post("/flows/:id/edges", s.connect)
	app.Delete("/flows/:id/edges/:edgeId", s.disconnect)

	// ── Selection ─────────────────────────────────────────────────────
	app.Get("/flows/:id/selection", s.getSelection)
	app.Put("/flows/:id/selection", s.selectNode)
	app.Delete("/flows/:id/selection", s.clearSelection)
}

func (s *Server) logRequests(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug("HTTP request",
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.Int("status", c.Response().StatusCode()),
		slog.Duration("duration", time.Since(start)),
	)
	return err
}

// openSession registers a new editor under id. It reports false if id is
// already taken.
func (s *Server) openSession(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.sessions[id]; taken {
		return nil, false
	}
	sess := &session{editor: crewflow.NewEditor(s.logger.With(slog.String("flow", id)))}
	s.sessions[id] = sess
	s.metrics.flows.Set(float64(len(s.sessions)))
	return sess, true
}

func (s *Server) closeSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	s.metrics.flows.Set(float64(len(s.sessions)))
	return true
}

// withEditor runs fn against the session named by the :id route param while
// holding the session lock.
func (s *Server) withEditor(c fiber.Ctx, fn func(e *crewflow.Editor) error) error {
	id := c.Params("id")
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return writeError(c, errFlowNotOpen(id))
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.editor)
}
