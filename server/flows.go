package server

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/meikuraledutech/crewflow"
)

type createFlowRequest struct {
	ID       string          `json:"id"`
	Preset   string          `json:"preset"`
	Snapshot json.RawMessage `json:"snapshot"`
}

type flowResponse struct {
	ID    string         `json:"id"`
	Views crewflow.Views `json:"views"`
}

func (s *Server) listPresets(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"presets": crewflow.PresetNames()})
}

func (s *Server) listTools(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"tools": crewflow.Tools()})
}

// createFlow opens an editing session, empty or seeded from a preset or an
// inline snapshot.
func (s *Server) createFlow(c fiber.Ctx) error {
	var req createFlowRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return writeError(c, errInvalidBody)
		}
	}

	var seed *crewflow.Snapshot
	switch {
	case req.Preset != "" && len(req.Snapshot) > 0:
		return writeError(c, fmt.Errorf("%w: preset and snapshot are exclusive", errInvalidBody))
	case req.Preset != "":
		snap, err := crewflow.Preset(req.Preset)
		if err != nil {
			return writeError(c, err)
		}
		seed = snap
	case len(req.Snapshot) > 0:
		snap, err := crewflow.DecodeSnapshot(req.Snapshot)
		if err != nil {
			return writeError(c, err)
		}
		seed = snap
	}

	id := req.ID
	if id == "" {
		id = s.newID()
	}
	sess, ok := s.openSession(id)
	if !ok {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": fmt.Sprintf("flow %q is already open", id)})
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	views := sess.editor.Views()
	if seed != nil {
		var err error
		views, err = sess.editor.Load(seed)
		s.metrics.observe("load", err)
		if err != nil {
			s.closeSession(id)
			return writeError(c, err)
		}
	}
	s.logger.Info("Flow opened", slog.String("flow", id))
	return c.Status(fiber.StatusCreated).JSON(flowResponse{ID: id, Views: views})
}

func (s *Server) getFlow(c fiber.Ctx) error {
	return s.withEditor(c, func(e *crewflow.Editor) error {
		return c.JSON(flowResponse{ID: c.Params("id"), Views: e.Views()})
	})
}

func (s *Server) closeFlow(c fiber.Ctx) error {
	id := c.Params("id")
	if !s.closeSession(id) {
		return writeError(c, errFlowNotOpen(id))
	}
	s.logger.Info("Flow closed", slog.String("flow", id))
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) getScript(c fiber.Ctx) error {
	return s.withEditor(c, func(e *crewflow.Editor) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(e.Views().Script)
	})
}

func (s *Server) getSnapshot(c fiber.Ctx) error {
	return s.withEditor(c, func(e *crewflow.Editor) error {
		return c.JSON(e.Views().Snapshot)
	})
}

func (s *Server) loadPreset(c fiber.Ctx) error {
	return s.withEditor(c, func(e *crewflow.Editor) error {
		views, err := e.LoadPreset(c.Params("name"))
		s.metrics.observe("preset", err)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(flowResponse{ID: c.Params("id"), Views: views})
	})
}

// ── Persistence ───────────────────────────────────────────────────────

func (s *Server) listSaved(c fiber.Ctx) error {
	flows, err := s.store.ListFlows(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"flows": flows})
}

func (s *Server) saveFlow(c fiber.Ctx) error {
	return s.withEditor(c, func(e *crewflow.Editor) error {
		id := c.Params("id")
		if err := s.store.SaveFlow(c.Context(), id, e.Views().Snapshot); err != nil {
			s.logger.Error("Save flow", slog.String("flow", id), slog.String("error", err.Error()))
			return writeError(c, err)
		}
		s.logger.Info("Flow saved", slog.String("flow", id))
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// restoreFlow replaces the editor's graph with the saved copy of the same
// flow. A failed restore leaves the graph as it was.
func (s *Server) restoreFlow(c fiber.Ctx) error {
	return s.withEditor(c, func(e *crewflow.Editor) error {
		id := c.Params("id")
		snap, err := s.store.GetFlow(c.Context(), id)
		if err != nil {
			return writeError(c, err)
		}
		views, err := e.Load(snap)
		s.metrics.observe("load", err)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(flowResponse{ID: id, Views: views})
	})
}
