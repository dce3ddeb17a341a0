package server

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v3"

	"github.com/meikuraledutech/crewflow"
)

type addNodeRequest struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type updateNodeRequest struct {
	Data json.RawMessage `json:"data"`
}

type removeNodesRequest struct {
	IDs []string `json:"ids"`
}

type nodeResponse struct {
	Node  crewflow.Node  `json:"node"`
	Views crewflow.Views `json:"views"`
}

type selectRequest struct {
	ID string `json:"id"`
}

func (s *Server) addNode(c fiber.Ctx) error {
	var req addNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return writeError(c, errInvalidBody)
	}
	kind, err := crewflow.ParseKind(req.Type)
	if err != nil {
		return writeError(c, err)
	}
	var attrs crewflow.Attributes
	if len(req.Data) > 0 {
		if attrs, err = crewflow.DecodeAttributes(kind, req.Data); err != nil {
			return writeError(c, err)
		}
	}

	return s.withEditor(c, func(e *crewflow.Editor) error {
		node, views, err := e.Add(kind, attrs)
		s.metrics.observe("add", err)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(nodeResponse{Node: node, Views: views})
	})
}

func (s *Server) updateNode(c fiber.Ctx) error {
	var req updateNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return writeError(c, errInvalidBody)
	}

	return s.withEditor(c, func(e *crewflow.Editor) error {
		id := c.Params("nodeId")
		node, ok := e.Graph().Node(id)
		if !ok {
			err := fmt.Errorf("%w: %q", crewflow.ErrNodeNotFound, id)
			s.metrics.observe("update", err)
			return writeError(c, err)
		}
		attrs, err := crewflow.DecodeAttributes(node.Kind, req.Data)
		if err != nil {
			return writeError(c, err)
		}
		views, err := e.Update(id, attrs)
		s.metrics.observe("update", err)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(flowResponse{ID: c.Params("id"), Views: views})
	})
}

func (s *Server) removeNodes(c fiber.Ctx) error {
	var req removeNodesRequest
	if err := c.Bind().JSON(&req); err != nil {
		return writeError(c, errInvalidBody)
	}

	return s.withEditor(c, func(e *crewflow.Editor) error {
		views, err := e.RemoveBatch(req.IDs)
		s.metrics.observe("remove", err)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(flowResponse{ID: c.Params("id"), Views: views})
	})
}

// ── Selection ─────────────────────────────────────────────────────────

func (s *Server) getSelection(c fiber.Ctx) error {
	return s.withEditor(c, func(e *crewflow.Editor) error {
		node, ok := e.Selected()
		if !ok {
			return c.JSON(fiber.Map{"node": nil})
		}
		return c.JSON(fiber.Map{"node": node})
	})
}

func (s *Server) selectNode(c fiber.Ctx) error {
	var req selectRequest
	if err := c.Bind().JSON(&req); err != nil {
		return writeError(c, errInvalidBody)
	}
	return s.withEditor(c, func(e *crewflow.Editor) error {
		if err := e.Select(req.ID); err != nil {
			return writeError(c, err)
		}
		node, _ := e.Selected()
		return c.JSON(fiber.Map{"node": node})
	})
}

func (s *Server) clearSelection(c fiber.Ctx) error {
	return s.withEditor(c, func(e *crewflow.Editor) error {
		e.ClearSelection()
		return c.SendStatus(fiber.StatusNoContent)
	})
}
