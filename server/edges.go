package server

import (
	"github.com/gofiber/fiber/v3"

	"github.com/meikuraledutech/crewflow"
)

type connectRequest struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type edgeResponse struct {
	Edge  crewflow.Edge  `json:"edge"`
	Views crewflow.Views `json:"views"`
}

func (s *Server) connect(c fiber.Ctx) error {
	var req connectRequest
	if err := c.Bind().JSON(&req); err != nil {
		return writeError(c, errInvalidBody)
	}

	return s.withEditor(c, func(e *crewflow.Editor) error {
		edge, views, err := e.Connect(req.Source, req.Target, req.ID)
		s.metrics.observe("connect", err)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(edgeResponse{Edge: edge, Views: views})
	})
}

func (s *Server) disconnect(c fiber.Ctx) error {
	return s.withEditor(c, func(e *crewflow.Editor) error {
		views, err := e.Disconnect(c.Params("edgeId"))
		s.metrics.observe("disconnect", err)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(flowResponse{ID: c.Params("id"), Views: views})
	})
}
