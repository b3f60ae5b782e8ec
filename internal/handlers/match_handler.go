package handlers

import (
	"context"
	"time"

	"matching-service/internal/middleware"
	"matching-service/internal/models"
	"matching-service/internal/service"

	"github.com/gofiber/fiber/v3"
)

type MatchHandler struct {
	matchService *service.MatchService
}

func NewMatchHandler(matchService *service.MatchService) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
	}
}

func (h *MatchHandler) RegisterRoutes(app *fiber.App) {
	group := app.Group("/protected/matches")

	group.Post("/compute", h.ComputeMatch, middleware.RequirePermission(middleware.ComputeMatchPermission))
	group.Post("/relationships/:id/rescore", h.RescoreRelationship, middleware.RequirePermission(middleware.RescorePermission))
	group.Post("/agents/:agentId/rescore", h.RescoreAgent, middleware.RequirePermission(middleware.RescorePermission))
	group.Post("/gigs/:gigId/rescore", h.RescoreGig, middleware.RequirePermission(middleware.RescorePermission))

	profiles := app.Group("/protected/profiles")
	profiles.Get("/agents/:agentId", h.GetAgentProfile, middleware.RequirePermission(middleware.ReadRelationshipPermission))
	profiles.Get("/gigs/:gigId", h.GetGigProfile, middleware.RequirePermission(middleware.ReadRelationshipPermission))
}

// ComputeMatch scores an agent against a gig without persisting anything.
// Callers may pass a weight vector; it falls back to the canonical one.
func (h *MatchHandler) ComputeMatch(c fiber.Ctx) error {
	var req models.ComputeMatchRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.AgentID == "" || req.GigID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Agent ID and gig ID are required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := h.matchService.ComputeMatchByIDs(ctx, req.AgentID, req.GigID, req.Weights)
	if err != nil {
		return relationshipError(c, err, "Failed to compute match")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"match": result,
		},
	})
}

func (h *MatchHandler) RescoreRelationship(c fiber.Ctx) error {
	relationshipID := c.Params("id")
	if relationshipID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Relationship ID is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rel, err := h.matchService.RescoreRelationship(ctx, relationshipID)
	if err != nil {
		return relationshipError(c, err, "Failed to rescore relationship")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Relationship rescored successfully",
		"data": fiber.Map{
			"relationship": rel,
		},
	})
}

func (h *MatchHandler) RescoreAgent(c fiber.Ctx) error {
	agentID := c.Params("agentId")
	if agentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Agent ID is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := h.matchService.RescoreAgent(ctx, agentID); err != nil {
		return relationshipError(c, err, "Failed to rescore agent relationships")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Agent relationships rescored successfully",
	})
}

func (h *MatchHandler) GetAgentProfile(c fiber.Ctx) error {
	agentID := c.Params("agentId")
	if agentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Agent ID is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	agent, err := h.matchService.GetAgentProfile(ctx, agentID)
	if err != nil {
		return relationshipError(c, err, "Failed to get agent profile")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"agent": agent,
		},
	})
}

func (h *MatchHandler) GetGigProfile(c fiber.Ctx) error {
	gigID := c.Params("gigId")
	if gigID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Gig ID is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	gig, err := h.matchService.GetGigProfile(ctx, gigID)
	if err != nil {
		return relationshipError(c, err, "Failed to get gig profile")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"gig": gig,
		},
	})
}

func (h *MatchHandler) RescoreGig(c fiber.Ctx) error {
	gigID := c.Params("gigId")
	if gigID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Gig ID is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := h.matchService.RescoreGig(ctx, gigID); err != nil {
		return relationshipError(c, err, "Failed to rescore gig relationships")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Gig relationships rescored successfully",
	})
}
