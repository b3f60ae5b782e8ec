package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"matching-service/internal/middleware"
	"matching-service/internal/models"
	"matching-service/internal/service"

	"github.com/gofiber/fiber/v3"
)

type GigAgentHandler struct {
	enrollmentService *service.EnrollmentService
	syncService       *service.SyncService
}

func NewGigAgentHandler(enrollmentService *service.EnrollmentService, syncService *service.SyncService) *GigAgentHandler {
	return &GigAgentHandler{
		enrollmentService: enrollmentService,
		syncService:       syncService,
	}
}

func (h *GigAgentHandler) RegisterRoutes(app *fiber.App) {
	group := app.Group("/protected/relationships")

	// Lifecycle entry points
	group.Post("/gigs/:gigId/invite/:agentId", h.InviteAgent, middleware.RequirePermission(middleware.InviteAgentPermission))
	group.Post("/gigs/:gigId/request/:agentId", h.RequestEnrollment, middleware.RequirePermission(middleware.RequestEnrollmentPermission))

	// Decisions on an existing relationship
	group.Post("/:id/invitation/accept", h.AcceptInvitation, middleware.RequirePermission(middleware.DecideEnrollmentPermission))
	group.Post("/:id/invitation/reject", h.RejectInvitation, middleware.RequirePermission(middleware.DecideEnrollmentPermission))
	group.Post("/:id/request/accept", h.AcceptEnrollmentRequest, middleware.RequirePermission(middleware.DecideEnrollmentPermission))
	group.Post("/:id/request/reject", h.RejectEnrollmentRequest, middleware.RequirePermission(middleware.DecideEnrollmentPermission))
	group.Post("/:id/cancel", h.CancelRelationship, middleware.RequirePermission(middleware.CancelRelationshipPermission))

	// Reads
	group.Get("/:id", h.GetRelationship, middleware.RequirePermission(middleware.ReadRelationshipPermission))
	group.Get("/agents/:agentId", h.GetAgentRelationships, middleware.RequirePermission(middleware.ReadRelationshipPermission))
	group.Get("/gigs/:gigId", h.GetGigRelationships, middleware.RequirePermission(middleware.ReadRelationshipPermission))

	// Maintenance sweep
	group.Post("/expire-stale", h.ExpireStale, middleware.RequirePermission(middleware.AdminPermission))
}

func (h *GigAgentHandler) InviteAgent(c fiber.Ctx) error {
	gigID := c.Params("gigId")
	agentID := c.Params("agentId")
	if gigID == "" || agentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Gig ID and agent ID are required",
		})
	}

	var req models.InviteAgentRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rel, err := h.enrollmentService.InviteAgent(ctx, gigID, agentID, req.Notes)
	if err != nil {
		return relationshipError(c, err, "Failed to invite agent")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Agent invited successfully",
		"data": fiber.Map{
			"relationship": rel,
		},
	})
}

func (h *GigAgentHandler) RequestEnrollment(c fiber.Ctx) error {
	gigID := c.Params("gigId")
	agentID := c.Params("agentId")
	if gigID == "" || agentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Gig ID and agent ID are required",
		})
	}

	var req models.RequestEnrollmentRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rel, err := h.enrollmentService.RequestEnrollment(ctx, agentID, gigID, req.Notes)
	if err != nil {
		return relationshipError(c, err, "Failed to request enrollment")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Enrollment requested successfully",
		"data": fiber.Map{
			"relationship": rel,
		},
	})
}

func (h *GigAgentHandler) AcceptInvitation(c fiber.Ctx) error {
	return h.decide(c, "Invitation accepted successfully", h.enrollmentService.AcceptInvitation)
}

func (h *GigAgentHandler) AcceptEnrollmentRequest(c fiber.Ctx) error {
	return h.decide(c, "Enrollment request accepted successfully", h.enrollmentService.AcceptEnrollmentRequest)
}

func (h *GigAgentHandler) decide(c fiber.Ctx, message string, accept func(context.Context, string, string) (*models.GigAgent, error)) error {
	relationshipID := c.Params("id")
	if relationshipID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Relationship ID is required",
		})
	}

	var req models.DecisionRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rel, err := accept(ctx, relationshipID, req.Notes)
	if err != nil {
		return relationshipError(c, err, "Failed to accept")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": message,
		"data": fiber.Map{
			"relationship": rel,
		},
	})
}

func (h *GigAgentHandler) RejectInvitation(c fiber.Ctx) error {
	relationshipID := c.Params("id")
	if relationshipID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Relationship ID is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.enrollmentService.RejectInvitation(ctx, relationshipID); err != nil {
		return relationshipError(c, err, "Failed to reject invitation")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Invitation rejected successfully",
	})
}

func (h *GigAgentHandler) RejectEnrollmentRequest(c fiber.Ctx) error {
	relationshipID := c.Params("id")
	if relationshipID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Relationship ID is required",
		})
	}

	var req models.RejectRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rel, err := h.enrollmentService.RejectEnrollmentRequest(ctx, relationshipID, req.Reason)
	if err != nil {
		return relationshipError(c, err, "Failed to reject enrollment request")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Enrollment request rejected successfully",
		"data": fiber.Map{
			"relationship": rel,
		},
	})
}

func (h *GigAgentHandler) CancelRelationship(c fiber.Ctx) error {
	relationshipID := c.Params("id")
	if relationshipID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Relationship ID is required",
		})
	}

	var req models.CancelRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rel, err := h.enrollmentService.CancelRelationship(ctx, relationshipID, req.Reason)
	if err != nil {
		return relationshipError(c, err, "Failed to cancel relationship")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Relationship cancelled successfully",
		"data": fiber.Map{
			"relationship": rel,
		},
	})
}

func (h *GigAgentHandler) GetRelationship(c fiber.Ctx) error {
	relationshipID := c.Params("id")
	if relationshipID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Relationship ID is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rel, err := h.enrollmentService.GetRelationship(ctx, relationshipID)
	if err != nil {
		return relationshipError(c, err, "Failed to retrieve relationship")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"relationship": rel,
		},
	})
}

func (h *GigAgentHandler) GetAgentRelationships(c fiber.Ctx) error {
	agentID := c.Params("agentId")
	if agentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Agent ID is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	views, err := h.syncService.AgentViews(ctx, agentID)
	if err != nil {
		return relationshipError(c, err, "Failed to retrieve agent relationships")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"relationships": views,
			"count":         len(views),
		},
	})
}

func (h *GigAgentHandler) GetGigRelationships(c fiber.Ctx) error {
	gigID := c.Params("gigId")
	if gigID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Gig ID is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	views, err := h.syncService.GigViews(ctx, gigID)
	if err != nil {
		return relationshipError(c, err, "Failed to retrieve gig relationships")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"relationships": views,
			"count":         len(views),
		},
	})
}

func (h *GigAgentHandler) ExpireStale(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := h.enrollmentService.ExpireStale(ctx)
	if err != nil {
		log.Printf("Failed to expire stale invitations: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to expire stale invitations",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Expiry sweep complete",
		"data":    result,
	})
}

// relationshipError maps domain errors to HTTP statuses. Unknown errors
// are logged and returned as 500 with the given message.
func relationshipError(c fiber.Ctx, err error, message string) error {
	var stateErr *models.StateError
	switch {
	case errors.Is(err, models.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, models.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.As(err, &stateErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":         stateErr.Error(),
			"currentStatus": stateErr.Current,
		})
	default:
		log.Printf("%s: %v", message, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": message,
		})
	}
}
