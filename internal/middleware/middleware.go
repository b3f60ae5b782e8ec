package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

const (
	// Relationship permissions
	InviteAgentPermission        = "invite:gig-agent"
	RequestEnrollmentPermission  = "request:gig-agent"
	DecideEnrollmentPermission   = "decide:gig-agent"
	CancelRelationshipPermission = "cancel:gig-agent"
	ReadRelationshipPermission   = "read:gig-agent"

	// Matching permissions
	ComputeMatchPermission = "compute:match"
	RescorePermission      = "rescore:match"

	// Admin permissions (for backward compatibility)
	AdminPermission   = "admin"
	ManagerPermission = "manager"
)

// RequirePermission trusts the gateway-injected X-User-Permissions
// header. Admin and manager bypass individual permission checks.
func RequirePermission(permission string) fiber.Handler {
	return func(c fiber.Ctx) error {
		granted := c.Get("X-User-Permissions")
		if hasPermission(granted, permission) {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions",
		})
	}
}

func hasPermission(granted, required string) bool {
	for _, p := range strings.Split(granted, ",") {
		p = strings.TrimSpace(p)
		if p == required || p == AdminPermission || p == ManagerPermission {
			return true
		}
	}
	return false
}
