package handlers

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/serviceloop/marketplace-backend/internal/dto"
	"github.com/serviceloop/marketplace-backend/internal/identity"
	"github.com/serviceloop/marketplace-backend/internal/services"
)

type SyncHandler struct {
	syncService *services.SyncService
}

func NewSyncHandler(syncService *services.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// Sync is hit on every login; it doubles as registration for first-time
// users. The only input is the bearer credential.
func (h *SyncHandler) Sync(c *fiber.Ctx) error {
	token := bearerToken(c.Get(fiber.HeaderAuthorization))

	user, profile, err := h.syncService.Sync(c.UserContext(), token)
	if err != nil {
		if errors.Is(err, identity.ErrMissingCredential) || errors.Is(err, identity.ErrInvalidCredential) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: "Unauthorized",
			})
		}
		slog.Error("user sync failed", "action", "sync", "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Internal server error",
		})
	}

	return c.JSON(dto.SyncResponse{User: user, Business: profile})
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
