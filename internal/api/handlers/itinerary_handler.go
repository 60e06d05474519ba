package handlers

import (
	"errors"
	"time"

	"finguard/internal/dto"
	"finguard/internal/repository"
	"finguard/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ItineraryHandler struct {
	itinService *service.ItineraryService
	logger      *zap.Logger
}

func NewItineraryHandler(itinService *service.ItineraryService, logger *zap.Logger) *ItineraryHandler {
	return &ItineraryHandler{
		itinService: itinService,
		logger:      logger,
	}
}

// Save godoc
// @Summary Declare a travel itinerary
// @Description Overwrite the caller's travel itinerary wholesale
// @Tags itinerary
// @Accept json
// @Produce json
// @Param request body dto.SaveItineraryRequest true "Itinerary"
// @Security Bearer
// @Success 200 {object} dto.ItineraryResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/itinerary [put]
func (h *ItineraryHandler) Save(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.SaveItineraryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	start, err := time.Parse(dto.DateLayout, req.StartDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid start_date, expected YYYY-MM-DD",
		})
	}
	end, err := time.Parse(dto.DateLayout, req.EndDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid end_date, expected YYYY-MM-DD",
		})
	}

	itin, err := h.itinService.Save(c.Context(), userID, service.SaveItineraryParams{
		Location:  req.Location,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		h.logger.Error("Failed to save itinerary", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save itinerary",
		})
	}

	return c.JSON(dto.NewItineraryResponse(itin))
}

// Get godoc
// @Summary Get the current itinerary
// @Tags itinerary
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.ItineraryResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/itinerary [get]
func (h *ItineraryHandler) Get(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	itin, err := h.itinService.Get(c.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No itinerary declared",
			})
		}
		h.logger.Error("Failed to load itinerary", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load itinerary",
		})
	}

	return c.JSON(dto.NewItineraryResponse(itin))
}

// Delete godoc
// @Summary Clear the itinerary
// @Description Remove the declared travel window, returning to "not traveling"
// @Tags itinerary
// @Security Bearer
// @Success 204
// @Failure 401 {object} map[string]string
// @Router /api/v1/itinerary [delete]
func (h *ItineraryHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	if err := h.itinService.Delete(c.Context(), userID); err != nil {
		h.logger.Error("Failed to delete itinerary", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete itinerary",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
