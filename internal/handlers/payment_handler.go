package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lTzHorus/Carne/internal/domain"
	"github.com/lTzHorus/Carne/internal/httpx"
	"github.com/lTzHorus/Carne/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RegisterRoutes mounts the payment API and the health endpoint.
func (h *PaymentHandler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/payments", h.ListPayments)
	api.Post("/payments", h.CreatePayment)
	// /pay before /:id so the transition route wins the match
	api.Put("/payments/:id/pay", h.MarkPaymentPaid)
	api.Put("/payments/:id", h.UpdatePayment)
	api.Delete("/payments/:id", h.DeletePayment)

	app.Get("/health", h.HealthCheck)
}

func (h *PaymentHandler) ListPayments(c *fiber.Ctx) error {
	filter := domain.ParseStatusFilter(c.Query("status"))

	payments, err := h.paymentService.ListPayments(c.UserContext(), filter)
	if err != nil {
		log.Printf("Payments list error: %v", err)
		return httpx.Error(c, fiber.StatusInternalServerError, "Failed to list payments")
	}

	return c.JSON(mapPayments(payments))
}

func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	var request domain.CreatePaymentRequest
	if err := c.BodyParser(&request); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "No data provided")
	}

	id, err := h.paymentService.CreatePayment(c.UserContext(), request)
	if err != nil {
		var valErr *service.ValidationError
		if errors.As(err, &valErr) {
			return httpx.ErrorWithDetails(c, fiber.StatusBadRequest, "Validation failed", valErr.Fields)
		}
		log.Printf("Payment creation error: %v", err)
		return httpx.Error(c, fiber.StatusInternalServerError, "Failed to add payment")
	}

	return httpx.Created(c, id.String(), "Payment added successfully")
}

func (h *PaymentHandler) MarkPaymentPaid(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Invalid payment ID")
	}

	if err := h.paymentService.MarkPaid(c.UserContext(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return httpx.Error(c, fiber.StatusNotFound, "Payment not found or already paid")
		}
		log.Printf("Payment mark paid error: %v", err)
		return httpx.Error(c, fiber.StatusInternalServerError, "Failed to mark payment as paid")
	}

	return httpx.Success(c, fiber.StatusOK, "Payment marked as paid")
}

func (h *PaymentHandler) UpdatePayment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Invalid payment ID")
	}

	var request domain.UpdatePaymentRequest
	if err := c.BodyParser(&request); err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "No data provided")
	}

	if err := h.paymentService.UpdatePayment(c.UserContext(), id, request); err != nil {
		var valErr *service.ValidationError
		switch {
		case errors.As(err, &valErr):
			return httpx.ErrorWithDetails(c, fiber.StatusBadRequest, "Validation failed", valErr.Fields)
		case errors.Is(err, domain.ErrNotFound):
			return httpx.Error(c, fiber.StatusNotFound, "Payment not found or no changes made")
		default:
			log.Printf("Payment update error: %v", err)
			return httpx.Error(c, fiber.StatusInternalServerError, "Failed to update payment")
		}
	}

	return httpx.Success(c, fiber.StatusOK, "Payment updated successfully")
}

func (h *PaymentHandler) DeletePayment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.Error(c, fiber.StatusBadRequest, "Invalid payment ID")
	}

	if err := h.paymentService.DeletePayment(c.UserContext(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return httpx.Error(c, fiber.StatusNotFound, "Payment not found")
		}
		log.Printf("Payment delete error: %v", err)
		return httpx.Error(c, fiber.StatusInternalServerError, "Failed to delete payment")
	}

	return httpx.Success(c, fiber.StatusOK, "Payment deleted successfully")
}

func (h *PaymentHandler) HealthCheck(c *fiber.Ctx) error {
	if err := h.paymentService.HealthCheck(c.UserContext()); err != nil {
		log.Printf("Health check error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(HealthResponse{
			Status:   "error",
			Database: "disconnected",
		})
	}

	return c.JSON(HealthResponse{
		Status:   "ok",
		Database: "connected",
	})
}
