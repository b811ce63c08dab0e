package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/clerky/website/internal/models"
	"github.com/clerky/website/internal/service"
	"github.com/clerky/website/pkg/payment"
	"github.com/clerky/website/pkg/utils"
)

const (
	msgConfigIncomplete = "Configuração do servidor incompleta"
	msgProviderError    = "Erro ao criar checkout na Asaas"
	msgNoCheckoutURL    = "URL do checkout não retornada pela API"
	msgInternalError    = "Erro interno ao processar checkout"
	msgInvalidBody      = "Corpo da requisição inválido"
)

type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	validator       *utils.Validator
	logger          *zap.Logger
}

func NewCheckoutHandler(checkoutService *service.CheckoutService, validator *utils.Validator, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		validator:       validator,
		logger:          logger,
	}
}

func (h *CheckoutHandler) CreateCheckout(c *fiber.Ctx) error {
	var req models.CheckoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponseWithDetails(msgInvalidBody, err.Error()))
		}
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponseWithDetails(msgInvalidBody, utils.Message(err)))
	}

	result, err := h.checkoutService.CreateCheckout(c.UserContext(), &req)
	if err != nil {
		return h.checkoutError(c, err)
	}

	return c.JSON(result)
}

func (h *CheckoutHandler) checkoutError(c *fiber.Ctx, err error) error {
	var apiErr *payment.APIError

	switch {
	case errors.Is(err, payment.ErrNotConfigured):
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(msgConfigIncomplete))
	case errors.As(err, &apiErr):
		return c.Status(apiErr.StatusCode).JSON(models.ErrorResponseWithDetails(msgProviderError, apiErr.Body))
	case errors.Is(err, service.ErrNoCheckoutURL):
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(msgNoCheckoutURL))
	default:
		h.logger.Error("error processing checkout", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(msgInternalError))
	}
}
