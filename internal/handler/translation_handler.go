package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clerky/website/internal/models"
	"github.com/clerky/website/internal/service"
)

type TranslationHandler struct {
	translationService *service.TranslationService
}

func NewTranslationHandler(translationService *service.TranslationService) *TranslationHandler {
	return &TranslationHandler{
		translationService: translationService,
	}
}

// GetTranslations serves GET /api/translations?lang=CODE.
func (h *TranslationHandler) GetTranslations(c *fiber.Ctx) error {
	lang := c.Query("lang", service.DefaultLanguage)
	return c.JSON(h.translationService.ForLanguage(lang))
}

func (h *TranslationHandler) GetAllTranslations(c *fiber.Ctx) error {
	return c.JSON(h.translationService.All())
}

// GetTranslationKey serves GET /api/translations/key?lang=CODE&key=a.b.c.
func (h *TranslationHandler) GetTranslationKey(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("key is required"))
	}
	lang := c.Query("lang", service.DefaultLanguage)

	return c.JSON(models.SuccessResponse(fiber.Map{
		"lang":  lang,
		"key":   key,
		"value": h.translationService.Translate(lang, key),
	}))
}
