package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clerky/website/internal/models"
)

const (
	// CheckoutImageID is the document holding the product image shown on the checkout page.
	CheckoutImageID = "6972cf0ba5a0dda7d59692cc"

	DefaultSubscriptionValue = 197.0
	DefaultMinutesToExpire   = 10
	DefaultItemDescription   = "Assinatura mensal"
	ItemName                 = "Clerky PRO"
	ImagePlaceholder         = " "
	DueDateOffsetDays        = 7

	SuccessURL = "https://clerky.com.br/sucesso"
	CancelURL  = "https://clerky.com.br/cancelado"
	ExpiredURL = "https://clerky.com.br/expirado"
)

// ErrNoCheckoutURL means the provider accepted the session but sent back no link.
var ErrNoCheckoutURL = errors.New("checkout url not returned by provider")

type ImageRepository interface {
	GetImageBase64(ctx context.Context, id string) (string, error)
}

type CheckoutProvider interface {
	CheckConfig() error
	CreateCheckout(ctx context.Context, spec *models.CheckoutSessionSpec) (*models.ProviderCheckout, error)
}

type CheckoutService struct {
	provider     CheckoutProvider
	images       ImageRepository
	defaultValue float64
	logger       *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewCheckoutService parses subscriptionValue (SUBSCRIPTION_VALUE); an empty or
// unparsable value falls back to DefaultSubscriptionValue.
func NewCheckoutService(provider CheckoutProvider, images ImageRepository, subscriptionValue string, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		provider:     provider,
		images:       images,
		defaultValue: parseSubscriptionValue(subscriptionValue),
		logger:       logger.Named("checkout"),
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

func (s *CheckoutService) CreateCheckout(ctx context.Context, req *models.CheckoutRequest) (*models.CheckoutResult, error) {
	if err := s.provider.CheckConfig(); err != nil {
		s.logger.Error("missing provider configuration", zap.Error(err))
		return nil, err
	}

	externalReference := s.newID()
	itemExternalReference := s.newID()

	image := s.loadImage(ctx)
	spec := s.buildSpec(req, image, externalReference, itemExternalReference)

	s.logger.Info("creating checkout",
		zap.Any("billingTypes", spec.BillingTypes),
		zap.String("nextDueDate", spec.Subscription.NextDueDate),
		zap.Int("quantity", spec.Items[0].Quantity),
		zap.Float64("value", spec.Items[0].Value),
		zap.Bool("hasImage", image != ImagePlaceholder),
		zap.String("externalReference", externalReference),
	)

	out, err := s.provider.CreateCheckout(ctx, spec)
	if err != nil {
		s.logger.Error("provider rejected checkout", zap.Error(err))
		return nil, err
	}

	s.logger.Info("checkout created",
		zap.String("id", out.ID),
		zap.String("status", out.Status),
		zap.String("link", out.Link),
		zap.String("url", out.URL),
		zap.String("invoiceUrl", out.InvoiceURL),
	)

	link := out.CheckoutURL()
	if link == "" {
		s.logger.Error("provider returned no checkout url", zap.String("id", out.ID))
		return nil, ErrNoCheckoutURL
	}

	return &models.CheckoutResult{
		Success:           true,
		Link:              link,
		CheckoutID:        out.ID,
		ExternalReference: externalReference,
		Status:            out.Status,
	}, nil
}

// loadImage never fails; a missing image only costs the checkout its picture.
func (s *CheckoutService) loadImage(ctx context.Context) string {
	image, err := s.images.GetImageBase64(ctx, CheckoutImageID)
	if err != nil || image == "" {
		s.logger.Warn("checkout image unavailable, using placeholder",
			zap.String("imageId", CheckoutImageID), zap.Error(err))
		return ImagePlaceholder
	}
	return image
}

func (s *CheckoutService) buildSpec(req *models.CheckoutRequest, image, externalReference, itemExternalReference string) *models.CheckoutSessionSpec {
	quantity := 1
	if req.Quantity != nil && *req.Quantity > 0 {
		quantity = *req.Quantity
	}

	description := DefaultItemDescription
	if req.Description != "" {
		description = req.Description
	}

	minutes := DefaultMinutesToExpire
	if req.MinutesToExpire != nil && *req.MinutesToExpire > 0 {
		minutes = *req.MinutesToExpire
	}

	return &models.CheckoutSessionSpec{
		BillingTypes: ResolveBillingTypes(req.BillingTypes),
		ChargeTypes:  []string{models.ChargeTypeRecurrent},
		Subscription: models.SubscriptionSpec{
			Cycle:       models.CycleMonthly,
			NextDueDate: NextDueDate(s.now()),
		},
		Callback: models.CallbackSpec{
			SuccessURL: SuccessURL,
			CancelURL:  CancelURL,
			ExpiredURL: ExpiredURL,
		},
		Items: []models.CheckoutItem{
			{
				ImageBase64:       image,
				Name:              ItemName,
				Quantity:          quantity,
				Value:             ResolveValue(req.Value, s.defaultValue),
				Description:       description,
				ExternalReference: itemExternalReference,
			},
		},
		MinutesToExpire:   minutes,
		ExternalReference: externalReference,
	}
}

// ResolveBillingTypes returns the client list unchanged, including an explicit
// empty one; only an absent value gets the default.
func ResolveBillingTypes(in models.BillingTypes) []interface{} {
	if in == nil {
		return []interface{}{models.BillingTypeCreditCard}
	}
	out := make([]interface{}, len(in))
	copy(out, in)
	return out
}

// ResolveValue prefers the client value; zero counts as absent.
func ResolveValue(client *float64, def float64) float64 {
	if client != nil && *client > 0 {
		return *client
	}
	return def
}

// NextDueDate is the UTC calendar date seven days after now.
func NextDueDate(now time.Time) string {
	return now.UTC().AddDate(0, 0, DueDateOffsetDays).Format("2006-01-02")
}

// parseSubscriptionValue uses any parsable number, zero included.
func parseSubscriptionValue(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultSubscriptionValue
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return DefaultSubscriptionValue
	}
	return v
}
