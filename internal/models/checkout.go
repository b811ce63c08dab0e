package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	BillingTypeCreditCard = "CREDIT_CARD"
	ChargeTypeRecurrent   = "RECURRENT"
	CycleMonthly          = "MONTHLY"
)

// BillingTypes accepts a list, or a single bare value which is wrapped into a
// one-element list as is. A nil BillingTypes means the client sent nothing
// usable; an explicit [] stays empty.
type BillingTypes []interface{}

func (b *BillingTypes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		list := []interface{}{}
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("billingTypes: %w", err)
		}
		*b = list
		return nil
	}

	var single interface{}
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("billingTypes: %w", err)
	}
	if isBlank(single) {
		*b = nil
		return nil
	}
	*b = BillingTypes{single}
	return nil
}

// isBlank reports null, "", 0 and false.
func isBlank(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case float64:
		return t == 0
	case bool:
		return !t
	}
	return false
}

// CheckoutRequest is the client payload of POST /api/checkout. Every field is optional.
type CheckoutRequest struct {
	BillingTypes    BillingTypes `json:"billingTypes"`
	Value           *float64     `json:"value" validate:"omitempty,gte=0"`
	Quantity        *int         `json:"quantity" validate:"omitempty,gte=0"`
	Description     string       `json:"description" validate:"max=500"`
	MinutesToExpire *int         `json:"minutesToExpire" validate:"omitempty,gte=0"`
}

type SubscriptionSpec struct {
	Cycle       string `json:"cycle"`
	NextDueDate string `json:"nextDueDate"`
}

type CallbackSpec struct {
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
	ExpiredURL string `json:"expiredUrl"`
}

type CheckoutItem struct {
	ImageBase64       string  `json:"imageBase64"`
	Name              string  `json:"name"`
	Quantity          int     `json:"quantity"`
	Value             float64 `json:"value"`
	Description       string  `json:"description"`
	ExternalReference string  `json:"externalReference"`
}

// CheckoutSessionSpec is the body sent to the provider's /checkouts endpoint.
type CheckoutSessionSpec struct {
	BillingTypes      []interface{}    `json:"billingTypes"`
	ChargeTypes       []string         `json:"chargeTypes"`
	Subscription      SubscriptionSpec `json:"subscription"`
	Callback          CallbackSpec     `json:"callback"`
	Items             []CheckoutItem   `json:"items"`
	MinutesToExpire   int              `json:"minutesToExpire"`
	ExternalReference string           `json:"externalReference"`
}

// ProviderCheckout is the subset of the provider response we read.
type ProviderCheckout struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Link       string `json:"link"`
	URL        string `json:"url"`
	InvoiceURL string `json:"invoiceUrl"`
}

// CheckoutURL returns link, url or invoiceUrl, whichever is set first.
func (p *ProviderCheckout) CheckoutURL() string {
	for _, u := range []string{p.Link, p.URL, p.InvoiceURL} {
		if strings.TrimSpace(u) != "" {
			return u
		}
	}
	return ""
}

type CheckoutResult struct {
	Success           bool   `json:"success"`
	Link              string `json:"link"`
	CheckoutID        string `json:"checkoutId"`
	ExternalReference string `json:"externalReference"`
	Status            string `json:"status"`
}
