package models

import "time"

// BillingMethod is how a player pays the registration fee.
type BillingMethod string

const (
	BillingBoleto     BillingMethod = "BOLETO"
	BillingPix        BillingMethod = "PIX"
	BillingCreditCard BillingMethod = "CREDIT_CARD"
)

func (b BillingMethod) Valid() bool {
	switch b {
	case BillingBoleto, BillingPix, BillingCreditCard:
		return true
	}
	return false
}

// PaymentSummary is the normalized result of one billing attempt. It carries
// only what callers render; the raw gateway response never crosses the facade.
type PaymentSummary struct {
	ID            string        `json:"id"`
	BillingMethod BillingMethod `json:"billing_method"`
	Status        string        `json:"status"`
	Value         float64       `json:"value"`
	DueDate       string        `json:"due_date"`
	InvoiceURL    string        `json:"invoice_url,omitempty"`
	BankSlipURL   string        `json:"bank_slip_url,omitempty"`
	Simulated     bool          `json:"simulated"`

	// Method-specific rendering data, populated on the simulated path and by
	// detail retrieval on the real path.
	DigitableLine string `json:"digitable_line,omitempty"`
	PixPayload    string `json:"pix_payload,omitempty"`
	PixImage      string `json:"pix_image,omitempty"`
	CardLast4     string `json:"card_last4,omitempty"`
}

// PaymentDetails is the renderable proof-of-payment artifact, fetched
// independently of payment creation.
type PaymentDetails struct {
	Payment    PaymentSummary `json:"payment"`
	PixQRCode  *PixQRCode     `json:"pix_qr_code,omitempty"`
	QRImageURL string         `json:"qr_image_url,omitempty"`
}

type PixQRCode struct {
	Payload      string `json:"payload"`
	EncodedImage string `json:"encoded_image"`
}

// CardInput is the raw card data for a CREDIT_CARD payment.
type CardInput struct {
	HolderName  string `json:"holder_name"`
	Number      string `json:"number"`
	ExpiryMonth string `json:"expiry_month"`
	ExpiryYear  string `json:"expiry_year"`
	CCV         string `json:"ccv"`
}

// CardHolderInput is the billing address data the gateway requires alongside
// raw card fields.
type CardHolderInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	TaxID         string `json:"tax_id"`
	PostalCode    string `json:"postal_code"`
	AddressNumber string `json:"address_number"`
	Phone         string `json:"phone"`
}

// SavedCard is a tokenized card kept on the customer record. Dedup is by
// token, not by masked number.
type SavedCard struct {
	Token      string    `json:"token"`
	Last4      string    `json:"last4"`
	Brand      string    `json:"brand"`
	HolderName string    `json:"holder_name"`
	CreatedAt  time.Time `json:"created_at"`
}
