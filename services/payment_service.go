package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/quadrahub/arena-system/gateway"
	"github.com/quadrahub/arena-system/models"
	"github.com/quadrahub/arena-system/repositories"
	"github.com/quadrahub/arena-system/storage"
)

const (
	defaultDueDays = 7
	dueDateLayout  = "2006-01-02"

	simulatedStatusConfirmed = "CONFIRMED"

	// Fixed rendering placeholders for the simulated path. Nothing validates
	// these; they only have to look right on screen.
	simulatedDigitableLine = "23793.38128 60007.827136 95000.063305 9 84660000050000"
	simulatedPixPayload    = "00020126330014BR.GOV.BCB.PIX0111quadrahub015204000053039865802BR5909QUADRAHUB6009SAO PAULO62070503***63041D3D"
	simulatedPixImage      = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="
)

// GatewayAPI is the slice of the gateway proxy the payment facade consumes.
// *gateway.Client satisfies it.
type GatewayAPI interface {
	GetConfig(ctx context.Context) (*gateway.ConfigStatus, error)
	SaveConfig(ctx context.Context, req gateway.ConfigRequest) error
	CreateCustomer(ctx context.Context, arenaKey string, req gateway.CustomerRequest) (*gateway.CustomerResponse, error)
	CreatePayment(ctx context.Context, arenaKey string, req gateway.PaymentRequest) (*gateway.PaymentResponse, error)
	GetPayment(ctx context.Context, arenaKey, paymentID string) (*gateway.PaymentResponse, error)
	GetPixQRCode(ctx context.Context, arenaKey, paymentID string) (*gateway.PixQRCodeResponse, error)
	GetBankSlip(ctx context.Context, arenaKey, paymentID string) (*gateway.BankSlipResponse, error)
}

// GatewayStatusProvider answers whether the platform-level gateway account is
// enabled. It is injected rather than read from ambient state so the facade
// stays testable without a network singleton.
type GatewayStatusProvider interface {
	Status(ctx context.Context) (gateway.ConfigStatus, error)
}

type clientStatusProvider struct {
	api GatewayAPI
}

func NewGatewayStatusProvider(api GatewayAPI) GatewayStatusProvider {
	return &clientStatusProvider{api: api}
}

func (p *clientStatusProvider) Status(ctx context.Context) (gateway.ConfigStatus, error) {
	status, err := p.api.GetConfig(ctx)
	if err != nil {
		return gateway.ConfigStatus{}, err
	}
	return *status, nil
}

// PayInput carries everything one billing attempt needs. For CREDIT_CARD,
// either CardToken or Card+CardHolder must be set.
type PayInput struct {
	Arena             *models.Arena
	Customer          models.Customer
	Description       string
	Value             float64
	BillingMethod     models.BillingMethod
	DueDate           *time.Time
	ExternalReference string

	CardToken  string
	Card       *models.CardInput
	CardHolder *models.CardHolderInput
	SaveCard   bool
}

type PaymentService interface {
	Pay(ctx context.Context, input PayInput) (*models.PaymentSummary, error)
	GetPaymentDetails(ctx context.Context, arena *models.Arena, paymentID string, method models.BillingMethod) (*models.PaymentDetails, error)
}

type paymentService struct {
	api       GatewayAPI
	status    GatewayStatusProvider
	customers repositories.CustomerRepository
	uploader  storage.FileUploader
	logger    *slog.Logger
}

func NewPaymentService(
	api GatewayAPI,
	status GatewayStatusProvider,
	customers repositories.CustomerRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) PaymentService {
	return &paymentService{
		api:       api,
		status:    status,
		customers: customers,
		uploader:  uploader,
		logger:    logger,
	}
}

// Pay drives one billing attempt. Route selection: the real gateway path is
// taken only when the arena supplied its own credentials AND the platform
// account is configured; anything else lands on the local simulated path.
// An unreachable config endpoint also falls back to simulated, so a proxy
// outage degrades billing instead of blocking registration.
func (s *paymentService) Pay(ctx context.Context, input PayInput) (*models.PaymentSummary, error) {
	if !input.BillingMethod.Valid() {
		return nil, ErrBillingMethodInvalid
	}
	if input.Value <= 0 {
		return nil, ErrPaymentValueInvalid
	}

	useRealGateway := false
	if input.Arena.HasGatewayCredentials() {
		status, err := s.status.Status(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "gateway config unavailable, using simulated payment",
				slog.String("arena_id", input.Arena.ID), slog.Any("error", err))
		} else {
			useRealGateway = status.Configured
		}
	}

	if !useRealGateway {
		return s.simulatedPayment(input), nil
	}
	return s.realPayment(ctx, input)
}

// simulatedPayment synthesizes a confirmed payment locally: no tax-id
// validation, no customer-on-file, no network call.
func (s *paymentService) simulatedPayment(input PayInput) *models.PaymentSummary {
	due := time.Now().AddDate(0, 0, defaultDueDays)
	if input.DueDate != nil {
		due = *input.DueDate
	}

	payment := &models.PaymentSummary{
		ID:            simulatedPaymentID(),
		BillingMethod: input.BillingMethod,
		Status:        simulatedStatusConfirmed,
		Value:         input.Value,
		DueDate:       due.Format(dueDateLayout),
		Simulated:     true,
	}
	switch input.BillingMethod {
	case models.BillingBoleto:
		payment.DigitableLine = simulatedDigitableLine
	case models.BillingPix:
		payment.PixPayload = simulatedPixPayload
		payment.PixImage = simulatedPixImage
	}
	return payment
}

// simulatedPaymentID builds a time-based identifier with a random suffix.
// Collisions are theoretically possible and not defended against.
func simulatedPaymentID() string {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return fmt.Sprintf("sim_%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("sim_%d_%s", time.Now().UnixNano(), hex.EncodeToString(suffix))
}

func (s *paymentService) realPayment(ctx context.Context, input PayInput) (*models.PaymentSummary, error) {
	taxID, err := ValidateCustomerTaxID(input.Customer)
	if err != nil {
		return nil, err
	}

	arenaKey := input.Arena.APIKey()
	customerID, err := s.ensureCustomerOnFile(ctx, arenaKey, input.Customer, taxID)
	if err != nil {
		return nil, err
	}

	due := time.Now().AddDate(0, 0, defaultDueDays)
	if input.DueDate != nil {
		due = *input.DueDate
	}
	externalRef := input.ExternalReference
	if externalRef == "" {
		externalRef = uuid.NewString()
	}

	req := gateway.PaymentRequest{
		Customer:          customerID,
		BillingType:       string(input.BillingMethod),
		Value:             input.Value,
		DueDate:           due.Format(dueDateLayout),
		Description:       input.Description,
		ExternalReference: externalRef,
	}
	if input.BillingMethod == models.BillingCreditCard {
		if err := attachCardData(&req, input); err != nil {
			return nil, err
		}
	}

	resp, err := s.api.CreatePayment(ctx, arenaKey, req)
	if err != nil {
		return nil, gatewayFailure("create payment", err)
	}

	s.saveCardOnFile(ctx, input, resp)

	summary := &models.PaymentSummary{
		ID:            resp.ID,
		BillingMethod: input.BillingMethod,
		Status:        resp.Status,
		Value:         resp.Value,
		DueDate:       resp.DueDate,
		InvoiceURL:    resp.InvoiceURL,
		BankSlipURL:   resp.BankSlipURL,
	}
	if resp.CreditCard != nil {
		summary.CardLast4 = resp.CreditCard.CreditCardNumber
	}
	return summary, nil
}

// ensureCustomerOnFile resolves the gateway-side customer id, creating the
// remote customer at most once and persisting the returned id back onto the
// local record (member or profile, by tag).
func (s *paymentService) ensureCustomerOnFile(ctx context.Context, arenaKey string, customer models.Customer, taxID string) (string, error) {
	if id := customer.GatewayCustomerID(); id != "" {
		return id, nil
	}

	email := customer.Email()
	if email == "" {
		// Deterministic placeholder so retries hit the same remote customer.
		email = fmt.Sprintf("cliente-%s@quadrahub.com.br", customer.ID())
	}

	resp, err := s.api.CreateCustomer(ctx, arenaKey, gateway.CustomerRequest{
		Name:    customer.Name(),
		Email:   email,
		CpfCnpj: taxID,
		Phone:   digitsOnly(customer.Phone()),
	})
	if err != nil {
		return "", gatewayFailure("create customer", err)
	}

	customer.SetGatewayCustomerID(resp.ID)
	if err := s.customers.SaveCustomer(ctx, customer); err != nil {
		return "", fmt.Errorf("failed to persist gateway customer id for %s: %w", customer.ID(), err)
	}
	return resp.ID, nil
}

func attachCardData(req *gateway.PaymentRequest, input PayInput) error {
	if input.CardToken != "" {
		req.CreditCardToken = input.CardToken
		return nil
	}
	if input.Card == nil || input.CardHolder == nil {
		return ErrCardDataRequired
	}
	req.CreditCard = &gateway.CreditCardRequest{
		HolderName:  input.Card.HolderName,
		Number:      digitsOnly(input.Card.Number),
		ExpiryMonth: input.Card.ExpiryMonth,
		ExpiryYear:  input.Card.ExpiryYear,
		Ccv:         input.Card.CCV,
	}
	req.CreditCardHolderInfo = &gateway.CreditCardHolderInfoRequest{
		Name:          input.CardHolder.Name,
		Email:         input.CardHolder.Email,
		CpfCnpj:       digitsOnly(input.CardHolder.TaxID),
		PostalCode:    digitsOnly(input.CardHolder.PostalCode),
		AddressNumber: input.CardHolder.AddressNumber,
		Phone:         digitsOnly(input.CardHolder.Phone),
	}
	return nil
}

// saveCardOnFile appends the token the gateway returned, deduplicating by
// token. The payment already succeeded, so a failed bookkeeping write is
// logged and swallowed.
func (s *paymentService) saveCardOnFile(ctx context.Context, input PayInput, resp *gateway.PaymentResponse) {
	if !input.SaveCard || resp.CreditCard == nil || resp.CreditCard.CreditCardToken == "" {
		return
	}
	token := resp.CreditCard.CreditCardToken
	if input.Customer.HasSavedToken(token) {
		return
	}

	holderName := ""
	if input.Card != nil {
		holderName = input.Card.HolderName
	} else if input.CardHolder != nil {
		holderName = input.CardHolder.Name
	}
	input.Customer.AppendSavedCard(models.SavedCard{
		Token:      token,
		Last4:      resp.CreditCard.CreditCardNumber,
		Brand:      resp.CreditCard.CreditCardBrand,
		HolderName: holderName,
		CreatedAt:  time.Now(),
	})
	if err := s.customers.SaveCustomer(ctx, input.Customer); err != nil {
		s.logger.WarnContext(ctx, "failed to persist saved card",
			slog.String("customer_id", input.Customer.ID()), slog.Any("error", err))
	}
}

// GetPaymentDetails fetches the renderable proof-of-payment data for an
// already-created payment. It is independent of payment creation: the payment
// may be perfectly valid while its QR code or digitable line is temporarily
// unavailable, so failures here must be reported (and retried) on their own.
// When an error occurs after the payment summary itself loaded, the partial
// details are returned alongside the error so callers can still offer the
// gateway's hosted view as a deep link.
func (s *paymentService) GetPaymentDetails(ctx context.Context, arena *models.Arena, paymentID string, method models.BillingMethod) (*models.PaymentDetails, error) {
	arenaKey := arena.APIKey()

	resp, err := s.api.GetPayment(ctx, arenaKey, paymentID)
	if err != nil {
		return nil, gatewayFailure("load payment", err)
	}

	details := &models.PaymentDetails{
		Payment: models.PaymentSummary{
			ID:            resp.ID,
			BillingMethod: method,
			Status:        resp.Status,
			Value:         resp.Value,
			DueDate:       resp.DueDate,
			InvoiceURL:    resp.InvoiceURL,
			BankSlipURL:   resp.BankSlipURL,
		},
	}
	if resp.CreditCard != nil {
		details.Payment.CardLast4 = resp.CreditCard.CreditCardNumber
	}

	switch method {
	case models.BillingPix:
		qr, err := s.api.GetPixQRCode(ctx, arenaKey, paymentID)
		if err != nil {
			return details, gatewayFailure("load pix qr code", err)
		}
		details.PixQRCode = &models.PixQRCode{Payload: qr.Payload, EncodedImage: qr.EncodedImage}
		details.Payment.PixPayload = qr.Payload
		details.Payment.PixImage = qr.EncodedImage
		details.QRImageURL = s.publishQRImage(ctx, paymentID, qr.EncodedImage)

	case models.BillingBoleto:
		slip, err := s.api.GetBankSlip(ctx, arenaKey, paymentID)
		if err != nil {
			return details, gatewayFailure("load bank slip", err)
		}
		details.Payment.DigitableLine = slip.IdentificationField
		if slip.BankSlipURL != "" {
			details.Payment.BankSlipURL = slip.BankSlipURL
		}
	}
	return details, nil
}

// publishQRImage caches the QR PNG in object storage so the frontend can
// render a plain URL instead of a base64 blob. Best-effort.
func (s *paymentService) publishQRImage(ctx context.Context, paymentID, encodedImage string) string {
	if s.uploader == nil || encodedImage == "" {
		return ""
	}
	raw, err := base64.StdEncoding.DecodeString(encodedImage)
	if err != nil {
		s.logger.WarnContext(ctx, "gateway returned undecodable qr image", slog.String("payment_id", paymentID))
		return ""
	}
	key := fmt.Sprintf("payments/%s/qr.png", paymentID)
	result, err := s.uploader.Upload(ctx, key, "image/png", bytes.NewReader(raw))
	if err != nil {
		s.logger.WarnContext(ctx, "failed to cache qr image",
			slog.String("payment_id", paymentID), slog.Any("error", err))
		return ""
	}
	return result.Location
}

// gatewayFailure converts any transport or API error into the facade's typed
// failure, keeping the upstream human-readable message. Raw errors never
// cross the service boundary.
func gatewayFailure(op string, err error) error {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s: %s", ErrGatewayRequest, op, apiErr.Message)
	}
	if errors.Is(err, gateway.ErrNotFound) {
		return fmt.Errorf("%w: %s: not found", ErrGatewayRequest, op)
	}
	return fmt.Errorf("%w: %s: %v", ErrGatewayRequest, op, err)
}
