package services

import (
	"context"
	"errors"
	"testing"

	"github.com/quadrahub/arena-system/gateway"
	"github.com/quadrahub/arena-system/models"
)

func arenaWithCredentials() *models.Arena {
	key := "arena-key"
	return &models.Arena{ID: "a1", Name: "Quadra Central", GatewayAPIKey: &key}
}

func arenaWithoutCredentials() *models.Arena {
	return &models.Arena{ID: "a1", Name: "Quadra Central"}
}

func newPaymentService(api *fakeGatewayAPI, status *fakeStatusProvider, customers *fakeCustomerRepo) PaymentService {
	return NewPaymentService(api, status, customers, nil, testLogger())
}

func TestPaySimulatedPathNeverTouchesGateway(t *testing.T) {
	api := &fakeGatewayAPI{}
	status := &fakeStatusProvider{status: gateway.ConfigStatus{Configured: true}}
	// Invalid CPF on purpose: the simulated path must not validate it.
	customers := newFakeCustomerRepo(&models.User{ID: "u1", CPF: "00000000000"})
	svc := newPaymentService(api, status, customers)

	for _, method := range []models.BillingMethod{models.BillingBoleto, models.BillingPix, models.BillingCreditCard} {
		t.Run(string(method), func(t *testing.T) {
			payment, err := svc.Pay(context.Background(), PayInput{
				Arena:         arenaWithoutCredentials(),
				Customer:      models.CustomerFromMember(customers.members["u1"]),
				Description:   "inscricao",
				Value:         50,
				BillingMethod: method,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !payment.Simulated {
				t.Error("payment should be marked simulated")
			}
			if payment.Status != "CONFIRMED" {
				t.Errorf("status = %q, want CONFIRMED", payment.Status)
			}
			if payment.ID == "" {
				t.Error("payment id must be set")
			}
		})
	}

	if api.totalCalls() != 0 {
		t.Errorf("gateway was called %d times on the simulated path", api.totalCalls())
	}
	if status.calls != 0 {
		t.Errorf("config was fetched %d times for an arena without credentials", status.calls)
	}
}

func TestPaySimulatedMethodSpecificRendering(t *testing.T) {
	svc := newPaymentService(&fakeGatewayAPI{}, &fakeStatusProvider{}, newFakeCustomerRepo())
	customer := models.CustomerFromMember(&models.User{ID: "u1"})

	boleto, err := svc.Pay(context.Background(), PayInput{
		Arena: arenaWithoutCredentials(), Customer: customer, Value: 50, BillingMethod: models.BillingBoleto,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if boleto.DigitableLine == "" {
		t.Error("boleto payment must carry a digitable line")
	}

	pix, err := svc.Pay(context.Background(), PayInput{
		Arena: arenaWithoutCredentials(), Customer: customer, Value: 50, BillingMethod: models.BillingPix,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pix.PixPayload == "" || pix.PixImage == "" {
		t.Error("pix payment must carry payload and image placeholders")
	}
}

func TestPayFallsBackWhenGlobalGatewayNotConfigured(t *testing.T) {
	api := &fakeGatewayAPI{}
	status := &fakeStatusProvider{status: gateway.ConfigStatus{Configured: false}}
	svc := newPaymentService(api, status, newFakeCustomerRepo())

	payment, err := svc.Pay(context.Background(), PayInput{
		Arena:         arenaWithCredentials(),
		Customer:      models.CustomerFromMember(&models.User{ID: "u1"}),
		Value:         50,
		BillingMethod: models.BillingPix,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !payment.Simulated {
		t.Error("payment should fall back to simulated when the platform account is off")
	}
	if status.calls != 1 {
		t.Errorf("config fetched %d times, want 1", status.calls)
	}
	if api.paymentCalls != 0 {
		t.Error("no gateway payment should be created on fallback")
	}
}

func TestPayFallsBackWhenConfigUnavailable(t *testing.T) {
	api := &fakeGatewayAPI{}
	status := &fakeStatusProvider{err: errors.New("proxy down")}
	svc := newPaymentService(api, status, newFakeCustomerRepo())

	payment, err := svc.Pay(context.Background(), PayInput{
		Arena:         arenaWithCredentials(),
		Customer:      models.CustomerFromMember(&models.User{ID: "u1"}),
		Value:         50,
		BillingMethod: models.BillingBoleto,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !payment.Simulated {
		t.Error("an unreachable config endpoint should degrade to the simulated path")
	}
}

func TestPayRealPathRejectsInvalidTaxIDBeforeGateway(t *testing.T) {
	api := &fakeGatewayAPI{}
	status := &fakeStatusProvider{status: gateway.ConfigStatus{Configured: true}}
	member := &models.User{ID: "u1", CPF: "00000000000"}
	svc := newPaymentService(api, status, newFakeCustomerRepo(member))

	_, err := svc.Pay(context.Background(), PayInput{
		Arena:         arenaWithCredentials(),
		Customer:      models.CustomerFromMember(member),
		Value:         50,
		BillingMethod: models.BillingPix,
	})
	if !errors.Is(err, ErrTaxIDInvalid) {
		t.Fatalf("got error %v, want ErrTaxIDInvalid", err)
	}
	if api.customerCalls != 0 || api.paymentCalls != 0 {
		t.Error("gateway must not be contacted when tax-id validation fails")
	}
}

func TestPayRealPathCreatesCustomerOnce(t *testing.T) {
	api := &fakeGatewayAPI{}
	status := &fakeStatusProvider{status: gateway.ConfigStatus{Configured: true}}
	member := &models.User{ID: "u1", FirstName: "Ana", CPF: "11144477735"}
	customers := newFakeCustomerRepo(member)
	svc := newPaymentService(api, status, customers)

	input := PayInput{
		Arena:         arenaWithCredentials(),
		Customer:      models.CustomerFromMember(member),
		Value:         50,
		BillingMethod: models.BillingPix,
	}

	if _, err := svc.Pay(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.customerCalls != 1 {
		t.Fatalf("customer created %d times, want 1", api.customerCalls)
	}
	if member.GatewayCustomerID != "cus_1" {
		t.Errorf("gateway customer id not persisted back, got %q", member.GatewayCustomerID)
	}
	if customers.saveCustomerCalls != 1 {
		t.Errorf("customer persisted %d times, want 1", customers.saveCustomerCalls)
	}

	// Second payment reuses the customer-on-file.
	if _, err := svc.Pay(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.customerCalls != 1 {
		t.Errorf("customer created %d times after two payments, want 1", api.customerCalls)
	}
}

func TestPayRealPathSynthesizesPlaceholderEmail(t *testing.T) {
	api := &fakeGatewayAPI{}
	status := &fakeStatusProvider{status: gateway.ConfigStatus{Configured: true}}
	member := &models.User{ID: "u1", FirstName: "Ana", CPF: "11144477735"}
	svc := newPaymentService(api, status, newFakeCustomerRepo(member))

	if _, err := svc.Pay(context.Background(), PayInput{
		Arena:         arenaWithCredentials(),
		Customer:      models.CustomerFromMember(member),
		Value:         50,
		BillingMethod: models.BillingBoleto,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.lastCustomerReq.Email == "" {
		t.Error("a placeholder email must be synthesized when the member has none")
	}
}

func TestPayCreditCardRequiresCardData(t *testing.T) {
	status := &fakeStatusProvider{status: gateway.ConfigStatus{Configured: true}}
	member := &models.User{ID: "u1", CPF: "11144477735", GatewayCustomerID: "cus_1"}
	svc := newPaymentService(&fakeGatewayAPI{}, status, newFakeCustomerRepo(member))

	_, err := svc.Pay(context.Background(), PayInput{
		Arena:         arenaWithCredentials(),
		Customer:      models.CustomerFromMember(member),
		Value:         50,
		BillingMethod: models.BillingCreditCard,
	})
	if !errors.Is(err, ErrCardDataRequired) {
		t.Fatalf("got error %v, want ErrCardDataRequired", err)
	}
}

func TestPaySavedCardDedupByToken(t *testing.T) {
	api := &fakeGatewayAPI{
		paymentResp: &gateway.PaymentResponse{
			ID: "pay_1", Status: "CONFIRMED",
			CreditCard: &gateway.CreditCardResponse{
				CreditCardToken:  "tok_1",
				CreditCardNumber: "4242",
				CreditCardBrand:  "VISA",
			},
		},
	}
	status := &fakeStatusProvider{status: gateway.ConfigStatus{Configured: true}}
	member := &models.User{
		ID: "u1", CPF: "11144477735", GatewayCustomerID: "cus_1",
		SavedCards: []models.SavedCard{{Token: "tok_1", Last4: "4242"}},
	}
	customers := newFakeCustomerRepo(member)
	svc := newPaymentService(api, status, customers)

	if _, err := svc.Pay(context.Background(), PayInput{
		Arena:         arenaWithCredentials(),
		Customer:      models.CustomerFromMember(member),
		Value:         50,
		BillingMethod: models.BillingCreditCard,
		CardToken:     "tok_1",
		SaveCard:      true,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(member.SavedCards) != 1 {
		t.Errorf("saved cards = %d, want 1 (dedup by token)", len(member.SavedCards))
	}
	if customers.saveCustomerCalls != 0 {
		t.Errorf("customer persisted %d times for an already-known token, want 0", customers.saveCustomerCalls)
	}
}

func TestPayGatewayFailureIsTyped(t *testing.T) {
	api := &fakeGatewayAPI{
		paymentErr: &gateway.APIError{Status: 400, Message: "invalid value"},
	}
	status := &fakeStatusProvider{status: gateway.ConfigStatus{Configured: true}}
	member := &models.User{ID: "u1", CPF: "11144477735", GatewayCustomerID: "cus_1"}
	svc := newPaymentService(api, status, newFakeCustomerRepo(member))

	_, err := svc.Pay(context.Background(), PayInput{
		Arena:         arenaWithCredentials(),
		Customer:      models.CustomerFromMember(member),
		Value:         50,
		BillingMethod: models.BillingPix,
	})
	if !errors.Is(err, ErrGatewayRequest) {
		t.Fatalf("got error %v, want ErrGatewayRequest", err)
	}
}

func TestPayInputValidation(t *testing.T) {
	svc := newPaymentService(&fakeGatewayAPI{}, &fakeStatusProvider{}, newFakeCustomerRepo())
	customer := models.CustomerFromMember(&models.User{ID: "u1"})

	if _, err := svc.Pay(context.Background(), PayInput{
		Arena: arenaWithoutCredentials(), Customer: customer, Value: 50, BillingMethod: "CHEQUE",
	}); !errors.Is(err, ErrBillingMethodInvalid) {
		t.Errorf("got %v, want ErrBillingMethodInvalid", err)
	}

	if _, err := svc.Pay(context.Background(), PayInput{
		Arena: arenaWithoutCredentials(), Customer: customer, Value: 0, BillingMethod: models.BillingPix,
	}); !errors.Is(err, ErrPaymentValueInvalid) {
		t.Errorf("got %v, want ErrPaymentValueInvalid", err)
	}
}

func TestGetPaymentDetailsPixCarriesQRCode(t *testing.T) {
	api := &fakeGatewayAPI{
		paymentResp: &gateway.PaymentResponse{ID: "pay_1", Status: "PENDING", BankSlipURL: "https://gw/view"},
	}
	svc := newPaymentService(api, &fakeStatusProvider{}, newFakeCustomerRepo())

	details, err := svc.GetPaymentDetails(context.Background(), arenaWithCredentials(), "pay_1", models.BillingPix)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.PixQRCode == nil || details.PixQRCode.Payload == "" {
		t.Error("pix details must carry the qr payload")
	}
}

func TestGetPaymentDetailsPartialOnQRFailure(t *testing.T) {
	api := &fakeGatewayAPI{
		paymentResp: &gateway.PaymentResponse{ID: "pay_1", Status: "PENDING", BankSlipURL: "https://gw/view"},
		qrErr:       &gateway.APIError{Status: 500, Message: "temporarily unavailable"},
	}
	svc := newPaymentService(api, &fakeStatusProvider{}, newFakeCustomerRepo())

	details, err := svc.GetPaymentDetails(context.Background(), arenaWithCredentials(), "pay_1", models.BillingPix)
	if !errors.Is(err, ErrGatewayRequest) {
		t.Fatalf("got error %v, want ErrGatewayRequest", err)
	}
	if details == nil || details.Payment.BankSlipURL != "https://gw/view" {
		t.Error("partial details with the hosted-view link must survive a qr failure")
	}
}
