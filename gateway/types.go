package gateway

// ConfigStatus is what GET /config reports about the platform-level gateway
// account.
type ConfigStatus struct {
	Configured bool `json:"configured"`
	Sandbox    bool `json:"sandbox"`
}

// ConfigRequest enables the platform-level gateway account.
type ConfigRequest struct {
	APIKey  string `json:"apiKey"`
	Sandbox bool   `json:"sandbox"`
}

type CustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	CpfCnpj string `json:"cpfCnpj"`
	Phone   string `json:"phone,omitempty"`
}

type CustomerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreditCardRequest struct {
	HolderName  string `json:"holderName"`
	Number      string `json:"number"`
	ExpiryMonth string `json:"expiryMonth"`
	ExpiryYear  string `json:"expiryYear"`
	Ccv         string `json:"ccv"`
}

type CreditCardHolderInfoRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	CpfCnpj       string `json:"cpfCnpj"`
	PostalCode    string `json:"postalCode"`
	AddressNumber string `json:"addressNumber"`
	Phone         string `json:"phone"`
}

type PaymentRequest struct {
	Customer          string  `json:"customer"`
	BillingType       string  `json:"billingType"`
	Value             float64 `json:"value"`
	DueDate           string  `json:"dueDate"`
	Description       string  `json:"description,omitempty"`
	ExternalReference string  `json:"externalReference,omitempty"`

	CreditCardToken      string                       `json:"creditCardToken,omitempty"`
	CreditCard           *CreditCardRequest           `json:"creditCard,omitempty"`
	CreditCardHolderInfo *CreditCardHolderInfoRequest `json:"creditCardHolderInfo,omitempty"`
}

type CreditCardResponse struct {
	CreditCardToken  string `json:"creditCardToken"`
	CreditCardNumber string `json:"creditCardNumber"` // last four digits only
	CreditCardBrand  string `json:"creditCardBrand"`
}

type PaymentResponse struct {
	ID                string              `json:"id"`
	Status            string              `json:"status"`
	BillingType       string              `json:"billingType"`
	Value             float64             `json:"value"`
	DueDate           string              `json:"dueDate"`
	Description       string              `json:"description"`
	ExternalReference string              `json:"externalReference"`
	InvoiceURL        string              `json:"invoiceUrl"`
	BankSlipURL       string              `json:"bankSlipUrl"`
	CreditCard        *CreditCardResponse `json:"creditCard,omitempty"`
}

type PixQRCodeResponse struct {
	Payload        string `json:"payload"`
	EncodedImage   string `json:"encodedImage"`
	ExpirationDate string `json:"expirationDate"`
}

type BankSlipResponse struct {
	IdentificationField string `json:"identificationField"` // the digitable line
	BarCode             string `json:"barCode"`
	BankSlipURL         string `json:"bankSlipUrl"`
}
