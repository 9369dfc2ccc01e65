package services

import "errors"

// Sentinel errors shared across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Authentication and authorization
	ErrAuthenticationFailed   = errors.New("authentication required")
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Registration admission
	ErrCategoryNotFound     = errors.New("tournament category not found")
	ErrTeamNameRequired     = errors.New("team name is required for this category")
	ErrRegistrationConflict = errors.New("user is already registered in this category")
	ErrProfileNotReady      = errors.New("user profile has not synced yet, try again shortly")

	// Tax-id validation
	ErrTaxIDMissing = errors.New("customer has no tax id on file")
	ErrTaxIDLength  = errors.New("tax id must have 11 digits (CPF) or 14 digits (CNPJ)")
	ErrTaxIDInvalid = errors.New("tax id is not valid")

	// Payments
	ErrBillingMethodInvalid = errors.New("invalid billing method")
	ErrGatewayRequest       = errors.New("payment gateway request failed")
	ErrPaymentValueInvalid  = errors.New("payment value must be greater than zero")
	ErrCardDataRequired     = errors.New("credit card payments need a saved card token or full card data")

	// Entities
	ErrArenaNotFound       = errors.New("arena not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrParticipantNotFound = errors.New("participant registration not found")
	ErrPlayerNotFound      = errors.New("player not found in this registration")
)
