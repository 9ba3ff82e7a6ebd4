package api

import "github.com/grana-sh/grana/internal/validation"

type WhatsAppLinkRequest struct {
	Phone string `json:"phone"`
}

func (r *WhatsAppLinkRequest) Validate() error {
	if r.Phone == "" {
		return validation.NewValidationFailedError("phone is empty")
	}
	return nil
}

type WhatsAppVerifyRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

func (r *WhatsAppVerifyRequest) Validate() error {
	if r.Phone == "" {
		return validation.NewValidationFailedError("phone is empty")
	}
	if r.Code == "" {
		return validation.NewValidationFailedError("code is empty")
	}
	return nil
}

type WhatsAppStatusResponse struct {
	Linked bool   `json:"linked"`
	Phone  string `json:"phone,omitempty"`
}

type WhatsAppLinkResponse struct {
	Message string `json:"message"`
}

// WhatsAppHookRequest is the payload the automation relay posts when a user
// sends a ledger entry over WhatsApp. Number is the sender's channel address
// as reported by the messaging gateway.
type WhatsAppHookRequest struct {
	Number      string `json:"number"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

func (r *WhatsAppHookRequest) Validate() error {
	if r.Number == "" {
		return validation.NewValidationFailedError("number is empty")
	}
	create := CreateTransactionRequest{Type: r.Type, Description: r.Description, Amount: r.Amount}
	return create.Validate()
}
