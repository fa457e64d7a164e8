package handler

import "github.com/shopspring/decimal"

// ApplyPaymentRequest represents a request to pay a bill with a saved method.
// The amount arrives as a JSON number or string; shopspring decimals accept
// both.
type ApplyPaymentRequest struct {
	BillID   int64           `json:"bill_document_id" binding:"required,gt=0"`
	MethodID int64           `json:"method_id" binding:"required,gt=0"`
	Amount   decimal.Decimal `json:"payment_amount" binding:"required"`
}

// AddPaymentMethodRequest represents a request to save a payment method.
// Channel-specific fields are validated by the domain constructor, not here,
// so the error messages stay consistent across transports.
type AddPaymentMethodRequest struct {
	MethodName   string  `json:"method_name" binding:"required,oneof=bank mobile_banking wallet"`
	IsDefault    bool    `json:"is_default"`
	BankName     *string `json:"bank_name,omitempty"`
	AccountNum   *string `json:"account_num,omitempty"`
	ProviderName *string `json:"provider_name,omitempty"`
	PhoneNum     *string `json:"phone_num,omitempty"`
	WalletEmail  *string `json:"wallet_email,omitempty"`
}

// FileComplaintRequest represents a request to file a complaint
type FileComplaintRequest struct {
	ConnectionID *int64 `json:"connection_id,omitempty"`
	Description  string `json:"description" binding:"required"`
}

// CreateApplicationRequest represents a request for a new utility connection
type CreateApplicationRequest struct {
	UtilityType    string `json:"utility_type" binding:"required"`
	ConnectionType string `json:"requested_connection_type" binding:"required"`
	Address        string `json:"address" binding:"required"`
	Priority       string `json:"priority" binding:"omitempty,oneof=Normal High"`
}

// ListParams represents the optional limit on list endpoints
type ListParams struct {
	Limit int `form:"limit,default=20" binding:"min=0,max=200"`
}
