package payment

import (
	"errors"
	"time"
)

// Channel identifies the payment channel of a saved method.
type Channel string

const (
	ChannelBank          Channel = "bank"
	ChannelMobileBanking Channel = "mobile_banking"
	ChannelWallet        Channel = "wallet"
)

var (
	ErrUnknownChannel       = errors.New("unknown payment channel")
	ErrMissingBankDetails   = errors.New("bank_name and account_num are required for bank methods")
	ErrMissingMobileDetails = errors.New("provider_name and phone_num are required for mobile banking methods")
	ErrMissingWalletDetails = errors.New("wallet_email is required for wallet methods")
)

// Method is a saved payment channel belonging to exactly one consumer. At most
// one method per consumer carries the default flag; the repository enforces
// this with a transactional clear-then-set backed by a partial unique index.
type Method struct {
	ID         int64     `json:"method_id"`
	ConsumerID int64     `json:"-"`
	Channel    Channel   `json:"method_name"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`

	// Channel-specific attributes; only the ones matching Channel are set.
	BankName     *string `json:"bank_name,omitempty"`
	AccountNum   *string `json:"account_num,omitempty"`
	ProviderName *string `json:"provider_name,omitempty"`
	PhoneNum     *string `json:"phone_num,omitempty"`
	WalletEmail  *string `json:"wallet_email,omitempty"`
}

// NewMethod validates the channel-specific attributes and builds a method
// pending insertion.
func NewMethod(consumerID int64, channel Channel, isDefault bool, bankName, accountNum, providerName, phoneNum, walletEmail *string) (*Method, error) {
	m := &Method{
		ConsumerID:   consumerID,
		Channel:      channel,
		IsDefault:    isDefault,
		CreatedAt:    time.Now().UTC(),
		BankName:     bankName,
		AccountNum:   accountNum,
		ProviderName: providerName,
		PhoneNum:     phoneNum,
		WalletEmail:  walletEmail,
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Method) validate() error {
	switch m.Channel {
	case ChannelBank:
		if emptyStr(m.BankName) || emptyStr(m.AccountNum) {
			return ErrMissingBankDetails
		}
	case ChannelMobileBanking:
		if emptyStr(m.ProviderName) || emptyStr(m.PhoneNum) {
			return ErrMissingMobileDetails
		}
	case ChannelWallet:
		if emptyStr(m.WalletEmail) {
			return ErrMissingWalletDetails
		}
	default:
		return ErrUnknownChannel
	}
	return nil
}

func emptyStr(s *string) bool {
	return s == nil || *s == ""
}
