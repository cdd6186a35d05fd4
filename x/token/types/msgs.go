package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	TypeMsgTransfer = "transfer"
	TypeMsgApprove  = "approve"
	TypeMsgMint     = "mint"
)

// MsgTransfer moves Amount from Sender to Recipient.
type MsgTransfer struct {
	Sender    string   `json:"sender"`
	Recipient string   `json:"recipient"`
	Amount    sdk.Coin `json:"amount"`
}

type MsgTransferResponse struct{}

// MsgApprove sets Spender's allowance over Sender's balance to Amount.
type MsgApprove struct {
	Sender  string   `json:"sender"`
	Spender string   `json:"spender"`
	Amount  sdk.Coin `json:"amount"`
}

type MsgApproveResponse struct{}

// MsgMint creates Amount for Recipient. Sender must be an admin.
type MsgMint struct {
	Sender    string   `json:"sender"`
	Recipient string   `json:"recipient"`
	Amount    sdk.Coin `json:"amount"`
}

type MsgMintResponse struct{}

func (MsgTransfer) Route() string { return RouterKey }
func (MsgTransfer) Type() string  { return TypeMsgTransfer }

func (m MsgTransfer) GetSigner() sdk.AccAddress { return sdk.MustAccAddressFromBech32(m.Sender) }

func (m MsgTransfer) ValidateBasic() error {
	if err := validateAddresses(m.Sender, m.Recipient); err != nil {
		return err
	}
	return ValidatePositive(m.Amount)
}

func (MsgApprove) Route() string { return RouterKey }
func (MsgApprove) Type() string  { return TypeMsgApprove }

func (m MsgApprove) GetSigner() sdk.AccAddress { return sdk.MustAccAddressFromBech32(m.Sender) }

func (m MsgApprove) ValidateBasic() error {
	if err := validateAddresses(m.Sender, m.Spender); err != nil {
		return err
	}
	if err := m.Amount.Validate(); err != nil {
		return ErrInvalidAmount.Wrap(err.Error())
	}
	return nil
}

func (MsgMint) Route() string { return RouterKey }
func (MsgMint) Type() string  { return TypeMsgMint }

func (m MsgMint) GetSigner() sdk.AccAddress { return sdk.MustAccAddressFromBech32(m.Sender) }

func (m MsgMint) ValidateBasic() error {
	if err := validateAddresses(m.Sender, m.Recipient); err != nil {
		return err
	}
	return ValidatePositive(m.Amount)
}

// ValidatePositive rejects invalid denoms and non-positive amounts.
func ValidatePositive(coin sdk.Coin) error {
	if err := sdk.ValidateDenom(coin.Denom); err != nil {
		return ErrInvalidDenom.Wrap(err.Error())
	}
	if coin.Amount.IsNil() || !coin.Amount.IsPositive() {
		return ErrInvalidAmount.Wrapf("amount must be positive: %s", coin)
	}
	return nil
}

func validateAddresses(addrs ...string) error {
	for _, a := range addrs {
		if _, err := sdk.AccAddressFromBech32(a); err != nil {
			return ErrInvalidAddress.Wrapf("%s: %s", a, err)
		}
	}
	return nil
}
