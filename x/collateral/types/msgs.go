package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	TypeMsgStake             = "stake"
	TypeMsgWithdraw          = "withdraw"
	TypeMsgSlash             = "slash"
	TypeMsgRate              = "rate"
	TypeMsgSetSlashRecipient = "set_slash_recipient"
)

// MsgStake deposits Amount of the stake denom for Sender.
type MsgStake struct {
	Sender string   `json:"sender"`
	Amount math.Int `json:"amount"`
}

type MsgStakeResponse struct {
	StakeAmount math.Int `json:"stake_amount"`
}

// MsgWithdraw returns Amount of Sender's stake.
type MsgWithdraw struct {
	Sender string   `json:"sender"`
	Amount math.Int `json:"amount"`
}

type MsgWithdrawResponse struct {
	StakeAmount math.Int `json:"stake_amount"`
}

// MsgSlash seizes up to Amount of Provider's stake. Sender must be a slasher.
type MsgSlash struct {
	Sender   string   `json:"sender"`
	Provider string   `json:"provider"`
	Amount   math.Int `json:"amount"`
}

type MsgSlashResponse struct {
	Slashed math.Int `json:"slashed"`
}

// MsgRate records a job outcome for Provider. Sender must be a rater.
type MsgRate struct {
	Sender   string `json:"sender"`
	Provider string `json:"provider"`
	Success  bool   `json:"success"`
}

type MsgRateResponse struct{}

// MsgSetSlashRecipient sets or clears the slashed funds recipient. Sender
// must be an admin. An empty Recipient keeps slashed funds in the module.
type MsgSetSlashRecipient struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient,omitempty"`
}

type MsgSetSlashRecipientResponse struct{}

func (MsgStake) Route() string { return RouterKey }
func (MsgStake) Type() string  { return TypeMsgStake }

func (m MsgStake) GetSigner() sdk.AccAddress { return sdk.MustAccAddressFromBech32(m.Sender) }

func (m MsgStake) ValidateBasic() error {
	if err := validateAddress(m.Sender); err != nil {
		return err
	}
	return validatePositive(m.Amount)
}

func (MsgWithdraw) Route() string { return RouterKey }
func (MsgWithdraw) Type() string  { return TypeMsgWithdraw }

func (m MsgWithdraw) GetSigner() sdk.AccAddress { return sdk.MustAccAddressFromBech32(m.Sender) }

func (m MsgWithdraw) ValidateBasic() error {
	if err := validateAddress(m.Sender); err != nil {
		return err
	}
	return validatePositive(m.Amount)
}

func (MsgSlash) Route() string { return RouterKey }
func (MsgSlash) Type() string  { return TypeMsgSlash }

func (m MsgSlash) GetSigner() sdk.AccAddress { return sdk.MustAccAddressFromBech32(m.Sender) }

func (m MsgSlash) ValidateBasic() error {
	if err := validateAddress(m.Sender); err != nil {
		return err
	}
	if err := validateAddress(m.Provider); err != nil {
		return err
	}
	return validatePositive(m.Amount)
}

func (MsgRate) Route() string { return RouterKey }
func (MsgRate) Type() string  { return TypeMsgRate }

func (m MsgRate) GetSigner() sdk.AccAddress { return sdk.MustAccAddressFromBech32(m.Sender) }

func (m MsgRate) ValidateBasic() error {
	if err := validateAddress(m.Sender); err != nil {
		return err
	}
	return validateAddress(m.Provider)
}

func (MsgSetSlashRecipient) Route() string { return RouterKey }
func (MsgSetSlashRecipient) Type() string  { return TypeMsgSetSlashRecipient }

func (m MsgSetSlashRecipient) GetSigner() sdk.AccAddress {
	return sdk.MustAccAddressFromBech32(m.Sender)
}

func (m MsgSetSlashRecipient) ValidateBasic() error {
	if err := validateAddress(m.Sender); err != nil {
		return err
	}
	if m.Recipient == "" {
		return nil
	}
	return validateAddress(m.Recipient)
}

func validateAddress(addr string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return ErrInvalidAddress.Wrapf("%s: %s", addr, err)
	}
	return nil
}

func validatePositive(amount math.Int) error {
	if amount.IsNil() || !amount.IsPositive() {
		return ErrAmountMustBePositive
	}
	return nil
}
