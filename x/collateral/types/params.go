package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// DefaultStakeDenom is the default collateral denomination.
const DefaultStakeDenom = "upaw"

// StakingMode selects how deposits are collected.
type StakingMode string

const (
	// StakingModeToken pulls deposits with TransferFrom against an allowance
	// granted to the module account.
	StakingModeToken StakingMode = "token"
	// StakingModeNative debits the caller's native balance directly.
	StakingModeNative StakingMode = "native"
)

// Params defines the collateral module parameters.
type Params struct {
	StakeDenom     string      `json:"stake_denom"`
	StakingMode    StakingMode `json:"staking_mode"`
	SlashRecipient string      `json:"slash_recipient,omitempty"`
}

// DefaultParams returns token-mode staking in the default denom with
// slashed funds kept by the module.
func DefaultParams() Params {
	return Params{
		StakeDenom:  DefaultStakeDenom,
		StakingMode: StakingModeToken,
	}
}

// Validate validates the params.
func (p Params) Validate() error {
	if err := sdk.ValidateDenom(p.StakeDenom); err != nil {
		return ErrInvalidParams.Wrapf("stake denom: %s", err)
	}
	switch p.StakingMode {
	case StakingModeToken, StakingModeNative:
	default:
		return ErrInvalidParams.Wrapf("unknown staking mode %q", p.StakingMode)
	}
	if p.SlashRecipient != "" {
		if _, err := sdk.AccAddressFromBech32(p.SlashRecipient); err != nil {
			return ErrInvalidParams.Wrapf("slash recipient: %s", err)
		}
	}
	return nil
}

// SlashRecipientAddress returns the configured recipient, if any.
func (p Params) SlashRecipientAddress() (sdk.AccAddress, bool) {
	if p.SlashRecipient == "" {
		return nil, false
	}
	addr, err := sdk.AccAddressFromBech32(p.SlashRecipient)
	if err != nil {
		panic(fmt.Errorf("stored slash recipient is invalid: %w", err))
	}
	return addr, true
}
