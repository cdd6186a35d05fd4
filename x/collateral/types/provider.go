package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ProviderAccount is a provider's collateral and performance record.
type ProviderAccount struct {
	Address        string   `json:"address"`
	StakeAmount    math.Int `json:"stake_amount"`
	JobsDone       uint64   `json:"jobs_done"`
	SuccessfulJobs uint64   `json:"successful_jobs"`
	Exists         bool     `json:"exists"`
}

// EmptyProviderAccount is the record returned for unknown providers.
func EmptyProviderAccount(provider sdk.AccAddress) ProviderAccount {
	return ProviderAccount{
		Address:     provider.String(),
		StakeAmount: math.ZeroInt(),
	}
}

// Validate checks the record's internal consistency.
func (p ProviderAccount) Validate() error {
	if _, err := sdk.AccAddressFromBech32(p.Address); err != nil {
		return ErrInvalidAddress.Wrapf("provider %s: %s", p.Address, err)
	}
	if p.StakeAmount.IsNil() || p.StakeAmount.IsNegative() {
		return fmt.Errorf("provider %s: stake must be non-negative", p.Address)
	}
	if p.SuccessfulJobs > p.JobsDone {
		return fmt.Errorf("provider %s: successful jobs %d exceed jobs done %d", p.Address, p.SuccessfulJobs, p.JobsDone)
	}
	if !p.Exists && (p.JobsDone > 0 || p.StakeAmount.IsPositive()) {
		return fmt.Errorf("provider %s: record with history must exist", p.Address)
	}
	return nil
}

// SuccessRate returns successful jobs as a fraction of jobs done.
func (p ProviderAccount) SuccessRate() math.LegacyDec {
	if p.JobsDone == 0 {
		return math.LegacyZeroDec()
	}
	return math.LegacyNewDec(int64(p.SuccessfulJobs)).QuoInt64(int64(p.JobsDone))
}

// InsufficientStakeError reports the stake available against the amount requested.
type InsufficientStakeError struct {
	Available math.Int
	Requested math.Int
}

func (e *InsufficientStakeError) Error() string {
	return fmt.Sprintf("%s: available %s, requested %s", ErrInsufficientStake.Error(), e.Available, e.Requested)
}

func (e *InsufficientStakeError) Unwrap() error { return ErrInsufficientStake }
