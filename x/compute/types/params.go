package types

import (
	"regexp"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// DefaultPaymentDenom is the default escrow denomination.
	DefaultPaymentDenom = "upaw"
	// DefaultVerifier names the groth16 verifier registered by the app.
	DefaultVerifier = "groth16"
	// DefaultStakeLedger names the collateral module's stake ledger.
	DefaultStakeLedger = "collateral"
)

// DefaultMinProviderStake is the minimum stake required to accept a job.
var DefaultMinProviderStake = math.NewInt(500)

var dependencyNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_\-]{0,63}$`)

// Params defines the compute module parameters.
type Params struct {
	MinProviderStake   math.Int  `json:"min_provider_stake"`
	PaymentDenom       string    `json:"payment_denom"`
	Lifecycle          Lifecycle `json:"lifecycle"`
	Verifier           string    `json:"verifier,omitempty"`
	StakeLedger        string    `json:"stake_ledger,omitempty"`
	PersistLatePenalty bool      `json:"persist_late_penalty"`
}

// DefaultParams returns default compute parameters.
func DefaultParams() Params {
	return Params{
		MinProviderStake:   DefaultMinProviderStake,
		PaymentDenom:       DefaultPaymentDenom,
		Lifecycle:          LifecycleSinglePhase,
		Verifier:           DefaultVerifier,
		StakeLedger:        DefaultStakeLedger,
		PersistLatePenalty: true,
	}
}

// Validate validates the params.
func (p Params) Validate() error {
	if p.MinProviderStake.IsNil() || p.MinProviderStake.IsNegative() {
		return ErrInvalidParams.Wrap("min provider stake must be non-negative")
	}
	if err := sdk.ValidateDenom(p.PaymentDenom); err != nil {
		return ErrInvalidParams.Wrapf("payment denom: %s", err)
	}
	if err := p.Lifecycle.Validate(); err != nil {
		return err
	}
	if err := ValidateDependencyName(p.Verifier); err != nil {
		return err
	}
	return ValidateDependencyName(p.StakeLedger)
}

// ValidateDependencyName accepts "" (unset) or a lowercase identifier.
func ValidateDependencyName(name string) error {
	if name == "" || dependencyNameRegex.MatchString(name) {
		return nil
	}
	return ErrInvalidParams.Wrapf("invalid dependency name %q", name)
}
