package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "collateral"

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

// StoreKey is the prefix of the collateral module state.
var StoreKey = []byte(ModuleName + "/")

var (
	// ProviderPrefix is the prefix for provider account keys
	ProviderPrefix = []byte{0x01}
	// ParamsKey is the key for module parameters
	ParamsKey = []byte{0x02}
	// LockedSlashedKey holds slashed funds kept by the module when no recipient is set
	LockedSlashedKey = []byte{0x03}
)

// ProviderKey returns the store key for a provider account.
func ProviderKey(provider sdk.AccAddress) []byte {
	return append(append([]byte{}, ProviderPrefix...), address.MustLengthPrefix(provider)...)
}
