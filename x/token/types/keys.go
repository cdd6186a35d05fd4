package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "token"

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

// StoreKey is the prefix of the token module state.
var StoreKey = []byte(ModuleName + "/")

var (
	BalancePrefix   = []byte{0x01}
	AllowancePrefix = []byte{0x02}
	SupplyPrefix    = []byte{0x03}
)

// BalanceKey returns the key of account's balance in denom.
func BalanceKey(denom string, account sdk.AccAddress) []byte {
	return append(BalanceDenomPrefix(denom), address.MustLengthPrefix(account)...)
}

// BalanceDenomPrefix returns the prefix of every balance in denom.
func BalanceDenomPrefix(denom string) []byte {
	key := append([]byte{}, BalancePrefix...)
	return append(key, address.MustLengthPrefix([]byte(denom))...)
}

// AllowanceKey returns the key of spender's allowance over owner's denom balance.
func AllowanceKey(denom string, owner, spender sdk.AccAddress) []byte {
	key := append([]byte{}, AllowancePrefix...)
	key = append(key, address.MustLengthPrefix([]byte(denom))...)
	key = append(key, address.MustLengthPrefix(owner)...)
	return append(key, address.MustLengthPrefix(spender)...)
}

// SupplyKey returns the key of the total supply of denom.
func SupplyKey(denom string) []byte {
	return append(append([]byte{}, SupplyPrefix...), []byte(denom)...)
}
