package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "access"

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

// StoreKey is the prefix of the access module state.
var StoreKey = []byte(ModuleName + "/")

// RolePrefix indexes grants by role then account.
var RolePrefix = []byte{0x01}

// RoleKey returns the store key of a single grant.
func RoleKey(role Role, account sdk.AccAddress) []byte {
	return append(RolePrefixKey(role), address.MustLengthPrefix(account)...)
}

// RolePrefixKey returns the prefix of every grant of role.
func RolePrefixKey(role Role) []byte {
	key := append([]byte{}, RolePrefix...)
	return append(key, address.MustLengthPrefix([]byte(role))...)
}
