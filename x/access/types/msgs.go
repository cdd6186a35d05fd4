package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	TypeMsgGrantRole  = "grant_role"
	TypeMsgRevokeRole = "revoke_role"
)

// MsgGrantRole grants Role to Account. Sender must be an admin.
type MsgGrantRole struct {
	Sender  string `json:"sender"`
	Role    Role   `json:"role"`
	Account string `json:"account"`
}

// MsgGrantRoleResponse is returned by GrantRole.
type MsgGrantRoleResponse struct{}

// MsgRevokeRole revokes Role from Account. Sender must be an admin.
type MsgRevokeRole struct {
	Sender  string `json:"sender"`
	Role    Role   `json:"role"`
	Account string `json:"account"`
}

// MsgRevokeRoleResponse is returned by RevokeRole.
type MsgRevokeRoleResponse struct{}

func (MsgGrantRole) Route() string { return RouterKey }
func (MsgGrantRole) Type() string  { return TypeMsgGrantRole }

func (m MsgGrantRole) GetSigner() sdk.AccAddress { return sdk.MustAccAddressFromBech32(m.Sender) }

func (m MsgGrantRole) ValidateBasic() error {
	return validateRoleMsg(m.Sender, m.Role, m.Account)
}

func (MsgRevokeRole) Route() string { return RouterKey }
func (MsgRevokeRole) Type() string  { return TypeMsgRevokeRole }

func (m MsgRevokeRole) GetSigner() sdk.AccAddress { return sdk.MustAccAddressFromBech32(m.Sender) }

func (m MsgRevokeRole) ValidateBasic() error {
	return validateRoleMsg(m.Sender, m.Role, m.Account)
}

func validateRoleMsg(sender string, role Role, account string) error {
	if _, err := sdk.AccAddressFromBech32(sender); err != nil {
		return ErrInvalidAddress.Wrapf("invalid sender address: %s", err)
	}
	if _, err := sdk.AccAddressFromBech32(account); err != nil {
		return ErrInvalidAddress.Wrapf("invalid account address: %s", err)
	}
	return role.Validate()
}
