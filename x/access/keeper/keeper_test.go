package keeper_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/zkmarket/testutil/keeper"
	"github.com/paw-chain/zkmarket/x/access/types"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

func hasRole(f *keepertest.Fixture, role types.Role, account sdk.AccAddress) bool {
	var ok bool
	f.Query(func(c txn.Context) error {
		ok = f.App.AccessKeeper.HasRole(c, role, account)
		return nil
	})
	return ok
}

// TestGrantRole tests granting roles and the admin requirement
func TestGrantRole(t *testing.T) {
	f := keepertest.NewFixture(t)
	alice, bob := keepertest.Addr("alice"), keepertest.Addr("bob")

	_, err := f.Deliver(&types.MsgGrantRole{Sender: alice.String(), Role: types.RoleRater, Account: bob.String()})
	require.ErrorIs(t, err, types.ErrUnauthorized)
	require.False(t, hasRole(f, types.RoleRater, bob))

	res := f.MustDeliver(&types.MsgGrantRole{Sender: f.Admin.String(), Role: types.RoleRater, Account: bob.String()})
	require.True(t, hasRole(f, types.RoleRater, bob))
	require.False(t, hasRole(f, types.RoleSlasher, bob))
	require.Len(t, res.Events, 1)
	require.Equal(t, types.EventTypeRoleGranted, res.Events[0].Type)

	// granting again changes nothing and emits nothing
	res = f.MustDeliver(&types.MsgGrantRole{Sender: f.Admin.String(), Role: types.RoleRater, Account: bob.String()})
	require.Empty(t, res.Events)

	_, err = f.Deliver(&types.MsgGrantRole{Sender: f.Admin.String(), Role: types.Role("operator"), Account: bob.String()})
	require.ErrorIs(t, err, types.ErrInvalidRole)
}

// TestRevokeRole tests revocation and the last-admin guard
func TestRevokeRole(t *testing.T) {
	f := keepertest.NewFixture(t)
	alice := keepertest.Addr("alice")

	_, err := f.Deliver(&types.MsgRevokeRole{Sender: f.Admin.String(), Role: types.RoleRater, Account: alice.String()})
	require.ErrorIs(t, err, types.ErrRoleNotGranted)

	_, err = f.Deliver(&types.MsgRevokeRole{Sender: f.Admin.String(), Role: types.RoleAdmin, Account: f.Admin.String()})
	require.ErrorIs(t, err, types.ErrLastAdmin)
	require.True(t, hasRole(f, types.RoleAdmin, f.Admin))

	f.MustDeliver(&types.MsgGrantRole{Sender: f.Admin.String(), Role: types.RoleAdmin, Account: alice.String()})
	f.MustDeliver(&types.MsgRevokeRole{Sender: alice.String(), Role: types.RoleAdmin, Account: f.Admin.String()})
	require.False(t, hasRole(f, types.RoleAdmin, f.Admin))

	// the former admin can no longer manage grants
	_, err = f.Deliver(&types.MsgGrantRole{Sender: f.Admin.String(), Role: types.RoleAdmin, Account: f.Admin.String()})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = f.Deliver(&types.MsgRevokeRole{Sender: alice.String(), Role: types.RoleAdmin, Account: alice.String()})
	require.ErrorIs(t, err, types.ErrLastAdmin)
}

// TestMembersAndGrants tests role listings
func TestMembersAndGrants(t *testing.T) {
	f := keepertest.NewFixture(t)
	alice, bob := keepertest.Addr("alice"), keepertest.Addr("bob")
	f.MustDeliver(&types.MsgGrantRole{Sender: f.Admin.String(), Role: types.RoleRater, Account: alice.String()})
	f.MustDeliver(&types.MsgGrantRole{Sender: f.Admin.String(), Role: types.RoleRater, Account: bob.String()})

	f.Query(func(c txn.Context) error {
		members := f.App.AccessKeeper.Members(c, types.RoleRater)
		require.ElementsMatch(t, []sdk.AccAddress{alice, bob}, members)

		grants := f.App.AccessKeeper.Grants(c)
		// admin, slasher (fixture) and two raters
		require.Len(t, grants, 4)
		require.Equal(t, types.RoleAdmin, grants[0].Role)
		return nil
	})
}

// TestGenesisValidate tests access genesis validation
func TestGenesisValidate(t *testing.T) {
	admin := keepertest.Addr("admin").String()

	tests := []struct {
		name    string
		gs      types.GenesisState
		wantErr error
	}{
		{
			name: "valid",
			gs:   types.GenesisState{Grants: []types.Grant{{Role: types.RoleAdmin, Address: admin}}},
		},
		{
			name:    "no admin",
			gs:      types.GenesisState{Grants: []types.Grant{{Role: types.RoleRater, Address: admin}}},
			wantErr: types.ErrInvalidGenesis,
		},
		{
			name: "duplicate grant",
			gs: types.GenesisState{Grants: []types.Grant{
				{Role: types.RoleAdmin, Address: admin},
				{Role: types.RoleAdmin, Address: admin},
			}},
			wantErr: types.ErrInvalidGenesis,
		},
		{
			name:    "unknown role",
			gs:      types.GenesisState{Grants: []types.Grant{{Role: "root", Address: admin}}},
			wantErr: types.ErrInvalidRole,
		},
		{
			name:    "bad address",
			gs:      types.GenesisState{Grants: []types.Grant{{Role: types.RoleAdmin, Address: "admin"}}},
			wantErr: types.ErrInvalidAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.gs.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
