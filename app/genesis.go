package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	accesstypes "github.com/paw-chain/zkmarket/x/access/types"
	collateraltypes "github.com/paw-chain/zkmarket/x/collateral/types"
	computetypes "github.com/paw-chain/zkmarket/x/compute/types"
	tokentypes "github.com/paw-chain/zkmarket/x/token/types"
)

// GenesisState represents the genesis state of the marketplace.
// It is a map from module name to module genesis state.
type GenesisState map[string]json.RawMessage

// NewDefaultGenesisState generates the default genesis state with admin
// holding the admin role. The compute module account holds the rater
// role so settlement can update provider reputation.
func NewDefaultGenesisState(admin sdk.AccAddress) GenesisState {
	genesis := make(GenesisState)

	accessGenesis := accesstypes.DefaultGenesis()
	accessGenesis.Grants = append(accessGenesis.Grants,
		accesstypes.Grant{Role: accesstypes.RoleAdmin, Address: admin.String()},
		accesstypes.Grant{
			Role:    accesstypes.RoleRater,
			Address: authtypes.NewModuleAddress(computetypes.ModuleName).String(),
		},
	)
	genesis[accesstypes.ModuleName] = mustMarshalJSON(accessGenesis)

	genesis[tokentypes.ModuleName] = mustMarshalJSON(tokentypes.DefaultGenesis())
	genesis[collateraltypes.ModuleName] = mustMarshalJSON(collateraltypes.DefaultGenesis())
	genesis[computetypes.ModuleName] = mustMarshalJSON(computetypes.DefaultGenesis())

	return genesis
}

// Access decodes the access module genesis.
func (gs GenesisState) Access() (accesstypes.GenesisState, error) {
	var out accesstypes.GenesisState
	return out, gs.decode(accesstypes.ModuleName, &out)
}

// Token decodes the token module genesis.
func (gs GenesisState) Token() (tokentypes.GenesisState, error) {
	var out tokentypes.GenesisState
	return out, gs.decode(tokentypes.ModuleName, &out)
}

// Collateral decodes the collateral module genesis.
func (gs GenesisState) Collateral() (collateraltypes.GenesisState, error) {
	var out collateraltypes.GenesisState
	return out, gs.decode(collateraltypes.ModuleName, &out)
}

// Compute decodes the compute module genesis.
func (gs GenesisState) Compute() (computetypes.GenesisState, error) {
	var out computetypes.GenesisState
	return out, gs.decode(computetypes.ModuleName, &out)
}

// Set replaces a module's genesis.
func (gs GenesisState) Set(module string, state any) error {
	bz, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal %s genesis: %w", module, err)
	}
	gs[module] = bz
	return nil
}

func (gs GenesisState) decode(module string, out any) error {
	bz, ok := gs[module]
	if !ok {
		return fmt.Errorf("genesis for module %s is missing", module)
	}
	if err := json.Unmarshal(bz, out); err != nil {
		return fmt.Errorf("decode %s genesis: %w", module, err)
	}
	return nil
}

// Validate validates every module's genesis.
func (gs GenesisState) Validate() error {
	access, err := gs.Access()
	if err != nil {
		return err
	}
	if err := access.Validate(); err != nil {
		return err
	}
	token, err := gs.Token()
	if err != nil {
		return err
	}
	if err := token.Validate(); err != nil {
		return err
	}
	collateral, err := gs.Collateral()
	if err != nil {
		return err
	}
	if err := collateral.Validate(); err != nil {
		return err
	}
	compute, err := gs.Compute()
	if err != nil {
		return err
	}
	return compute.Validate()
}

// ReadGenesisFile loads a genesis file.
func ReadGenesisFile(path string) (GenesisState, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read genesis: %w", err)
	}
	var gs GenesisState
	if err := json.Unmarshal(bz, &gs); err != nil {
		return nil, fmt.Errorf("decode genesis: %w", err)
	}
	return gs, nil
}

// WriteGenesisFile writes gs as indented JSON.
func WriteGenesisFile(path string, gs GenesisState) error {
	bz, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, bz, 0o644)
}

func mustMarshalJSON(v any) json.RawMessage {
	bz, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bz
}
