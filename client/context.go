// Package client carries the state shared by the marketd commands: the
// node home, the acting account and a handle on the local application.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/zkmarket/app"
	computetypes "github.com/paw-chain/zkmarket/x/compute/types"
	"github.com/paw-chain/zkmarket/x/compute/verifier"
	"github.com/paw-chain/zkmarket/x/shared/failure"
	"github.com/paw-chain/zkmarket/x/shared/txn"
)

const (
	FlagHome = "home"
	FlagFrom = "from"

	// HomeEnv overrides the default home directory.
	HomeEnv = "ZKMARKET_HOME"
)

// DefaultHome returns $ZKMARKET_HOME or app.DefaultNodeHome.
func DefaultHome() string {
	if home := os.Getenv(HomeEnv); home != "" {
		return home
	}
	return app.DefaultNodeHome
}

// Context is the client state built from command flags.
type Context struct {
	Home   string
	From   sdk.AccAddress
	Config app.Config
	Logger log.Logger
	Output io.Writer

	App *app.App
}

// AddHomeFlag registers the persistent --home flag on a root command.
func AddHomeFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().String(FlagHome, DefaultHome(), "node home directory")
}

// AddTxFlags registers the flags every transaction command takes.
func AddTxFlags(cmd *cobra.Command) {
	cmd.Flags().String(FlagFrom, "", "bech32 address of the acting account")
	_ = cmd.MarkFlagRequired(FlagFrom)
}

// GetClientContext loads the node config under --home and opens the
// application over its database. Callers must Close the result.
func GetClientContext(cmd *cobra.Command) (Context, error) {
	home, _ := cmd.Flags().GetString(FlagHome)
	if home == "" {
		home = DefaultHome()
	}
	cfg, err := app.LoadConfig(home)
	if err != nil {
		return Context{}, err
	}

	clientCtx := Context{
		Home:   home,
		Config: cfg,
		Logger: cfg.NewLogger(),
		Output: cmd.OutOrStdout(),
	}
	if cmd.Flags().Lookup(FlagFrom) != nil {
		from, _ := cmd.Flags().GetString(FlagFrom)
		if clientCtx.From, err = sdk.AccAddressFromBech32(from); err != nil {
			return Context{}, fmt.Errorf("--%s: %w", FlagFrom, err)
		}
	}

	clientCtx.App, err = OpenApp(cfg, clientCtx.Logger)
	if err != nil {
		return Context{}, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := InitChainIfNeeded(ctx, clientCtx.App, home); err != nil {
		_ = clientCtx.Close()
		return Context{}, err
	}
	return clientCtx, nil
}

// InitChainIfNeeded applies the genesis file under home to an empty store.
func InitChainIfNeeded(ctx context.Context, a *app.App, home string) error {
	initialized, err := a.Initialized(ctx)
	if err != nil {
		return err
	}
	if initialized {
		return nil
	}

	gs, err := app.ReadGenesisFile(app.GenesisPath(home))
	if err != nil {
		return fmt.Errorf("store is empty and genesis could not be loaded (run marketd init): %w", err)
	}
	if err := a.InitChain(ctx, gs); err != nil {
		return fmt.Errorf("init chain: %w", err)
	}
	a.Logger().Info("initialized store from genesis", "path", app.GenesisPath(home))
	return nil
}

// OpenApp opens the configured database and builds the application with
// the groth16 verifier loaded from the keys directory.
func OpenApp(cfg app.Config, logger log.Logger, opts ...app.Option) (*app.App, error) {
	v := verifier.NewGroth16Verifier(logger, cfg.Verifier.MaxProofSize)
	n, err := v.LoadDir(cfg.Verifier.KeysDir)
	if err != nil {
		return nil, fmt.Errorf("load verifying keys from %s: %w", cfg.Verifier.KeysDir, err)
	}
	logger.Debug("verifier ready", "programs", n, "keys_dir", cfg.Verifier.KeysDir)

	db, err := cfg.OpenDB()
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	opts = append([]app.Option{app.WithVerifier(computetypes.DefaultVerifier, v)}, opts...)
	a, err := app.New(logger, db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

// Close releases the application.
func (c Context) Close() error {
	if c.App == nil {
		return nil
	}
	return c.App.Close()
}

// TxResponse is printed after a delivered message.
type TxResponse struct {
	Operation string `json:"operation"`
	Response  any    `json:"response"`
	Events    []any  `json:"events"`
}

// BroadcastMsg delivers msg against the local application and prints the
// handler response and emitted events.
func (c Context) BroadcastMsg(ctx context.Context, msg txn.Msg) error {
	res, err := c.App.Deliver(ctx, msg)
	if err != nil {
		info := failure.Describe(err)
		return fmt.Errorf("%s failed (%s): %w", msg.Type(), info.Kind, err)
	}

	out := TxResponse{
		Operation: msg.Route() + "/" + msg.Type(),
		Response:  res.Response,
		Events:    make([]any, 0, len(res.Events)),
	}
	for _, ev := range res.Events {
		attrs := make(map[string]string, len(ev.Attributes))
		for _, a := range ev.Attributes {
			attrs[a.Key] = a.Value
		}
		out.Events = append(out.Events, map[string]any{"type": ev.Type, "attributes": attrs})
	}
	return c.PrintJSON(out)
}

// Query runs fn against a read-only snapshot and prints its result.
func (c Context) Query(ctx context.Context, fn func(txn.Context) (any, error)) error {
	var out any
	err := c.App.Query(ctx, func(qc txn.Context) (err error) {
		out, err = fn(qc)
		return err
	})
	if err != nil {
		return err
	}
	return c.PrintJSON(out)
}

// PrintJSON writes v as indented JSON.
func (c Context) PrintJSON(v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.Output, string(bz))
	return err
}
