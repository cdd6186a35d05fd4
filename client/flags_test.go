package client

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func setFlag(tb testing.TB, flagSet *pflag.FlagSet, name, value string) {
	tb.Helper()
	require.NoError(tb, flagSet.Set(name, value))
}

// TestReadPageRequest tests pagination flag parsing
func TestReadPageRequest(t *testing.T) {
	cmd := &cobra.Command{Use: "list"}
	AddPaginationFlags(cmd, "jobs")

	pageReq, err := ReadPageRequest(cmd.Flags())
	require.NoError(t, err)
	require.Equal(t, uint64(0), pageReq.Offset)
	require.Equal(t, uint64(DefaultLimit), pageReq.Limit)
	require.True(t, pageReq.CountTotal)

	setFlag(t, cmd.Flags(), FlagOffset, "20")
	setFlag(t, cmd.Flags(), FlagLimit, "5")
	setFlag(t, cmd.Flags(), FlagCountTotal, "false")
	pageReq, err = ReadPageRequest(cmd.Flags())
	require.NoError(t, err)
	require.Equal(t, uint64(20), pageReq.Offset)
	require.Equal(t, uint64(5), pageReq.Limit)
	require.False(t, pageReq.CountTotal)

	setFlag(t, cmd.Flags(), FlagLimit, "0")
	_, err = ReadPageRequest(cmd.Flags())
	require.Error(t, err)

	_, err = ReadPageRequest(pflag.NewFlagSet("empty", pflag.ContinueOnError))
	require.Error(t, err)
}

// TestDefaultHome tests the home directory environment override
func TestDefaultHome(t *testing.T) {
	t.Setenv(HomeEnv, "/srv/market")
	require.Equal(t, "/srv/market", DefaultHome())
}
