package app

import (
	"os"
	"path/filepath"
)

const (
	// AppName is the binary and service name.
	AppName = "marketd"

	// BondDenom defines the native staking and payment token denomination.
	BondDenom = "upaw"

	// EnvPrefix prefixes every environment override, e.g. ZKMARKET_API_ADDRESS.
	EnvPrefix = "ZKMARKET"
)

// DefaultNodeHome is the default home directory for marketd.
var DefaultNodeHome = defaultNodeHome()

func defaultNodeHome() string {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		return ".zkmarket"
	}
	return filepath.Join(userHomeDir, ".zkmarket")
}
