package api

import (
	"fmt"
	"strconv"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/query"
	"github.com/gin-gonic/gin"
)

// Validation constants
const (
	MaxRequestSize   = 1 << 20 // 1 MB
	MaxAddressLength = 100
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

// ValidationError reports a malformed path or query parameter.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidateAddress parses a bech32 account address.
func ValidateAddress(field, address string) (sdk.AccAddress, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, invalid(field, "address is required")
	}
	if len(address) > MaxAddressLength {
		return nil, invalid(field, "address too long")
	}
	addr, err := sdk.AccAddressFromBech32(address)
	if err != nil {
		return nil, invalid(field, "invalid address: %s", err)
	}
	return addr, nil
}

// ValidateDenom validates token denomination
func ValidateDenom(denom string) error {
	if err := sdk.ValidateDenom(strings.TrimSpace(denom)); err != nil {
		return invalid("denom", "%s", err)
	}
	return nil
}

// ValidateUint parses a non-negative integer parameter. An empty value
// yields def.
func ValidateUint(field, value string, def uint64) (uint64, error) {
	if value == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, invalid(field, "must be a non-negative integer")
	}
	return n, nil
}

// PageRequest binds offset and limit query parameters. Limits are
// clamped to MaxPageLimit.
func PageRequest(c *gin.Context) (*query.PageRequest, error) {
	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, invalid("pagination", "%s", err)
	}
	if params.Limit == 0 {
		params.Limit = DefaultPageLimit
	}
	if params.Limit > MaxPageLimit {
		params.Limit = MaxPageLimit
	}
	return &query.PageRequest{Offset: params.Offset, Limit: params.Limit, CountTotal: true}, nil
}
