package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	errorsmod "cosmossdk.io/errors"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/zkmarket/x/shared/failure"
)

var (
	errInput    = errorsmod.Register("failuretest", 2, "bad input")
	errDownhill = errorsmod.Register("failuretest", 3, "dependency failed")
)

func init() {
	failure.Register(failure.KindValidation, errInput)
	failure.Register(failure.KindExternal, errDownhill)
}

func TestClassify(t *testing.T) {
	require.Equal(t, failure.KindUnknown, failure.Classify(nil))
	require.Equal(t, failure.KindUnknown, failure.Classify(errors.New("plain")))
	require.Equal(t, failure.KindValidation, failure.Classify(errInput))
	require.Equal(t, failure.KindValidation, failure.Classify(errInput.Wrap("amount")))
	require.Equal(t, failure.KindValidation, failure.Classify(fmt.Errorf("outer: %w", errInput)))
}

// TestClassify_OutermostWins tests that a wrapping sentinel decides the kind
func TestClassify_OutermostWins(t *testing.T) {
	err := errorsmod.Wrap(errDownhill, errInput.Error())
	require.Equal(t, failure.KindExternal, failure.Classify(err))

	nested := fmt.Errorf("payout: %w", errDownhill.Wrap(errInput.Error()))
	require.Equal(t, failure.KindExternal, failure.Classify(nested))
}

func TestDescribe(t *testing.T) {
	info := failure.Describe(errInput.Wrap("zero"))
	require.Equal(t, "validation", info.Kind)
	require.Equal(t, "failuretest", info.Codespace)
	require.Equal(t, uint32(2), info.Code)
	require.Equal(t, http.StatusBadRequest, failure.KindValidation.HTTPStatus())
	require.Equal(t, http.StatusBadGateway, failure.KindExternal.HTTPStatus())
}
