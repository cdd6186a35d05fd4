package types

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

const testRef = "ipfs://bafkreihdwdcefgh4dqkjv67uzcmw7ojee6xedzdetojuzjevtenxquvyku"

func TestMsgCreateJob_ValidateBasic(t *testing.T) {
	valid := MsgCreateJob{
		Sender:    testClient,
		DataRef:   testRef,
		Amount:    math.NewInt(100),
		Deadline:  testDeadline,
		ProgramID: Digest{0x01},
	}
	require.NoError(t, valid.ValidateBasic())
	require.Equal(t, RouterKey, valid.Route())
	require.Equal(t, testClient, valid.GetSigner().String())

	tests := []struct {
		name    string
		mutate  func(*MsgCreateJob)
		wantErr error
	}{
		{name: "bad sender", mutate: func(m *MsgCreateJob) { m.Sender = "nobody" }, wantErr: ErrInvalidAddress},
		{name: "nil amount", mutate: func(m *MsgCreateJob) { m.Amount = math.Int{} }, wantErr: ErrEscrowAmountZero},
		{name: "negative amount", mutate: func(m *MsgCreateJob) { m.Amount = math.NewInt(-1) }, wantErr: ErrEscrowAmountZero},
		{name: "no deadline", mutate: func(m *MsgCreateJob) { m.Deadline = time.Time{} }, wantErr: ErrDeadlineMustBeInFuture},
		{name: "empty data ref", mutate: func(m *MsgCreateJob) { m.DataRef = "" }, wantErr: ErrInvalidDataRef},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := valid
			tt.mutate(&msg)
			require.ErrorIs(t, msg.ValidateBasic(), tt.wantErr)
		})
	}
}

func TestMsgSubmitProofAndClaim_ValidateBasic(t *testing.T) {
	valid := MsgSubmitProofAndClaim{
		Sender:     testProvider,
		JobID:      1,
		Proof:      []byte{0x01},
		OutputHash: Digest{0x02},
		ResultRef:  testRef,
	}
	require.NoError(t, valid.ValidateBasic())

	msg := valid
	msg.JobID = 0
	require.ErrorIs(t, msg.ValidateBasic(), ErrInvalidJobID)

	msg = valid
	msg.Proof = nil
	require.ErrorIs(t, msg.ValidateBasic(), ErrZKProofVerificationFailed)

	msg = valid
	msg.Proof = make([]byte, MaxProofSize+1)
	require.ErrorIs(t, msg.ValidateBasic(), ErrProofTooLarge)

	msg = valid
	msg.ResultRef = "ftp://results"
	require.ErrorIs(t, msg.ValidateBasic(), ErrInvalidResultRef)

	// an empty ref falls back to the one recorded by submit-result
	msg = valid
	msg.ResultRef = ""
	require.NoError(t, msg.ValidateBasic())
}

func TestAdminMsgs_ValidateBasic(t *testing.T) {
	require.NoError(t, MsgSetMinProviderStake{Sender: testClient, Amount: math.ZeroInt()}.ValidateBasic())
	require.ErrorIs(t, MsgSetMinProviderStake{Sender: testClient, Amount: math.NewInt(-5)}.ValidateBasic(), ErrInvalidParams)

	require.NoError(t, MsgSetVerifier{Sender: testClient, Name: ""}.ValidateBasic())
	require.ErrorIs(t, MsgSetVerifier{Sender: testClient, Name: "BAD"}.ValidateBasic(), ErrInvalidParams)

	require.NoError(t, MsgSetStakeLedger{Sender: testClient, Name: DefaultStakeLedger}.ValidateBasic())
	require.ErrorIs(t, MsgSetStakeLedger{Sender: "x", Name: DefaultStakeLedger}.ValidateBasic(), ErrInvalidAddress)

	require.NoError(t, MsgSetLifecycle{Sender: testClient, Lifecycle: LifecycleTwoPhase}.ValidateBasic())
	require.ErrorIs(t, MsgSetLifecycle{Sender: testClient, Lifecycle: "none"}.ValidateBasic(), ErrInvalidLifecycle)
}

func TestMsgTypes(t *testing.T) {
	msgs := map[string]interface{ Type() string }{
		TypeMsgCreateJob:           MsgCreateJob{},
		TypeMsgAcceptJob:           MsgAcceptJob{},
		TypeMsgCancelJob:           MsgCancelJob{},
		TypeMsgSubmitResult:        MsgSubmitResult{},
		TypeMsgClaimAndPay:         MsgClaimAndPay{},
		TypeMsgSubmitProofAndClaim: MsgSubmitProofAndClaim{},
		TypeMsgSetMinProviderStake: MsgSetMinProviderStake{},
		TypeMsgSetVerifier:         MsgSetVerifier{},
		TypeMsgSetStakeLedger:      MsgSetStakeLedger{},
		TypeMsgSetLifecycle:        MsgSetLifecycle{},
	}
	for want, msg := range msgs {
		require.Equal(t, want, msg.Type())
	}
}
