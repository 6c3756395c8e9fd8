// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"context"
	"encoding/binary"
	"math/big"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ava-labs/counterdapp/consts"
	"github.com/ava-labs/counterdapp/countertest"
	"github.com/ava-labs/counterdapp/idl"
	"github.com/ava-labs/counterdapp/provider"
	"github.com/ava-labs/counterdapp/wallet"
)

var programID = solana.MustPublicKeyFromBase58(consts.ProgramID)

type myAccount struct {
	Data uint64
}

func newProgram(t *testing.T) (*Program, *countertest.Ledger, *wallet.Keypair) {
	require := require.New(t)

	ledger, err := countertest.NewLedger(programID)
	require.NoError(err)
	user, err := wallet.GenerateKeypair()
	require.NoError(err)
	opts := provider.DefaultOptions()
	opts.PollInterval = time.Millisecond
	p, err := provider.New(zap.NewNop(), ledger, user, opts)
	require.NoError(err)
	desc, err := idl.Counter()
	require.NoError(err)
	prog, err := New(desc, programID, p)
	require.NoError(err)
	return prog, ledger, user
}

func TestNewMissingProvider(t *testing.T) {
	desc, err := idl.Counter()
	require.NoError(t, err)
	_, err = New(desc, programID, nil)
	require.ErrorIs(t, err, ErrMissingProvider)
}

func TestInstruction(t *testing.T) {
	require := require.New(t)
	prog, _, user := newProgram(t)
	counter := solana.NewWallet().PublicKey()

	ix, err := prog.Instruction("update", []any{big.NewInt(100)}, map[string]solana.PublicKey{
		"myAccount": counter,
		"user":      user.PublicKey(),
	})
	require.NoError(err)
	require.Equal(programID, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(err)
	require.Equal([]byte{219, 200, 88, 176, 158, 63, 253, 127}, data[:8])
	require.Equal(uint64(100), binary.LittleEndian.Uint64(data[8:]))

	accounts := ix.Accounts()
	require.Len(accounts, 3)
	require.Equal(counter, accounts[0].PublicKey)
	require.True(accounts[0].IsWritable)
	require.False(accounts[0].IsSigner)
	require.Equal(user.PublicKey(), accounts[1].PublicKey)
	require.True(accounts[1].IsSigner)
	// resolved without being bound
	require.Equal(solana.SystemProgramID, accounts[2].PublicKey)

	_, err = prog.Instruction("reset", nil, nil)
	require.ErrorIs(err, ErrUnknownInstruction)

	_, err = prog.Instruction("increment", nil, map[string]solana.PublicKey{"user": user.PublicKey()})
	require.ErrorIs(err, ErrMissingAccount)

	_, err = prog.Instruction("update", nil, map[string]solana.PublicKey{
		"myAccount": counter,
		"user":      user.PublicKey(),
	})
	require.ErrorIs(err, ErrArgumentCount)
}

func TestEncodeArgs(t *testing.T) {
	pk := solana.NewWallet().PublicKey()
	tests := []struct {
		name     string
		typ      idl.Type
		arg      any
		expected []byte
		err      error
	}{
		{name: "u64 big", typ: idl.U64, arg: big.NewInt(100), expected: []byte{100, 0, 0, 0, 0, 0, 0, 0}},
		{name: "u64 uint64", typ: idl.U64, arg: consts.MaxUint64, expected: []byte{255, 255, 255, 255, 255, 255, 255, 255}},
		{name: "u64 negative", typ: idl.U64, arg: -1, err: ErrInvalidArgument},
		{name: "u64 overflow", typ: idl.U64, arg: new(big.Int).Lsh(big.NewInt(1), 64), err: ErrInvalidArgument},
		{name: "u8", typ: idl.U8, arg: 7, expected: []byte{7}},
		{name: "u8 overflow", typ: idl.U8, arg: 256, err: ErrInvalidArgument},
		{name: "i16", typ: idl.I16, arg: int16(-2), expected: []byte{0xfe, 0xff}},
		{name: "bool", typ: idl.Bool, arg: true, expected: []byte{1}},
		{name: "bool mismatch", typ: idl.Bool, arg: 1, err: ErrInvalidArgument},
		{name: "string", typ: idl.String, arg: "hi", expected: []byte{2, 0, 0, 0, 'h', 'i'}},
		{name: "public key", typ: idl.PublicKey, arg: pk, expected: pk[:]},
		{name: "public key base58", typ: idl.PublicKey, arg: pk.String(), expected: pk[:]},
		{name: "nil big", typ: idl.U64, arg: (*big.Int)(nil), err: ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			b, err := EncodeArgs([]idl.Field{{Name: "v", Type: tt.typ}}, []any{tt.arg})
			if tt.err != nil {
				require.ErrorIs(err, tt.err)
				return
			}
			require.NoError(err)
			require.Equal(tt.expected, b)
		})
	}
}

func TestRPCAndFetch(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	prog, ledger, user := newProgram(t)
	counter, err := wallet.GenerateKeypair()
	require.NoError(err)

	accounts := map[string]solana.PublicKey{
		"myAccount":     counter.PublicKey(),
		"user":          user.PublicKey(),
		"systemProgram": solana.SystemProgramID,
	}

	var acct myAccount
	err = prog.Fetch(ctx, "MyAccount", counter.PublicKey(), &acct)
	require.ErrorIs(err, ErrAccountNotFound)

	_, err = prog.RPC(ctx, "initialize", nil, Context{Accounts: accounts, Signers: []wallet.Wallet{counter}})
	require.NoError(err)
	_, err = prog.RPC(ctx, "update", []any{uint64(41)}, Context{Accounts: accounts})
	require.NoError(err)
	_, err = prog.RPC(ctx, "increment", nil, Context{Accounts: accounts})
	require.NoError(err)

	require.NoError(prog.Fetch(ctx, "MyAccount", counter.PublicKey(), &acct))
	require.Equal(uint64(42), acct.Data)

	_, err = prog.RPC(ctx, "decrement", nil, Context{Accounts: accounts})
	require.NoError(err)
	require.NoError(prog.Fetch(ctx, "MyAccount", counter.PublicKey(), &acct))
	require.Equal(uint64(41), acct.Data)
	require.Equal(uint64(4), ledger.Accepted())

	err = prog.Fetch(ctx, "Unknown", counter.PublicKey(), &acct)
	require.ErrorIs(err, idl.ErrUnknownAccount)
}

func TestFetchValidation(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	prog, ledger, _ := newProgram(t)
	addr := solana.NewWallet().PublicKey()

	desc, err := idl.Counter()
	require.NoError(err)
	def, err := desc.Account("MyAccount")
	require.NoError(err)
	d := def.Discriminator()
	valid := make([]byte, consts.CounterAccountSize)
	copy(valid, d[:])

	var acct myAccount

	ledger.SetAccount(addr, solana.SystemProgramID, valid)
	require.ErrorIs(prog.Fetch(ctx, "MyAccount", addr, &acct), ErrAccountOwner)

	ledger.SetAccount(addr, programID, make([]byte, consts.CounterAccountSize))
	require.ErrorIs(prog.Fetch(ctx, "MyAccount", addr, &acct), ErrAccountDiscriminator)

	ledger.SetAccount(addr, programID, valid[:consts.DiscriminatorLen+2])
	require.ErrorIs(prog.Fetch(ctx, "MyAccount", addr, &acct), ErrAccountSize)

	ledger.SetAccount(addr, programID, []byte{1})
	require.ErrorIs(prog.Fetch(ctx, "MyAccount", addr, &acct), ErrAccountSize)
}
