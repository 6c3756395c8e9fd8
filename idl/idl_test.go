// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package idl

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/counterdapp/consts"
)

func TestCounterIDL(t *testing.T) {
	require := require.New(t)

	idl, err := Counter()
	require.NoError(err)
	require.Equal("counter", idl.Name)

	address, err := idl.Address()
	require.NoError(err)
	require.Equal(consts.ProgramID, address.String())

	for _, name := range []string{"initialize", "increment", "decrement", "update"} {
		ix, err := idl.Instruction(name)
		require.NoError(err)
		require.Len(ix.Accounts, 3)
		require.Equal("myAccount", ix.Accounts[0].Name)
		require.True(ix.Accounts[0].IsMut)
		require.Equal("user", ix.Accounts[1].Name)
		require.True(ix.Accounts[1].IsSigner)
		require.Equal("systemProgram", ix.Accounts[2].Name)
	}

	update, err := idl.Instruction("update")
	require.NoError(err)
	require.Equal([]Field{{Name: "data", Type: U64}}, update.Args)

	account, err := idl.Account("MyAccount")
	require.NoError(err)
	require.Equal(consts.CounterAccountSize, account.Size())

	// parsed once and shared
	again, err := Counter()
	require.NoError(err)
	require.Same(idl, again)
}

func TestDiscriminators(t *testing.T) {
	require := require.New(t)

	idl, err := Counter()
	require.NoError(err)

	tests := []struct {
		name     string
		expected Discriminator
	}{
		{"initialize", Discriminator{175, 175, 109, 31, 13, 152, 155, 237}},
		{"increment", Discriminator{11, 18, 104, 9, 104, 174, 59, 33}},
		{"decrement", Discriminator{106, 227, 168, 59, 248, 27, 150, 101}},
		{"update", Discriminator{219, 200, 88, 176, 158, 63, 253, 127}},
	}
	for _, tt := range tests {
		ix, err := idl.Instruction(tt.name)
		require.NoError(err)
		require.Equal(tt.expected, ix.Discriminator(), tt.name)

		found, err := idl.InstructionByDiscriminator(tt.expected)
		require.NoError(err)
		require.Equal(tt.name, found.Name)
	}

	account, err := idl.Account("MyAccount")
	require.NoError(err)
	require.Equal(Discriminator{246, 28, 6, 87, 251, 45, 50, 42}, account.Discriminator())

	_, err = idl.InstructionByDiscriminator(Discriminator{})
	require.ErrorIs(err, ErrUnknownInstruction)
}

func TestLookupUnknown(t *testing.T) {
	require := require.New(t)

	idl, err := Counter()
	require.NoError(err)

	_, err = idl.Instruction("reset")
	require.ErrorIs(err, ErrUnknownInstruction)
	_, err = idl.Account("OtherAccount")
	require.ErrorIs(err, ErrUnknownAccount)
}

func TestSnakeCase(t *testing.T) {
	require := require.New(t)
	require.Equal("initialize", toSnakeCase("initialize"))
	require.Equal("set_data_value", toSnakeCase("setDataValue"))
}

func TestParseInvalid(t *testing.T) {
	const address = `"metadata": {"address": "RpXAja7ZvyqmCqS2k13hydLoumcZ76Mk4tHVAnhfDHD"}`
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			"MissingName",
			`{"instructions": [{"name": "a"}], ` + address + `}`,
			ErrMissingName,
		},
		{
			"NoInstructions",
			`{"name": "x", ` + address + `}`,
			ErrNoInstructions,
		},
		{
			"BadAddress",
			`{"name": "x", "instructions": [{"name": "a"}], "metadata": {"address": "zzz"}}`,
			ErrInvalidAddress,
		},
		{
			"DuplicateInstruction",
			`{"name": "x", "instructions": [{"name": "a"}, {"name": "a"}], ` + address + `}`,
			ErrDuplicateName,
		},
		{
			"UnsupportedArg",
			`{"name": "x", "instructions": [{"name": "a", "args": [{"name": "v", "type": "f64"}]}], ` + address + `}`,
			ErrUnsupportedType,
		},
		{
			"UnsupportedKind",
			`{"name": "x", "instructions": [{"name": "a"}], "accounts": [{"name": "A", "type": {"kind": "enum"}}], ` + address + `}`,
			ErrUnsupportedKind,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := Parse([]byte("{"))
	require.ErrorContains(t, err, "unable to decode idl")
}
