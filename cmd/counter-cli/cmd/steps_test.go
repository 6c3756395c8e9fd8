// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/counterdapp/cli/prompt"
	"github.com/ava-labs/counterdapp/dispatcher"
)

func TestParseSteps(t *testing.T) {
	require := require.New(t)

	steps, err := parseSteps([]string{"initialize", "increment", "update", "7", "update", "decrement"})
	require.NoError(err)
	require.Len(steps, 5)
	require.Equal(dispatcher.Initialize, steps[0].action)
	require.Equal(dispatcher.Increment, steps[1].action)
	require.Equal(dispatcher.Update, steps[2].action)
	require.Zero(big.NewInt(7).Cmp(steps[2].amount))
	require.Equal(dispatcher.Update, steps[3].action)
	require.Nil(steps[3].amount)
	require.Equal(dispatcher.Decrement, steps[4].action)
}

func TestParseStepsErrors(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		err    error
	}{
		{name: "unknown", tokens: []string{"double"}, err: ErrUnknownCommand},
		{name: "amount without update", tokens: []string{"increment", "5"}, err: ErrUnknownCommand},
		{name: "negative amount", tokens: []string{"update", "-5"}, err: prompt.ErrInvalidAmount},
		{name: "overflow", tokens: []string{"update", "18446744073709551616"}, err: prompt.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSteps(tt.tokens)
			require.ErrorIs(t, err, tt.err)
		})
	}
}
