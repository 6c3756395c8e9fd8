// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveBytes(t *testing.T) {
	require := require.New(t)

	filename := filepath.Join(t.TempDir(), "nested", "SaveBytes")

	b := make([]byte, 32)
	_, err := rand.Read(b)
	require.NoError(err)
	require.NoError(SaveBytes(filename, b), "Error during call to SaveBytes")
	require.FileExists(filename, "SaveBytes did not create file")

	saved, err := os.ReadFile(filename)
	require.NoError(err, "Reading saved file threw an error")
	require.Equal(b, saved, "bytes are different than saved")

	info, err := os.Stat(filename)
	require.NoError(err)
	require.Equal(os.FileMode(fsModeWrite), info.Mode().Perm())
}

func TestLoadBytesIncorrectLength(t *testing.T) {
	require := require.New(t)

	filename := filepath.Join(t.TempDir(), "BadFile")
	require.NoError(os.WriteFile(filename, []byte("fake"), fsModeWrite))

	_, err := LoadBytes(filename, 32)
	require.ErrorIs(err, ErrInvalidSize)

	b, err := LoadBytes(filename, -1)
	require.NoError(err)
	require.Equal([]byte("fake"), b)
}

func TestLoadBytesMissingFile(t *testing.T) {
	_, err := LoadBytes(filepath.Join(t.TempDir(), "missing"), 32)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestExpandHome(t *testing.T) {
	require := require.New(t)

	home, err := os.UserHomeDir()
	require.NoError(err)

	p, err := ExpandHome("~/.config/solana/id.json")
	require.NoError(err)
	require.Equal(filepath.Join(home, ".config/solana/id.json"), p)

	p, err = ExpandHome("/tmp/id.json")
	require.NoError(err)
	require.Equal("/tmp/id.json", p)
}
