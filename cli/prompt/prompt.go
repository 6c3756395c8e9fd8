// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prompt

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/manifoldco/promptui"

	"github.com/ava-labs/counterdapp/utils"
)

var (
	ErrInputEmpty      = errors.New("input is empty")
	ErrInputTooLarge   = errors.New("input is too large")
	ErrInvalidChoice   = errors.New("invalid choice")
	ErrIndexOutOfRange = errors.New("index out-of-range")
	ErrInvalidAmount   = errors.New("invalid amount")
)

func String(label string, minLen int, maxLen int) (string, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			return ValidateString(input, minLen, maxLen)
		},
	}
	text, err := promptText.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func ValidateString(input string, minLen int, maxLen int) error {
	if len(input) < minLen {
		return ErrInputEmpty
	}
	if len(input) > maxLen {
		return ErrInputTooLarge
	}
	return nil
}

// Secret reads a value without echoing it. Empty input is allowed when
// [allowEmpty].
func Secret(label string, allowEmpty bool) (string, error) {
	promptText := promptui.Prompt{
		Label: label,
		Mask:  '*',
		Validate: func(input string) error {
			if !allowEmpty && len(input) == 0 {
				return ErrInputEmpty
			}
			return nil
		},
	}
	text, err := promptText.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func PublicKey(label string) (solana.PublicKey, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := solana.PublicKeyFromBase58(strings.TrimSpace(input))
			return err
		},
	}
	raw, err := promptText.Run()
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBase58(strings.TrimSpace(raw))
}

// Amount prompts for a u64, returned as a big.Int the way the program
// interface takes integers.
func Amount(label string) (*big.Int, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := ParseAmount(input)
			return err
		},
	}
	raw, err := promptText.Run()
	if err != nil {
		return nil, err
	}
	return ParseAmount(raw)
}

// ParseAmount parses a base-10 u64.
func ParseAmount(input string) (*big.Int, error) {
	input = strings.TrimSpace(input)
	if len(input) == 0 {
		return nil, ErrInputEmpty
	}
	v, err := strconv.ParseUint(input, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}
	return new(big.Int).SetUint64(v), nil
}

func Choice(label string, maxChoice int) (int, error) {
	if maxChoice == 1 {
		utils.Outf("{{yellow}}%s:{{/}} 0 [auto-selected]\n", label)
		return 0, nil
	}
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := ParseChoice(input, maxChoice)
			return err
		},
	}
	rawIndex, err := promptText.Run()
	if err != nil {
		return -1, err
	}
	return ParseChoice(rawIndex, maxChoice)
}

func ParseChoice(input string, maxChoice int) (int, error) {
	input = strings.TrimSpace(input)
	if len(input) == 0 {
		return -1, ErrInputEmpty
	}
	index, err := strconv.Atoi(input)
	if err != nil {
		return -1, err
	}
	if index >= maxChoice || index < 0 {
		return -1, ErrIndexOutOfRange
	}
	return index, nil
}

func Continue() (bool, error) {
	cont, err := Bool("continue")
	if err != nil {
		return false, err
	}
	if !cont {
		utils.Outf("{{red}}exiting...{{/}}\n")
	}
	return cont, nil
}

func Bool(label string) (bool, error) {
	promptText := promptui.Prompt{
		Label: label + " (y/n)",
		Validate: func(input string) error {
			_, err := ParseBool(input)
			return err
		},
	}
	rawContinue, err := promptText.Run()
	if err != nil {
		return false, err
	}
	return ParseBool(rawContinue)
}

func ParseBool(input string) (bool, error) {
	if len(input) == 0 {
		return false, ErrInputEmpty
	}
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y":
		return true, nil
	case "n":
		return false, nil
	default:
		return false, ErrInvalidChoice
	}
}
