// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package idl models the interface-description document a remote program
// publishes: its callable instructions, their accounts and arguments, and the
// layout of the accounts it owns.
package idl

import (
	"crypto/sha256"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/gagliardetto/solana-go"

	"github.com/ava-labs/counterdapp/consts"
)

const (
	instructionNamespace = "global"
	accountNamespace     = "account"

	KindStruct = "struct"
)

type Type string

const (
	Bool      Type = "bool"
	U8        Type = "u8"
	I8        Type = "i8"
	U16       Type = "u16"
	I16       Type = "i16"
	U32       Type = "u32"
	I32       Type = "i32"
	U64       Type = "u64"
	I64       Type = "i64"
	String    Type = "string"
	PublicKey Type = "publicKey"
)

// sizes of fixed-width types; string is variable.
var typeSizes = map[Type]int{
	Bool:      1,
	U8:        1,
	I8:        1,
	U16:       2,
	I16:       2,
	U32:       4,
	I32:       4,
	U64:       8,
	I64:       8,
	String:    -1,
	PublicKey: consts.PublicKeyLen,
}

func (t Type) Supported() bool {
	_, ok := typeSizes[t]
	return ok
}

type Discriminator [consts.DiscriminatorLen]byte

type IDL struct {
	Version      string        `json:"version"`
	Name         string        `json:"name"`
	Instructions []Instruction `json:"instructions"`
	Accounts     []AccountDef  `json:"accounts"`
	Metadata     Metadata      `json:"metadata"`
}

type Metadata struct {
	Address string `json:"address"`
}

type Instruction struct {
	Name     string        `json:"name"`
	Accounts []AccountItem `json:"accounts"`
	Args     []Field       `json:"args"`
}

type AccountItem struct {
	Name     string `json:"name"`
	IsMut    bool   `json:"isMut"`
	IsSigner bool   `json:"isSigner"`
}

type Field struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

type AccountDef struct {
	Name string  `json:"name"`
	Type TypeDef `json:"type"`
}

type TypeDef struct {
	Kind   string  `json:"kind"`
	Fields []Field `json:"fields"`
}

//go:embed counter.json
var counterJSON []byte

var counter = sync.OnceValues(func() (*IDL, error) {
	return Parse(counterJSON)
})

// Counter returns the counter program's interface description. It is parsed
// once per process and shared by every caller, so callers must not mutate it.
func Counter() (*IDL, error) {
	return counter()
}

func Parse(b []byte) (*IDL, error) {
	var idl IDL
	if err := json.Unmarshal(b, &idl); err != nil {
		return nil, fmt.Errorf("unable to decode idl: %w", err)
	}
	if err := idl.Verify(); err != nil {
		return nil, err
	}
	return &idl, nil
}

func (i *IDL) Verify() error {
	if len(i.Name) == 0 {
		return fmt.Errorf("%w: idl", ErrMissingName)
	}
	if len(i.Instructions) == 0 {
		return ErrNoInstructions
	}
	if _, err := i.Address(); err != nil {
		return err
	}
	seen := map[string]struct{}{}
	for _, ix := range i.Instructions {
		if len(ix.Name) == 0 {
			return fmt.Errorf("%w: instruction", ErrMissingName)
		}
		if _, ok := seen[ix.Name]; ok {
			return fmt.Errorf("%w: instruction %s", ErrDuplicateName, ix.Name)
		}
		seen[ix.Name] = struct{}{}
		for _, a := range ix.Accounts {
			if len(a.Name) == 0 {
				return fmt.Errorf("%w: account of %s", ErrMissingName, ix.Name)
			}
		}
		if err := verifyFields(ix.Name, ix.Args); err != nil {
			return err
		}
	}
	seen = map[string]struct{}{}
	for _, a := range i.Accounts {
		if len(a.Name) == 0 {
			return fmt.Errorf("%w: account", ErrMissingName)
		}
		if _, ok := seen[a.Name]; ok {
			return fmt.Errorf("%w: account %s", ErrDuplicateName, a.Name)
		}
		seen[a.Name] = struct{}{}
		if a.Type.Kind != KindStruct {
			return fmt.Errorf("%w: %s", ErrUnsupportedKind, a.Type.Kind)
		}
		if err := verifyFields(a.Name, a.Type.Fields); err != nil {
			return err
		}
	}
	return nil
}

func verifyFields(owner string, fields []Field) error {
	for _, f := range fields {
		if len(f.Name) == 0 {
			return fmt.Errorf("%w: field of %s", ErrMissingName, owner)
		}
		if !f.Type.Supported() {
			return fmt.Errorf("%w: %s.%s has type %q", ErrUnsupportedType, owner, f.Name, f.Type)
		}
	}
	return nil
}

// Address is the program address recorded in the document's metadata.
func (i *IDL) Address() (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(i.Metadata.Address)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return pk, nil
}

func (i *IDL) Instruction(name string) (*Instruction, error) {
	for j := range i.Instructions {
		if i.Instructions[j].Name == name {
			return &i.Instructions[j], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownInstruction, name)
}

func (i *IDL) Account(name string) (*AccountDef, error) {
	for j := range i.Accounts {
		if i.Accounts[j].Name == name {
			return &i.Accounts[j], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, name)
}

// InstructionByDiscriminator resolves the instruction whose data starts with
// [d].
func (i *IDL) InstructionByDiscriminator(d Discriminator) (*Instruction, error) {
	for j := range i.Instructions {
		if i.Instructions[j].Discriminator() == d {
			return &i.Instructions[j], nil
		}
	}
	return nil, fmt.Errorf("%w: %x", ErrUnknownInstruction, d[:])
}

// Discriminator is the first 8 bytes of sha256("global:<snake_case name>").
func (ix *Instruction) Discriminator() Discriminator {
	return sighash(instructionNamespace, toSnakeCase(ix.Name))
}

// Discriminator is the first 8 bytes of sha256("account:<Name>").
func (a *AccountDef) Discriminator() Discriminator {
	return sighash(accountNamespace, a.Name)
}

// Size is the number of bytes the account occupies on-chain, or -1 when a
// field is variable-width.
func (a *AccountDef) Size() int {
	size := consts.DiscriminatorLen
	for _, f := range a.Type.Fields {
		s := typeSizes[f.Type]
		if s < 0 {
			return -1
		}
		size += s
	}
	return size
}

func sighash(namespace, name string) Discriminator {
	h := sha256.Sum256([]byte(namespace + ":" + name))
	var d Discriminator
	copy(d[:], h[:consts.DiscriminatorLen])
	return d
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
