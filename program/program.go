// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package program binds an interface description to a deployed program
// address and a provider, giving callers named instructions and typed
// account reads.
package program

import (
	"bytes"
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"

	"github.com/ava-labs/counterdapp/consts"
	"github.com/ava-labs/counterdapp/idl"
	"github.com/ava-labs/counterdapp/provider"
	"github.com/ava-labs/counterdapp/wallet"
)

// SystemProgramAccount is resolved automatically when a caller does not
// bind it.
const SystemProgramAccount = "systemProgram"

// Context carries the accounts an instruction is invoked with and any key
// pairs that must sign in addition to the provider's wallet.
type Context struct {
	Accounts map[string]solana.PublicKey
	Signers  []wallet.Wallet
}

type Program struct {
	idl      *idl.IDL
	id       solana.PublicKey
	provider *provider.Provider
}

func New(desc *idl.IDL, programID solana.PublicKey, p *provider.Provider) (*Program, error) {
	if p == nil {
		return nil, ErrMissingProvider
	}
	return &Program{idl: desc, id: programID, provider: p}, nil
}

func (p *Program) ID() solana.PublicKey {
	return p.id
}

func (p *Program) Provider() *provider.Provider {
	return p.provider
}

// Instruction builds the instruction [name] with its accounts in declared
// order and its arguments borsh-encoded after the discriminator.
func (p *Program) Instruction(name string, args []any, accounts map[string]solana.PublicKey) (*solana.GenericInstruction, error) {
	ix, err := p.idl.Instruction(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownInstruction, name)
	}
	metas := make(solana.AccountMetaSlice, 0, len(ix.Accounts))
	for _, item := range ix.Accounts {
		pk, ok := accounts[item.Name]
		if !ok {
			if item.Name != SystemProgramAccount {
				return nil, fmt.Errorf("%w: %s.%s", ErrMissingAccount, name, item.Name)
			}
			pk = solana.SystemProgramID
		}
		metas = append(metas, solana.NewAccountMeta(pk, item.IsMut, item.IsSigner))
	}
	encoded, err := EncodeArgs(ix.Args, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	d := ix.Discriminator()
	data := make([]byte, 0, len(d)+len(encoded))
	data = append(data, d[:]...)
	data = append(data, encoded...)
	return solana.NewInstruction(p.id, metas, data), nil
}

// RPC builds [name], sends it and waits for confirmation.
func (p *Program) RPC(ctx context.Context, name string, args []any, c Context) (solana.Signature, error) {
	ix, err := p.Instruction(name, args, c.Accounts)
	if err != nil {
		return solana.Signature{}, err
	}
	return p.provider.SendAndConfirm(ctx, []solana.Instruction{ix}, c.Signers...)
}

// Fetch reads [address], checks that it holds an [accountName] owned by this
// program, and decodes it into [out].
func (p *Program) Fetch(ctx context.Context, accountName string, address solana.PublicKey, out any) error {
	def, err := p.idl.Account(accountName)
	if err != nil {
		return err
	}
	acct, err := p.provider.GetAccountInfo(ctx, address)
	if provider.IsNotFound(err) {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, address)
	}
	if err != nil {
		return err
	}
	if !acct.Owner.Equals(p.id) {
		return fmt.Errorf("%w: %s is owned by %s", ErrAccountOwner, address, acct.Owner)
	}
	if acct.Data == nil {
		return fmt.Errorf("%w: %s", ErrAccountSize, address)
	}
	data := acct.Data.GetBinary()
	if len(data) < consts.DiscriminatorLen {
		return fmt.Errorf("%w: %s", ErrAccountSize, address)
	}
	d := def.Discriminator()
	if !bytes.Equal(data[:consts.DiscriminatorLen], d[:]) {
		return fmt.Errorf("%w: %s is not a %s", ErrAccountDiscriminator, address, accountName)
	}
	if size := def.Size(); size > 0 && len(data) < size {
		return fmt.Errorf("%w: %s", ErrAccountSize, address)
	}
	return borsh.Deserialize(out, data[consts.DiscriminatorLen:])
}
