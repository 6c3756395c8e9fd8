// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package countertest provides an in-memory ledger that runs the counter
// program so clients can be exercised without a validator.
package countertest

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/near/borsh-go"
	"go.uber.org/atomic"

	"github.com/ava-labs/counterdapp/consts"
	"github.com/ava-labs/counterdapp/idl"
	"github.com/ava-labs/counterdapp/provider"
	"github.com/ava-labs/counterdapp/wallet"
)

var _ provider.RPCClient = (*Ledger)(nil)

var (
	ErrBlockhashNotFound = errors.New("blockhash not found")
	ErrSignatureFailure  = errors.New("signature verification failed")
	ErrProgramNotFound   = errors.New("program not found")
)

// Program error codes, numbered the way the counter program's framework
// numbers them.
const (
	CodeAccountInUse          = 0
	CodeArithmetic            = 6000
	CodeConstraintSigner      = 2002
	CodeConstraintMut         = 2000
	CodeAccountNotInitialized = 3012
	CodeAccountOwnedByWrong   = 3007
	CodeInstructionMissing    = 100
)

// ProgramError is the failure of one instruction.
type ProgramError struct {
	Instruction int
	Code        uint32
	Msg         string
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("instruction %d failed with custom program error 0x%x: %s", e.Instruction, e.Code, e.Msg)
}

type account struct {
	owner solana.PublicKey
	data  []byte
}

// Ledger implements provider.RPCClient over a single in-memory bank. Every
// accepted transaction is final immediately unless a confirmation status is
// configured.
type Ledger struct {
	programID solana.PublicKey
	desc      *idl.IDL

	sends    atomic.Uint64
	accepted atomic.Uint64

	lock       sync.Mutex
	slot       uint64
	blockhashs map[solana.Hash]struct{}
	accounts   map[solana.PublicKey]*account
	statuses   map[solana.Signature]*rpc.SignatureStatusesResult
	status     rpc.ConfirmationStatusType
	sendErr    error
}

func NewLedger(programID solana.PublicKey) (*Ledger, error) {
	desc, err := idl.Counter()
	if err != nil {
		return nil, err
	}
	return &Ledger{
		programID:  programID,
		desc:       desc,
		blockhashs: map[solana.Hash]struct{}{},
		accounts:   map[solana.PublicKey]*account{},
		statuses:   map[solana.Signature]*rpc.SignatureStatusesResult{},
		status:     rpc.ConfirmationStatusFinalized,
	}, nil
}

// Sends is the number of SendTransactionWithOpts calls observed.
func (l *Ledger) Sends() uint64 {
	return l.sends.Load()
}

// Accepted is the number of transactions that executed successfully.
func (l *Ledger) Accepted() uint64 {
	return l.accepted.Load()
}

// SetConfirmationStatus controls the status reported for new transactions.
// An empty status makes them look pending forever.
func (l *Ledger) SetConfirmationStatus(s rpc.ConfirmationStatusType) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.status = s
}

// FailSends makes every send fail with [err] before reaching the bank. Pass
// nil to restore normal behavior.
func (l *Ledger) FailSends(err error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.sendErr = err
}

// Counter returns the value stored in the counter account at [address].
func (l *Ledger) Counter(address solana.PublicKey) (uint64, bool) {
	l.lock.Lock()
	defer l.lock.Unlock()

	a, ok := l.accounts[address]
	if !ok || len(a.data) < consts.CounterAccountSize {
		return 0, false
	}
	return binary.LittleEndian.Uint64(a.data[consts.DiscriminatorLen:]), true
}

// SetAccount installs raw account state.
func (l *Ledger) SetAccount(address solana.PublicKey, owner solana.PublicKey, data []byte) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.accounts[address] = &account{owner: owner, data: bytes.Clone(data)}
}

func (l *Ledger) GetLatestBlockhash(context.Context, rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	var h solana.Hash
	if _, err := rand.Read(h[:]); err != nil {
		return nil, err
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	l.slot++
	l.blockhashs[h] = struct{}{}
	return &rpc.GetLatestBlockhashResult{
		RPCContext: rpc.RPCContext{Context: rpc.Context{Slot: l.slot}},
		Value: &rpc.LatestBlockhashResult{
			Blockhash:            h,
			LastValidBlockHeight: l.slot + 150,
		},
	}, nil
}

func (l *Ledger) SendTransactionWithOpts(_ context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error) {
	l.sends.Inc()

	l.lock.Lock()
	defer l.lock.Unlock()

	if l.sendErr != nil {
		return solana.Signature{}, l.sendErr
	}
	if len(tx.Signatures) == 0 {
		return solana.Signature{}, ErrSignatureFailure
	}
	if _, ok := l.blockhashs[tx.Message.RecentBlockhash]; !ok {
		return solana.Signature{}, ErrBlockhashNotFound
	}
	if err := verifySignatures(tx); err != nil {
		return solana.Signature{}, err
	}
	sig := tx.Signatures[0]
	execErr := l.execute(tx)
	if execErr != nil && !opts.SkipPreflight {
		return solana.Signature{}, fmt.Errorf("transaction simulation failed: %w", execErr)
	}
	l.slot++
	st := &rpc.SignatureStatusesResult{
		Slot:               l.slot,
		ConfirmationStatus: l.status,
	}
	if execErr != nil {
		st.Err = execErr.Error()
	} else {
		l.accepted.Inc()
	}
	l.statuses[sig] = st
	return sig, nil
}

func (l *Ledger) GetSignatureStatuses(_ context.Context, _ bool, sigs ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	out := &rpc.GetSignatureStatusesResult{
		RPCContext: rpc.RPCContext{Context: rpc.Context{Slot: l.slot}},
		Value:      make([]*rpc.SignatureStatusesResult, len(sigs)),
	}
	for i, sig := range sigs {
		st, ok := l.statuses[sig]
		if !ok || st.ConfirmationStatus == "" {
			continue
		}
		cp := *st
		out.Value[i] = &cp
	}
	return out, nil
}

func (l *Ledger) GetAccountInfoWithOpts(_ context.Context, address solana.PublicKey, _ *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	a, ok := l.accounts[address]
	if !ok {
		return nil, rpc.ErrNotFound
	}
	return &rpc.GetAccountInfoResult{
		RPCContext: rpc.RPCContext{Context: rpc.Context{Slot: l.slot}},
		Value: &rpc.Account{
			Owner: a.owner,
			Data:  rpc.DataBytesOrJSONFromBytes(bytes.Clone(a.data)),
		},
	}, nil
}

func verifySignatures(tx *solana.Transaction) error {
	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return err
	}
	required := int(tx.Message.Header.NumRequiredSignatures)
	if len(tx.Signatures) != required || len(tx.Message.AccountKeys) < required {
		return ErrSignatureFailure
	}
	for i := 0; i < required; i++ {
		if !wallet.Verify(msg, tx.Message.AccountKeys[i], tx.Signatures[i]) {
			return fmt.Errorf("%w: %s", ErrSignatureFailure, tx.Message.AccountKeys[i])
		}
	}
	return nil
}

type accountRef struct {
	key      solana.PublicKey
	signer   bool
	writable bool
}

func resolve(tx *solana.Transaction, idx uint16) (accountRef, error) {
	keys := tx.Message.AccountKeys
	if int(idx) >= len(keys) {
		return accountRef{}, fmt.Errorf("account index %d out of range", idx)
	}
	h := tx.Message.Header
	i := int(idx)
	signers := int(h.NumRequiredSignatures)
	ref := accountRef{key: keys[i], signer: i < signers}
	if ref.signer {
		ref.writable = i < signers-int(h.NumReadonlySignedAccounts)
	} else {
		ref.writable = i < len(keys)-int(h.NumReadonlyUnsignedAccounts)
	}
	return ref, nil
}

// execute applies every instruction of [tx] or none of them.
func (l *Ledger) execute(tx *solana.Transaction) error {
	staged := make(map[solana.PublicKey]*account, len(l.accounts))
	for k, v := range l.accounts {
		staged[k] = v
	}
	for n, ci := range tx.Message.Instructions {
		if int(ci.ProgramIDIndex) >= len(tx.Message.AccountKeys) {
			return fmt.Errorf("%w: index %d", ErrProgramNotFound, ci.ProgramIDIndex)
		}
		programID := tx.Message.AccountKeys[ci.ProgramIDIndex]
		if !programID.Equals(l.programID) {
			return fmt.Errorf("%w: %s", ErrProgramNotFound, programID)
		}
		refs := make([]accountRef, len(ci.Accounts))
		for i, idx := range ci.Accounts {
			ref, err := resolve(tx, idx)
			if err != nil {
				return err
			}
			refs[i] = ref
		}
		if err := l.run(staged, n, refs, ci.Data); err != nil {
			return err
		}
	}
	l.accounts = staged
	return nil
}

func (l *Ledger) run(staged map[solana.PublicKey]*account, n int, refs []accountRef, data []byte) error {
	fail := func(code uint32, msg string) error {
		return &ProgramError{Instruction: n, Code: code, Msg: msg}
	}
	if len(data) < consts.DiscriminatorLen {
		return fail(CodeInstructionMissing, "instruction data too short")
	}
	var d idl.Discriminator
	copy(d[:], data)
	ix, err := l.desc.InstructionByDiscriminator(d)
	if err != nil {
		return fail(CodeInstructionMissing, err.Error())
	}
	if len(refs) < len(ix.Accounts) {
		return fail(CodeInstructionMissing, "not enough account keys")
	}
	for i, item := range ix.Accounts {
		if item.IsSigner && !refs[i].signer {
			return fail(CodeConstraintSigner, item.Name+" must sign")
		}
		if item.IsMut && !refs[i].writable {
			return fail(CodeConstraintMut, item.Name+" must be writable")
		}
	}
	def, err := l.desc.Account("MyAccount")
	if err != nil {
		return err
	}
	disc := def.Discriminator()
	target := refs[0].key

	if ix.Name == "initialize" {
		if _, ok := staged[target]; ok {
			return fail(CodeAccountInUse, "account already in use")
		}
		buf := make([]byte, consts.CounterAccountSize)
		copy(buf, disc[:])
		staged[target] = &account{owner: l.programID, data: buf}
		return nil
	}

	a, ok := staged[target]
	if !ok {
		return fail(CodeAccountNotInitialized, "account not initialized")
	}
	if !a.owner.Equals(l.programID) {
		return fail(CodeAccountOwnedByWrong, "account owned by a different program")
	}
	if len(a.data) < consts.CounterAccountSize || !bytes.Equal(a.data[:consts.DiscriminatorLen], disc[:]) {
		return fail(CodeAccountNotInitialized, "account discriminator mismatch")
	}
	value := binary.LittleEndian.Uint64(a.data[consts.DiscriminatorLen:])
	switch ix.Name {
	case "increment":
		if value == consts.MaxUint64 {
			return fail(CodeArithmetic, "overflow")
		}
		value++
	case "decrement":
		if value == 0 {
			return fail(CodeArithmetic, "underflow")
		}
		value--
	case "update":
		if err := borsh.Deserialize(&value, data[consts.DiscriminatorLen:]); err != nil {
			return fail(CodeInstructionMissing, "invalid update argument")
		}
	default:
		return fail(CodeInstructionMissing, "unsupported instruction "+ix.Name)
	}
	buf := bytes.Clone(a.data)
	binary.LittleEndian.PutUint64(buf[consts.DiscriminatorLen:], value)
	staged[target] = &account{owner: a.owner, data: buf}
	return nil
}
