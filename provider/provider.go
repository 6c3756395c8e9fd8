// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/ava-labs/counterdapp/wallet"
)

// RPCClient is the part of *rpc.Client a Provider needs.
type RPCClient interface {
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, sigs ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error)
}

var _ RPCClient = (*rpc.Client)(nil)

// Provider binds a connection to a wallet and a set of commitment options.
// It is cheap to build and meant to be thrown away after one action.
type Provider struct {
	log    *zap.Logger
	client RPCClient
	wallet wallet.Wallet
	opts   Options
}

func New(log *zap.Logger, client RPCClient, w wallet.Wallet, opts Options) (*Provider, error) {
	if w == nil {
		return nil, ErrMissingWallet
	}
	if err := opts.Verify(); err != nil {
		return nil, err
	}
	return &Provider{
		log:    log,
		client: client,
		wallet: w,
		opts:   opts,
	}, nil
}

func (p *Provider) Wallet() wallet.Wallet {
	return p.wallet
}

func (p *Provider) Client() RPCClient {
	return p.client
}

func (p *Provider) Options() Options {
	return p.opts
}

// SendAndConfirm builds a transaction paid for by the provider's wallet,
// signs it with [signers] and the wallet, and waits until it reaches the
// configured commitment.
func (p *Provider) SendAndConfirm(
	ctx context.Context,
	instructions []solana.Instruction,
	signers ...wallet.Wallet,
) (solana.Signature, error) {
	tx, err := p.BuildTransaction(ctx, instructions, signers...)
	if err != nil {
		return solana.Signature{}, err
	}
	sig, err := p.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       p.opts.SkipPreflight,
		PreflightCommitment: p.opts.PreflightCommitment,
	})
	if err != nil {
		return solana.Signature{}, err
	}
	p.log.Debug("transaction sent", zap.Stringer("signature", sig))
	if err := p.Confirm(ctx, sig); err != nil {
		return sig, err
	}
	return sig, nil
}

// BuildTransaction returns a fully signed transaction for [instructions].
func (p *Provider) BuildTransaction(
	ctx context.Context,
	instructions []solana.Instruction,
	signers ...wallet.Wallet,
) (*solana.Transaction, error) {
	latest, err := p.client.GetLatestBlockhash(ctx, p.opts.Commitment)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch blockhash: %w", err)
	}
	tx, err := solana.NewTransaction(
		instructions,
		latest.Value.Blockhash,
		solana.TransactionPayer(p.wallet.PublicKey()),
	)
	if err != nil {
		return nil, err
	}
	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, err
	}

	required := int(tx.Message.Header.NumRequiredSignatures)
	tx.Signatures = make([]solana.Signature, required)
	signed := make([]bool, required)
	sign := func(w wallet.Wallet) error {
		idx := -1
		for i := 0; i < required; i++ {
			if tx.Message.AccountKeys[i].Equals(w.PublicKey()) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrUnexpectedSigner, w.PublicKey())
		}
		sig, err := w.SignMessage(ctx, msg)
		if err != nil {
			return err
		}
		tx.Signatures[idx] = sig
		signed[idx] = true
		return nil
	}
	// Extra signers first so the wallet signs last, after everything else
	// about the transaction is settled.
	for _, s := range signers {
		if err := sign(s); err != nil {
			return nil, err
		}
	}
	if err := sign(p.wallet); err != nil {
		return nil, err
	}

	for i := 0; i < required; i++ {
		key := tx.Message.AccountKeys[i]
		if !signed[i] {
			return nil, fmt.Errorf("%w: %s", ErrMissingSigner, key)
		}
		if !wallet.Verify(msg, key, tx.Signatures[i]) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSignature, key)
		}
	}
	return tx, nil
}

// Confirm polls the status of [sig] until it reaches the configured
// commitment.
func (p *Provider) Confirm(ctx context.Context, sig solana.Signature) error {
	want, _ := commitmentRank(p.opts.Commitment)
	cctx, cancel := context.WithTimeout(ctx, p.opts.ConfirmTimeout)
	defer cancel()

	t := time.NewTicker(p.opts.PollInterval)
	defer t.Stop()
	for {
		out, err := p.client.GetSignatureStatuses(cctx, false, sig)
		switch {
		case err != nil && cctx.Err() == nil:
			return fmt.Errorf("unable to fetch signature status: %w", err)
		case err == nil && out != nil && len(out.Value) > 0 && out.Value[0] != nil:
			st := out.Value[0]
			if st.Err != nil {
				return fmt.Errorf("%w: %v", ErrTransactionFailed, st.Err)
			}
			if statusRank(st.ConfirmationStatus) >= want {
				p.log.Debug("transaction confirmed",
					zap.Stringer("signature", sig),
					zap.Uint64("slot", st.Slot),
					zap.String("status", string(st.ConfirmationStatus)),
				)
				return nil
			}
		}

		select {
		case <-t.C:
		case <-cctx.Done():
			if err := ctx.Err(); err != nil {
				return err
			}
			return fmt.Errorf("%w: %s", ErrConfirmTimeout, sig)
		}
	}
}

// GetAccountInfo reads [address] at the configured commitment. A missing
// account is reported as rpc.ErrNotFound.
func (p *Provider) GetAccountInfo(ctx context.Context, address solana.PublicKey) (*rpc.Account, error) {
	out, err := p.client.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: p.opts.Commitment,
	})
	if err != nil {
		return nil, err
	}
	if out == nil || out.Value == nil {
		return nil, rpc.ErrNotFound
	}
	return out.Value, nil
}

// IsNotFound reports whether [err] means the requested account is missing.
func IsNotFound(err error) bool {
	return errors.Is(err, rpc.ErrNotFound)
}
