// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ava-labs/counterdapp/dispatcher"
	"github.com/ava-labs/counterdapp/wallet"
)

const (
	Name            = "counter"
	Endpoint        = "/rpc"
	EventsEndpoint  = "/ws"
	MetricsEndpoint = "/metrics"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Service exposes the counter actions and wallet selection over JSON-RPC.
type Service struct {
	log        *zap.Logger
	wallets    *wallet.Context
	dispatcher *dispatcher.Dispatcher
	programID  string
}

func NewService(log *zap.Logger, wallets *wallet.Context, d *dispatcher.Dispatcher, programID string) *Service {
	return &Service{
		log:        log,
		wallets:    wallets,
		dispatcher: d,
		programID:  programID,
	}
}

type ActionReply struct {
	Account string `json:"account"`
	Data    string `json:"data"`
}

func (s *Service) do(ctx context.Context, action string, amount *big.Int, reply *ActionReply) error {
	acct, err := s.dispatcher.Do(ctx, action, amount)
	reply.Account = s.dispatcher.Session().Address().String()
	if err != nil {
		return err
	}
	reply.Data = strconv.FormatUint(acct.Data, 10)
	return nil
}

func (s *Service) Initialize(r *http.Request, _ *struct{}, reply *ActionReply) error {
	return s.do(r.Context(), dispatcher.Initialize, nil, reply)
}

func (s *Service) Increment(r *http.Request, _ *struct{}, reply *ActionReply) error {
	return s.do(r.Context(), dispatcher.Increment, nil, reply)
}

func (s *Service) Decrement(r *http.Request, _ *struct{}, reply *ActionReply) error {
	return s.do(r.Context(), dispatcher.Decrement, nil, reply)
}

type UpdateArgs struct {
	// Decimal string so values above 2^53 survive JSON. Empty means the
	// default update amount.
	Amount string `json:"amount,omitempty"`
}

func (s *Service) Update(r *http.Request, args *UpdateArgs, reply *ActionReply) error {
	amount, err := ParseAmount(args.Amount)
	if err != nil {
		return err
	}
	return s.do(r.Context(), dispatcher.Update, amount, reply)
}

// ParseAmount parses a base-10 amount. An empty string yields nil.
func ParseAmount(s string) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return amount, nil
}

type ResetReply struct {
	Account string `json:"account"`
}

func (s *Service) Reset(_ *http.Request, _ *struct{}, reply *ResetReply) error {
	addr, err := s.dispatcher.Reset()
	if err != nil {
		return err
	}
	reply.Account = addr.String()
	return nil
}

type ConnectArgs struct {
	Adapter string `json:"adapter"`
}

type WalletReply struct {
	Connected bool   `json:"connected"`
	Adapter   string `json:"adapter,omitempty"`
	PublicKey string `json:"publicKey,omitempty"`
}

func (s *Service) walletReply(reply *WalletReply) {
	w, ok := s.wallets.Wallet()
	reply.Connected = ok
	if !ok {
		return
	}
	reply.Adapter = s.wallets.Adapter()
	reply.PublicKey = w.PublicKey().String()
}

func (s *Service) Connect(r *http.Request, args *ConnectArgs, reply *WalletReply) error {
	if _, err := s.wallets.Connect(r.Context(), args.Adapter); err != nil {
		return err
	}
	s.walletReply(reply)
	return nil
}

func (s *Service) Disconnect(_ *http.Request, _ *struct{}, reply *WalletReply) error {
	s.wallets.Disconnect()
	s.walletReply(reply)
	return nil
}

type StatusReply struct {
	WalletReply

	Endpoint  string   `json:"endpoint"`
	ProgramID string   `json:"programId"`
	Account   string   `json:"account"`
	Adapters  []string `json:"adapters"`
	Inflight  int64    `json:"inflight"`
}

func (s *Service) Status(_ *http.Request, _ *struct{}, reply *StatusReply) error {
	s.walletReply(&reply.WalletReply)
	reply.Endpoint = s.wallets.Endpoint()
	reply.ProgramID = s.programID
	reply.Account = s.dispatcher.Session().Address().String()
	reply.Adapters = s.wallets.Adapters()
	reply.Inflight = s.dispatcher.Inflight()
	return nil
}
