// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/rpc/v2/json2"
)

// Client talks to a running counter server.
type Client struct {
	uri string
	cli *http.Client
}

func NewClient(uri string) *Client {
	uri = strings.TrimSuffix(uri, "/")
	uri += Endpoint
	return &Client{uri: uri, cli: http.DefaultClient}
}

func (c *Client) sendRequest(ctx context.Context, method string, args any, reply any) error {
	if args == nil {
		args = struct{}{}
	}
	body, err := json2.EncodeClientRequest(Name+"."+method, args)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uri, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.cli.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("received status code %d", resp.StatusCode)
	}
	return json2.DecodeClientResponse(resp.Body, reply)
}

func (c *Client) action(ctx context.Context, method string, args any) (*ActionReply, error) {
	resp := new(ActionReply)
	if err := c.sendRequest(ctx, method, args, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Initialize(ctx context.Context) (*ActionReply, error) {
	return c.action(ctx, "Initialize", nil)
}

func (c *Client) Increment(ctx context.Context) (*ActionReply, error) {
	return c.action(ctx, "Increment", nil)
}

func (c *Client) Decrement(ctx context.Context) (*ActionReply, error) {
	return c.action(ctx, "Decrement", nil)
}

func (c *Client) Update(ctx context.Context, amount string) (*ActionReply, error) {
	return c.action(ctx, "Update", &UpdateArgs{Amount: amount})
}

func (c *Client) Reset(ctx context.Context) (string, error) {
	resp := new(ResetReply)
	err := c.sendRequest(ctx, "Reset", nil, resp)
	return resp.Account, err
}

func (c *Client) Connect(ctx context.Context, adapter string) (*WalletReply, error) {
	resp := new(WalletReply)
	if err := c.sendRequest(ctx, "Connect", &ConnectArgs{Adapter: adapter}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Disconnect(ctx context.Context) (*WalletReply, error) {
	resp := new(WalletReply)
	if err := c.sendRequest(ctx, "Disconnect", nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Status(ctx context.Context) (*StatusReply, error) {
	resp := new(StatusReply)
	if err := c.sendRequest(ctx, "Status", nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
