// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/ava-labs/counterdapp/consts"
)

//go:embed index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

type pageData struct {
	Name           string
	Service        string
	ProgramID      string
	Endpoint       string
	Adapters       []string
	UpdateAmount   int
	RPCEndpoint    string
	EventsEndpoint string
}

// NewPage renders the single page front-end. It is rendered once, the page
// itself is static and talks to the JSON-RPC service.
func NewPage(programID string, endpoint string, adapters []string) (http.Handler, error) {
	var b bytes.Buffer
	if err := indexTemplate.Execute(&b, pageData{
		Name:           consts.Name,
		Service:        Name,
		ProgramID:      programID,
		Endpoint:       endpoint,
		Adapters:       adapters,
		UpdateAmount:   consts.UpdateAmount,
		RPCEndpoint:    Endpoint,
		EventsEndpoint: EventsEndpoint,
	}); err != nil {
		return nil, err
	}
	page := b.Bytes()
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	}), nil
}
