// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisabledTracerIsNoop(t *testing.T) {
	require := require.New(t)

	tr, err := New(&Config{AppName: "counter"})
	require.NoError(err)
	require.IsType(&noOpTracer{}, tr)

	_, span := tr.Start(context.Background(), "Dispatcher.Increment")
	require.False(span.SpanContext().IsValid())
	span.End()
	require.NoError(tr.Close())
}

func TestEnabledTracerRecords(t *testing.T) {
	require := require.New(t)

	tr, err := New(&Config{
		Enabled:         true,
		TraceSampleRate: 1,
		Endpoint:        "http://127.0.0.1:1/api/v2/spans",
		AppName:         "counter",
	})
	require.NoError(err)

	_, span := tr.Start(context.Background(), "Dispatcher.Increment")
	require.True(span.SpanContext().IsValid())
	span.End()
	// export failures surface on shutdown but must not hang
	_ = tr.Close()
}
