// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import "github.com/ava-labs/counterdapp/keystore"

type Controller interface {
	DatabasePath() string
	KeystoreConfig() keystore.Config
}
