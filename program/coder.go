// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"fmt"
	"math"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"

	"github.com/ava-labs/counterdapp/idl"
)

// EncodeArgs borsh-encodes [args] in the order and with the types [fields]
// declare.
func EncodeArgs(fields []idl.Field, args []any) ([]byte, error) {
	if len(fields) != len(args) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrArgumentCount, len(fields), len(args))
	}
	out := []byte{}
	for i, f := range fields {
		v, err := convert(f.Type, args[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArgument, f.Name, err)
		}
		b, err := borsh.Serialize(v)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// convert maps a caller supplied value onto the Go type borsh encodes as
// [t].
func convert(t idl.Type, v any) (any, error) {
	switch t {
	case idl.Bool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", v)
		}
		return b, nil
	case idl.String:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return s, nil
	case idl.PublicKey:
		switch pk := v.(type) {
		case solana.PublicKey:
			return [32]byte(pk), nil
		case string:
			parsed, err := solana.PublicKeyFromBase58(pk)
			if err != nil {
				return nil, err
			}
			return [32]byte(parsed), nil
		default:
			return nil, fmt.Errorf("expected public key, got %T", v)
		}
	}

	n, err := toBig(v)
	if err != nil {
		return nil, err
	}
	var lo, hi *big.Int
	switch t {
	case idl.U8, idl.U16, idl.U32, idl.U64:
		lo = new(big.Int)
		hi = new(big.Int).SetUint64(map[idl.Type]uint64{
			idl.U8:  math.MaxUint8,
			idl.U16: math.MaxUint16,
			idl.U32: math.MaxUint32,
			idl.U64: math.MaxUint64,
		}[t])
	case idl.I8, idl.I16, idl.I32, idl.I64:
		bound := map[idl.Type]int64{
			idl.I8:  math.MaxInt8,
			idl.I16: math.MaxInt16,
			idl.I32: math.MaxInt32,
			idl.I64: math.MaxInt64,
		}[t]
		lo = big.NewInt(-bound - 1)
		hi = big.NewInt(bound)
	default:
		return nil, fmt.Errorf("unsupported type %q", t)
	}
	if n.Cmp(lo) < 0 || n.Cmp(hi) > 0 {
		return nil, fmt.Errorf("%s out of range for %s", n, t)
	}
	switch t {
	case idl.U8:
		return uint8(n.Uint64()), nil
	case idl.U16:
		return uint16(n.Uint64()), nil
	case idl.U32:
		return uint32(n.Uint64()), nil
	case idl.U64:
		return n.Uint64(), nil
	case idl.I8:
		return int8(n.Int64()), nil
	case idl.I16:
		return int16(n.Int64()), nil
	case idl.I32:
		return int32(n.Int64()), nil
	default:
		return n.Int64(), nil
	}
}

func toBig(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, fmt.Errorf("nil integer")
		}
		return n, nil
	case int:
		return big.NewInt(int64(n)), nil
	case int8:
		return big.NewInt(int64(n)), nil
	case int16:
		return big.NewInt(int64(n)), nil
	case int32:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case uint:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	default:
		return nil, fmt.Errorf("expected integer, got %T", v)
	}
}
