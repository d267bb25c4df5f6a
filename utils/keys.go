// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package utils

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseHexKey parses a private key or range boundary written as hex,
// with or without a 0x prefix.
func ParseHexKey(s string) (*big.Int, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(trimmed, "0x")
	trimmed = strings.TrimPrefix(trimmed, "0X")
	if trimmed == "" {
		return nil, fmt.Errorf("empty hex key")
	}

	k, ok := new(big.Int).SetString(trimmed, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex key: %q", s)
	}
	if k.Sign() < 0 {
		return nil, fmt.Errorf("negative hex key: %q", s)
	}
	return k, nil
}

// FormatKey renders a key as the usual 64-digit zero-padded hex string.
func FormatKey(k *big.Int) string {
	return fmt.Sprintf("%064x", k)
}
