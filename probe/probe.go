// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

// Package probe derives mainnet Bitcoin addresses from candidate
// private keys and checks them against a target set. Probing one key is
// the unit of work everything else in this repo schedules, measures and
// distributes.
package probe

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/puzzlehunt/puzzlehunt/utils"
)

var ErrKeyOutOfRange = errors.New("private key outside curve order")

// curveOrder is the order of the secp256k1 group; valid private keys
// live in [1, N-1].
var curveOrder = btcec.S256().Params().N

// Match records a candidate key that hit one of the targets.
type Match struct {
	Key     *big.Int
	Address string
}

func (m *Match) KeyHex() string {
	return utils.FormatKey(m.Key)
}

// Prober tests one candidate key and returns a Match when it hits a
// target. Candidates are read-only; implementations must not retain or
// mutate them. A nil Match with a nil error means no hit.
type Prober interface {
	Probe(candidate *big.Int) (*Match, error)
}

// AddressProber matches candidates against a set of addresses. An empty
// target set still derives addresses at full cost, which is exactly
// what the throughput benchmark relies on.
type AddressProber struct {
	targets map[string]struct{}
}

func NewAddressProber(targets []string) *AddressProber {
	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		t = strings.TrimSpace(t)
		if t != "" {
			set[t] = struct{}{}
		}
	}
	return &AddressProber{targets: set}
}

func (p *AddressProber) Probe(candidate *big.Int) (*Match, error) {
	addrs, err := DeriveAddresses(candidate)
	if err != nil {
		return nil, err
	}
	for _, addr := range addrs {
		if _, ok := p.targets[addr]; ok {
			return &Match{Key: new(big.Int).Set(candidate), Address: addr}, nil
		}
	}
	return nil, nil
}

// DeriveAddresses returns the mainnet addresses spendable by the key:
// compressed P2PKH, uncompressed P2PKH and P2WPKH, in that order. Early
// puzzle outputs were paid to uncompressed-key addresses, so both
// serializations have to be checked.
func DeriveAddresses(candidate *big.Int) ([]string, error) {
	if candidate == nil || candidate.Sign() <= 0 || candidate.Cmp(curveOrder) >= 0 {
		return nil, ErrKeyOutOfRange
	}

	var buf [32]byte
	candidate.FillBytes(buf[:])
	_, pub := btcec.PrivKeyFromBytes(buf[:])

	compressed := pub.SerializeCompressed()
	p2pkh, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(compressed), &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("derive compressed p2pkh: %w", err)
	}
	p2pkhUncomp, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(pub.SerializeUncompressed()), &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("derive uncompressed p2pkh: %w", err)
	}
	p2wpkh, err := btcutil.NewAddressWitnessPubKeyHash(btcutil.Hash160(compressed), &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("derive p2wpkh: %w", err)
	}

	return []string{
		p2pkh.EncodeAddress(),
		p2pkhUncomp.EncodeAddress(),
		p2wpkh.EncodeAddress(),
	}, nil
}
