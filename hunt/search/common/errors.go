// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package common

import "errors"

var (
	ErrSearchCancelled = errors.New("search canceled")
	ErrSearchExhausted = errors.New("search exhausted")
)
