// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package common

const (
	// DEFAULT_BATCH_SIZE is how many probes a walk performs between
	// flushing its local count and polling for cancellation.
	DEFAULT_BATCH_SIZE uint64 = 1000

	// MAX_WALK_COUNT caps the number of concurrent walks regardless of
	// the computed budget.
	MAX_WALK_COUNT = 512
)
