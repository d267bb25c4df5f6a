// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package common

// State is the lifecycle of a single walk. A walk starts idle, runs,
// briefly adapts at each tick, and ends in exactly one of the terminal
// states.
type State uint8

const (
	StateIdle State = iota
	StateRunning
	StateAdapting
	StateFound
	StateExhausted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateAdapting:
		return "adapting"
	case StateFound:
		return "found"
	case StateExhausted:
		return "exhausted"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

func (s State) Terminal() bool {
	switch s {
	case StateFound, StateExhausted, StateCancelled:
		return true
	}
	return false
}
