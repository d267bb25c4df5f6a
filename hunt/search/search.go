// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package search

import (
	"context"
	"errors"
	"strings"

	. "github.com/puzzlehunt/puzzlehunt/hunt/search/common"
	"github.com/puzzlehunt/puzzlehunt/hunt/search/sweep"
	"github.com/puzzlehunt/puzzlehunt/hunt/search/walk"
	"github.com/puzzlehunt/puzzlehunt/probe"
)

// Searcher drives one walk to a terminal state. Exhaustive searchers
// cover their range completely and expect disjoint chunks; roaming
// searchers sample the whole range and stop at their probe budget.
type Searcher interface {
	Search(ctx context.Context, w *Walk) (*probe.Match, error)
	Exhaustive() bool
}

func Parse(input string) (Searcher, error) {
	switch strings.ToLower(input) {

	case "linear", "sweep":
		return sweep.NewLinear(), nil

	case "random-walk", "walk":
		return walk.NewAdaptive(), nil
	}

	return nil, errors.New("unsupported search mode")
}
