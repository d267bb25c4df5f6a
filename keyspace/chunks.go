// Copyright (c) 2025 The Puzzlehunt developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or http://www.opensource.org/licenses/mit-license.php.

package keyspace

import "math/big"

// Chunks splits r into n contiguous pieces of equal width, with the last
// chunk picking up the division remainder. Ranges too narrow to fill n
// chunks come back as a single chunk covering the whole range.
func Chunks(r Range, n int) []Range {
	if n < 1 {
		n = 1
	}

	per := new(big.Int).Quo(r.Width(), big.NewInt(int64(n)))
	if per.Sign() == 0 || n == 1 {
		return []Range{r}
	}

	chunks := make([]Range, 0, n)
	cursor := r.Start()
	one := big.NewInt(1)
	for i := 0; i < n; i++ {
		end := new(big.Int)
		if i == n-1 {
			end.Set(r.end)
		} else {
			end.Add(cursor, per)
			end.Sub(end, one)
		}
		chunks = append(chunks, Range{start: new(big.Int).Set(cursor), end: end})
		cursor.Add(end, one)
	}
	return chunks
}
