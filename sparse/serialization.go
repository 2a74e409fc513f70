// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package sparse

import (
	"fmt"
	"math"
	"sort"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MarshalStats serializes statistics to bytes. Terms are written in sorted
// order so identical statistics always produce identical bytes.
func MarshalStats(s *Stats) []byte {
	terms := make([]string, 0, len(s.inverted))
	for term := range s.inverted {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	size := varint.Uint64.Size(math.Float64bits(s.k1))
	size += varint.Uint64.Size(math.Float64bits(s.b))
	size += varint.Int.Size(len(s.lengths))
	for _, length := range s.lengths {
		size += varint.Int.Size(length)
	}
	size += varint.Int.Size(len(terms))
	for _, term := range terms {
		size += ord.String.Size(term)
		postings := s.inverted[term]
		size += varint.Int.Size(len(postings))
		for _, p := range postings {
			size += varint.Int.Size(p.pos)
			size += varint.Int.Size(p.count)
		}
	}

	buf := make([]byte, size)
	n := varint.Uint64.Marshal(math.Float64bits(s.k1), buf)
	n += varint.Uint64.Marshal(math.Float64bits(s.b), buf[n:])
	n += varint.Int.Marshal(len(s.lengths), buf[n:])
	for _, length := range s.lengths {
		n += varint.Int.Marshal(length, buf[n:])
	}
	n += varint.Int.Marshal(len(terms), buf[n:])
	for _, term := range terms {
		n += ord.String.Marshal(term, buf[n:])
		postings := s.inverted[term]
		n += varint.Int.Marshal(len(postings), buf[n:])
		for _, p := range postings {
			n += varint.Int.Marshal(p.pos, buf[n:])
			n += varint.Int.Marshal(p.count, buf[n:])
		}
	}

	return buf
}

// UnmarshalStats deserializes statistics from bytes.
func UnmarshalStats(data []byte) (*Stats, error) {
	s := &Stats{inverted: make(map[string][]posting)}
	n := 0

	k1Bits, n1, err := varint.Uint64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal k1: %w", err)
	}
	n += n1
	s.k1 = math.Float64frombits(k1Bits)

	bBits, n1, err := varint.Uint64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal b: %w", err)
	}
	n += n1
	s.b = math.Float64frombits(bBits)

	numChunks, n1, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal chunk count: %w", err)
	}
	n += n1
	if numChunks < 0 {
		return nil, fmt.Errorf("invalid chunk count %d", numChunks)
	}

	s.lengths = make([]int, numChunks)
	for i := 0; i < numChunks; i++ {
		length, n1, err := varint.Int.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal chunk length: %w", err)
		}
		n += n1
		s.lengths[i] = length
		s.totalLength += int64(length)
	}

	numTerms, n1, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal term count: %w", err)
	}
	n += n1
	if numTerms < 0 {
		return nil, fmt.Errorf("invalid term count %d", numTerms)
	}

	for i := 0; i < numTerms; i++ {
		term, n1, err := ord.String.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal term: %w", err)
		}
		n += n1

		numPostings, n1, err := varint.Int.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal posting count for %q: %w", term, err)
		}
		n += n1
		if numPostings < 0 {
			return nil, fmt.Errorf("invalid posting count %d for %q", numPostings, term)
		}

		postings := make([]posting, numPostings)
		for j := 0; j < numPostings; j++ {
			pos, n1, err := varint.Int.Unmarshal(data[n:])
			if err != nil {
				return nil, fmt.Errorf("failed to unmarshal posting position: %w", err)
			}
			n += n1

			count, n1, err := varint.Int.Unmarshal(data[n:])
			if err != nil {
				return nil, fmt.Errorf("failed to unmarshal posting frequency: %w", err)
			}
			n += n1

			if pos < 0 || pos >= numChunks {
				return nil, fmt.Errorf("posting position %d outside corpus of %d chunks", pos, numChunks)
			}

			postings[j] = posting{pos: pos, count: count}
		}

		s.inverted[term] = postings
	}

	return s, nil
}
