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
	"regexp"
	"strings"
)

// minTokenLength drops tokens at or below this length. Short fragments
// ("a", "an", "to") carry almost no ranking signal and bloat the postings.
const minTokenLength = 2

var wordPattern = regexp.MustCompile(`\w+`)

// stopWords are common English words excluded from both corpus statistics
// and query terms.
var stopWords = map[string]bool{
	"the": true, "is": true, "at": true, "which": true, "on": true,
	"and": true, "a": true, "an": true, "as": true, "are": true,
	"was": true, "were": true, "be": true, "have": true, "has": true,
	"had": true, "do": true, "does": true, "did": true, "will": true,
	"would": true, "could": true, "should": true, "may": true,
	"might": true, "must": true, "can": true, "this": true,
	"that": true, "these": true, "those": true, "i": true,
	"you": true, "he": true, "she": true, "it": true, "we": true,
	"they": true, "what": true, "who": true, "when": true,
	"where": true, "why": true, "how": true, "all": true,
	"each": true, "every": true, "both": true, "few": true,
	"more": true, "most": true, "other": true, "some": true,
	"such": true, "only": true, "own": true, "same": true,
	"so": true, "than": true, "too": true, "very": true,
	"just": true, "in": true, "of": true, "to": true, "for": true,
	"with": true, "by": true, "from": true, "about": true,
}

// Tokenize lowercases text, extracts word runs, and filters stopwords and
// tokens shorter than three characters. It is the tokenizer for corpus
// statistics and for query terms; both sides must use it so that term
// frequencies line up.
func Tokenize(text string) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(words))

	for _, word := range words {
		if len(word) <= minTokenLength {
			continue
		}

		if stopWords[word] {
			continue
		}

		tokens = append(tokens, word)
	}

	return tokens
}
