/*
 * Copyright 2024 PrivaSend
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package pii

import (
	"context"
	"strings"

	"github.com/blevesearch/segment"

	"github.com/privasend/privasend/lib/blocklist"
	"github.com/privasend/privasend/lib/recogniser"
	"github.com/privasend/privasend/lib/text"
)

// DefaultNERScoreFloor discards low-score generic tags from the recogniser.
const DefaultNERScoreFloor = 0.60

// labelMap translates recogniser label vocabularies into entity types.
// Unknown labels are dropped.
var labelMap = map[string]EntityType{
	"PERSON":            TypePerson,
	"PER":               TypePerson,
	"NRP":               TypePerson,
	"ORG":               TypeOrganization,
	"ORGANIZATION":      TypeOrganization,
	"GPE":               TypeLocation,
	"LOC":               TypeLocation,
	"LOCATION":          TypeLocation,
	"EMAIL_ADDRESS":     TypeEmail,
	"PHONE_NUMBER":      TypePhone,
	"US_SSN":            TypeSSN,
	"US_ITIN":           TypeSSN,
	"CREDIT_CARD":       TypeCreditCard,
	"IBAN_CODE":         TypeIBAN,
	"IP_ADDRESS":        TypeIPAddress,
	"DATE_TIME":         TypeDateTime,
	"MEDICAL_LICENSE":   TypeMedicalRecord,
	"UK_NHS":            TypeMedicalRecord,
	"US_DRIVER_LICENSE": TypeDriversLicense,
	"US_PASSPORT":       TypePassport,
	"US_BANK_NUMBER":    TypeBankAccount,
	"IN_AADHAAR":        TypeAadhaar,
	"IN_PAN":            TypePAN,
	"IN_ADDRESS":        TypeAddress,
	"ADDRESS":           TypeAddress,
}

// Multi-word phrases the recogniser tags as organizations that never are.
var orgPhraseBlacklist = map[string]struct{}{
	"terms of service":           {},
	"privacy policy":             {},
	"internal server error":      {},
	"access denied":              {},
	"end user license agreement": {},
	"frequently asked questions": {},
	"two factor authentication":  {},
}

var orgIndicators = []string{
	"inc", "ltd", "llc", "llp", "plc", "gmbh", "corp", "company", "co.",
	"bank", "group", "systems", "technologies", "solutions", "services",
	"university", "institute", "foundation", "association", "agency",
	"holdings", "partners", "industries", "labs",
}

// DetectNER runs the pluggable recogniser and translates its spans into
// entities, applying three quality gates before acceptance: a score floor,
// the lexical blocklist, and type-specific plausibility checks.
func DetectNER(ctx context.Context, client recogniser.Client, input, language string, scoreFloor float64, bl blocklist.Blocklist) ([]Entity, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}

	spans, err := client.Recognise(ctx, input, language)
	if err != nil {
		return nil, err
	}

	var entities []Entity
	for _, span := range spans {
		entityType, known := labelMap[strings.ToUpper(span.Label)]
		if !known {
			continue
		}
		if span.Score < scoreFloor {
			continue
		}
		if span.Start < 0 || span.End > len(input) || span.Start >= span.End {
			continue
		}

		value := input[span.Start:span.End]
		if !bl.Allowed(strings.TrimSpace(value)) {
			continue
		}

		end := span.End
		switch entityType {
		case TypePerson:
			trimmed, ok := validatePerson(value)
			if !ok {
				continue
			}
			end = span.Start + len(trimmed)
		case TypeOrganization:
			if !looksLikeOrganization(value) {
				continue
			}
		case TypeEmail:
			// URL fragments the recogniser mis-scoped as an email.
			if strings.ContainsAny(value, "/?") {
				continue
			}
		}

		score := span.Score
		if score > 1 {
			score = 1
		}
		entities = append(entities, Entity{
			Start:      span.Start,
			End:        end,
			Type:       entityType,
			Value:      input[span.Start:end],
			Confidence: score,
			Source:     SourceRecognized,
		})
	}

	SortEntities(entities)
	return entities, nil
}

// validatePerson decides whether a recogniser PERSON hit is plausibly a
// name. A trailing " - suffix" clause ("Name - Case Ref") is trimmed before
// re-validating; the returned string is the possibly-trimmed candidate.
func validatePerson(candidate string) (string, bool) {
	if looksLikePerson(candidate) {
		return candidate, true
	}
	if head := strings.SplitN(candidate, " - ", 2)[0]; head != candidate {
		head = strings.TrimRight(head, " ")
		if looksLikePerson(head) {
			return head, true
		}
	}
	return candidate, false
}

func looksLikePerson(candidate string) bool {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return false
	}
	// key=value shapes and anything carrying digits are not names
	if strings.Contains(candidate, "=") {
		return false
	}
	if text.HasDigit(candidate) {
		return false
	}

	words := segmentWords(candidate)
	if len(words) == 0 {
		return false
	}
	if len(words) == 1 {
		word := words[0]
		// short all-caps acronyms (SSN, API, JSON) and bare lowercase
		// words are recogniser noise, not names
		if text.IsAllUpper(word) && len(word) <= 4 {
			return false
		}
		// hex tokens made of letters alone ("DEADBEEF") slip past the digit
		// check; short hex-letter names (Abe, Ed) stay below the cutoff
		if text.IsHexish(word) && len(word) >= 6 {
			return false
		}
		first := rune(word[0])
		if first >= 'a' && first <= 'z' {
			return false
		}
	}
	return true
}

func looksLikeOrganization(candidate string) bool {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return false
	}

	folded := text.Fold(candidate)
	if _, bad := orgPhraseBlacklist[folded]; bad {
		return false
	}

	words := segmentWords(candidate)
	if len(words) == 1 {
		word := words[0]
		if text.IsAllUpper(word) && len(word) <= 4 {
			return false
		}
		// long base64/hex-ish blobs, with or without digits
		if len(word) >= 20 && (text.HasDigit(word) || text.IsHexish(word)) {
			return false
		}
		// alphanumeric mixes are only organizations when they carry an
		// org-indicative substring
		if text.HasDigit(word) {
			for _, indicator := range orgIndicators {
				if strings.Contains(folded, indicator) {
					return true
				}
			}
			return false
		}
	}
	return true
}

func segmentWords(s string) []string {
	var words []string
	segmenter := segment.NewWordSegmenterDirect([]byte(s))
	for segmenter.Segment() {
		if segmenter.Type() == segment.None {
			continue
		}
		words = append(words, segmenter.Text())
	}
	return words
}
