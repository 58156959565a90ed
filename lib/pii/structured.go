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
	"regexp"
	"strings"

	"github.com/blevesearch/segment"

	"github.com/privasend/privasend/lib/text"
)

// dobContextWindow is how far (in bytes) either side of a date match we look
// for a birth-context keyword.
const dobContextWindow = 40

var dobContextKeywords = map[string]struct{}{
	"born":        {},
	"dob":         {},
	"d.o.b":       {},
	"birth":       {},
	"birthdate":   {},
	"birthday":    {},
	"age":         {},
	"anniversary": {},
}

// embedded key/value structures. Group 1 is the key, group 2 the value.
var (
	jsonKVRe     = regexp.MustCompile(`"([A-Za-z0-9_\-]+)"\s*:\s*"([^"]+)"`)
	queryParamRe = regexp.MustCompile(`[?&]([A-Za-z0-9_\-]+)=([^&\s"']+)`)
	kvTokenRe    = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_\-]*)=([^\s&"',;]+)`)
)

// embeddedConfidence applies to values extracted from key-indicative
// structures: the key is a strong signal regardless of the value's shape.
const embeddedConfidence = 0.85

// keyHints maps normalized key names to the entity type their values carry.
var keyHints = map[string]EntityType{
	"ssn":             TypeSSN,
	"social_security": TypeSSN,
	"email":           TypeEmail,
	"e-mail":          TypeEmail,
	"mail":            TypeEmail,
	"phone":           TypePhone,
	"mobile":          TypePhone,
	"tel":             TypePhone,
	"dob":             TypeDateOfBirth,
	"date_of_birth":   TypeDateOfBirth,
	"birthdate":       TypeDateOfBirth,
	"aadhaar":         TypeAadhaar,
	"aadhar":          TypeAadhaar,
	"pan":             TypePAN,
	"password":        TypeCredential,
	"passwd":          TypeCredential,
	"pwd":             TypeCredential,
	"secret":          TypeCredential,
	"token":           TypeCredential,
	"apikey":          TypeCredential,
	"api_key":         TypeCredential,
	"api-key":         TypeCredential,
	"access_token":    TypeCredential,
	"name":            TypePerson,
	"full_name":       TypePerson,
	"fullname":        TypePerson,
	"address":         TypeAddress,
	"addr":            TypeAddress,
	"ip":              TypeIPAddress,
	"ip_address":      TypeIPAddress,
	"card":            TypeCreditCard,
	"credit_card":     TypeCreditCard,
	"card_number":     TypeCreditCard,
	"iban":            TypeIBAN,
	"account":         TypeBankAccount,
	"account_number":  TypeBankAccount,
}

// DetectStructured runs every pattern rule against text, re-runs them with
// zero-width characters stripped, and extracts values from key-indicative
// structures. It returns every match, possibly overlapping, unfiltered;
// merging and overlap resolution happen downstream.
func DetectStructured(input string) []Entity {
	if strings.TrimSpace(input) == "" {
		return nil
	}

	var entities []Entity
	seen := make(map[spanKey]struct{})

	for _, r := range rules {
		for _, match := range r.pattern.FindAllStringIndex(input, -1) {
			start, end := match[0], match[1]
			if r.entityType == TypeDateOfBirth && !hasBirthContext(input, start, end) {
				continue
			}
			entities = append(entities, Entity{
				Start:      start,
				End:        end,
				Type:       r.entityType,
				Value:      input[start:end],
				Confidence: r.confidence,
				Source:     SourceStructured,
			})
			seen[spanKey{start, end, r.entityType}] = struct{}{}
		}
	}

	entities = append(entities, detectEvasive(input, seen)...)
	entities = append(entities, extractEmbedded(input, seen)...)

	SortEntities(entities)
	return entities
}

// evasionPenalty is subtracted from the rule weight when a match only appears
// after zero-width characters are stripped.
const evasionPenalty = 0.10

// detectEvasive re-runs the rules over a copy of the input with zero-width
// characters removed, mapping matches back to original offsets. Spans that a
// clean pass already found are skipped, so only genuinely broken-up
// identifiers pay the penalty.
func detectEvasive(input string, seen map[spanKey]struct{}) []Entity {
	stripped := text.StripInvisible(input)
	if stripped == input {
		return nil
	}

	// origin[i] is the byte offset in input of stripped's byte i.
	origin := make([]int, 0, len(stripped))
	for i, r := range input {
		if text.StripInvisible(string(r)) == "" {
			continue
		}
		for j := 0; j < len(string(r)); j++ {
			origin = append(origin, i+j)
		}
	}

	var entities []Entity
	for _, r := range rules {
		for _, match := range r.pattern.FindAllStringIndex(stripped, -1) {
			start := origin[match[0]]
			end := origin[match[1]-1] + 1
			if r.entityType == TypeDateOfBirth && !hasBirthContext(input, start, end) {
				continue
			}
			sk := spanKey{start, end, r.entityType}
			if _, dup := seen[sk]; dup {
				continue
			}
			seen[sk] = struct{}{}
			entities = append(entities, Entity{
				Start:      start,
				End:        end,
				Type:       r.entityType,
				Value:      input[start:end],
				Confidence: r.confidence - evasionPenalty,
				Source:     SourceStructured,
			})
		}
	}
	return entities
}

type spanKey struct {
	start, end int
	entityType EntityType
}

// hasBirthContext reports whether a birth-context keyword appears within the
// fixed window either side of the match. Matches without context are dropped
// entirely rather than down-weighted: a bare date is not a date of birth.
func hasBirthContext(input string, start, end int) bool {
	lo := start - dobContextWindow
	if lo < 0 {
		lo = 0
	}
	hi := end + dobContextWindow
	if hi > len(input) {
		hi = len(input)
	}

	segmenter := segment.NewWordSegmenterDirect([]byte(input[lo:hi]))
	for segmenter.Segment() {
		if segmenter.Type() == segment.None {
			continue
		}
		word := text.Fold(segmenter.Text())
		if _, ok := dobContextKeywords[word]; ok {
			return true
		}
	}
	return false
}

// numericHintTypes are the key hints whose values are number-shaped
// identifiers. A non-numeric value under such a key ("ssn": "unknown") is a
// placeholder, not PII.
var numericHintTypes = map[EntityType]bool{
	TypeSSN:         true,
	TypePhone:       true,
	TypeAadhaar:     true,
	TypeCreditCard:  true,
	TypeBankAccount: true,
}

// isNumericIdentifier reports whether the value is digits once common
// separators are removed.
func isNumericIdentifier(value string) bool {
	compact := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')', '+':
			return -1
		}
		return r
	}, value)
	return text.IsNumeric(compact)
}

// extractEmbedded pulls values out of key-indicative structures: JSON-like
// "key": "value" pairs, URL query parameters, and bare key=value tokens.
// The value is typed by the key's semantic hint and deduplicated against
// spans already found by direct pattern matching.
func extractEmbedded(input string, seen map[spanKey]struct{}) []Entity {
	var entities []Entity

	collect := func(re *regexp.Regexp) {
		for _, m := range re.FindAllStringSubmatchIndex(input, -1) {
			key := text.Fold(input[m[2]:m[3]])
			entityType, ok := keyHints[key]
			if !ok {
				continue
			}
			start, end := m[4], m[5]
			if start >= end {
				continue
			}
			if numericHintTypes[entityType] && !isNumericIdentifier(input[start:end]) {
				continue
			}
			sk := spanKey{start, end, entityType}
			if _, dup := seen[sk]; dup {
				continue
			}
			seen[sk] = struct{}{}
			entities = append(entities, Entity{
				Start:      start,
				End:        end,
				Type:       entityType,
				Value:      input[start:end],
				Confidence: embeddedConfidence,
				Source:     SourceStructured,
			})
		}
	}

	collect(jsonKVRe)
	collect(queryParamRe)
	collect(kvTokenRe)

	return entities
}
