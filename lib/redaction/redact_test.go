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

package redaction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/privasend/privasend/lib/pii"
)

func entityIn(text, value string, t pii.EntityType, conf float64) pii.Entity {
	start := strings.Index(text, value)
	if start < 0 {
		panic("value not in text: " + value)
	}
	return pii.Entity{Start: start, End: start + len(value), Type: t, Value: value, Confidence: conf, Source: pii.SourceStructured}
}

func TestRedactRoundTrip(t *testing.T) {
	text := "mail john@a.com or jane@b.org about SSN 123-45-6789"
	entities := []pii.Entity{
		entityIn(text, "john@a.com", pii.TypeEmail, 0.95),
		entityIn(text, "jane@b.org", pii.TypeEmail, 0.95),
		entityIn(text, "123-45-6789", pii.TypeSSN, 0.90),
	}

	result := Redact(text, entities)

	assert.Equal(t, "mail [EMAIL_1] or [EMAIL_2] about SSN [SSN_1]", result.RedactedText)
	assert.Equal(t, 3, result.Count)
	assert.Equal(t, "john@a.com", result.Mapping["[EMAIL_1]"])
	assert.Equal(t, "jane@b.org", result.Mapping["[EMAIL_2]"])
	assert.Equal(t, "123-45-6789", result.Mapping["[SSN_1]"])

	assert.Equal(t, text, Deredact(result.RedactedText, result.Mapping))
}

func TestRedactNumbersPlaceholdersInPositionOrder(t *testing.T) {
	text := "b@b.co then a@a.co"
	// deliberately out of order
	entities := []pii.Entity{
		entityIn(text, "a@a.co", pii.TypeEmail, 0.95),
		entityIn(text, "b@b.co", pii.TypeEmail, 0.95),
	}

	result := Redact(text, entities)
	assert.Equal(t, "[EMAIL_1] then [EMAIL_2]", result.RedactedText)
	assert.Equal(t, "b@b.co", result.Mapping["[EMAIL_1]"])
	assert.Equal(t, "a@a.co", result.Mapping["[EMAIL_2]"])
}

func TestRedactIdenticalValuesGetDistinctPlaceholders(t *testing.T) {
	text := "a@a.co and again a@a.co"
	entities := []pii.Entity{
		{Start: 0, End: 6, Type: pii.TypeEmail, Value: "a@a.co", Confidence: 0.95},
		{Start: 17, End: 23, Type: pii.TypeEmail, Value: "a@a.co", Confidence: 0.95},
	}

	result := Redact(text, entities)
	assert.Equal(t, "[EMAIL_1] and again [EMAIL_2]", result.RedactedText)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, text, Deredact(result.RedactedText, result.Mapping))
}

func TestRedactOverlapKeepsWiderSpan(t *testing.T) {
	text := "0123456789"
	entities := []pii.Entity{
		{Start: 0, End: 4, Type: pii.TypeSSN, Value: "0123", Confidence: 0.90},
		{Start: 0, End: 10, Type: pii.TypeBankAccount, Value: "0123456789", Confidence: 0.50},
	}

	result := Redact(text, entities)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "[BANK_ACCOUNT_1]", result.RedactedText)
}

func TestRedactOverlapTieBreaksOnConfidence(t *testing.T) {
	text := "0123456789"
	entities := []pii.Entity{
		{Start: 0, End: 9, Type: pii.TypeSSN, Value: "012345678", Confidence: 0.40},
		{Start: 1, End: 10, Type: pii.TypePhone, Value: "123456789", Confidence: 0.80},
	}

	result := Redact(text, entities)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "0[PHONE_1]", result.RedactedText)
	assert.Equal(t, "123456789", result.Mapping["[PHONE_1]"])
}

func TestRedactEmptyEntityList(t *testing.T) {
	result := Redact("nothing to hide", nil)
	assert.Equal(t, "nothing to hide", result.RedactedText)
	assert.Empty(t, result.Mapping)
	assert.Equal(t, 0, result.Count)
}

func TestDeredactOnEmptyMapping(t *testing.T) {
	assert.Equal(t, "unchanged", Deredact("unchanged", nil))
	assert.Equal(t, "unchanged", Deredact("unchanged", map[string]string{}))
}

func TestRedactPanicsOnCorruptSpans(t *testing.T) {
	text := "hello world"
	entities := []pii.Entity{
		{Start: 0, End: 5, Type: pii.TypePerson, Value: "nope!", Confidence: 0.9},
	}
	assert.Panics(t, func() { Redact(text, entities) })
}
