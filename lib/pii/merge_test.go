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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func structuredEntity(start, end int, t EntityType, value string, conf float64) Entity {
	return Entity{Start: start, End: end, Type: t, Value: value, Confidence: conf, Source: SourceStructured}
}

func recognizedEntity(start, end int, t EntityType, value string, conf float64) Entity {
	return Entity{Start: start, End: end, Type: t, Value: value, Confidence: conf, Source: SourceRecognized}
}

func TestMergeSuppressesGenericOverSpecific(t *testing.T) {
	// "card 4111-1111-1111-1111 expired": the recogniser tags the digits as a
	// person; the structured card signature must win.
	text := "card 4111-1111-1111-1111 expired"
	structured := DetectStructured(text)
	require.True(t, hasEntity(structured, TypeCreditCard, "4111-1111-1111-1111", 0.90))

	recognized := []Entity{
		recognizedEntity(5, 24, TypePerson, "4111-1111-1111-1111", 0.88),
	}

	merged := Merge(structured, recognized)
	assert.Empty(t, entitiesOfType(merged, TypePerson))
	assert.True(t, hasEntity(merged, TypeCreditCard, "4111-1111-1111-1111", 0.90))
}

func TestMergeSameTypeHigherConfidenceWins(t *testing.T) {
	structured := []Entity{structuredEntity(0, 14, TypePhone, "(555) 123-4567", 0.80)}

	t.Run("recognized outranks structured", func(t *testing.T) {
		recognized := []Entity{recognizedEntity(0, 14, TypePhone, "(555) 123-4567", 0.92)}
		merged := Merge(structured, recognized)

		phones := entitiesOfType(merged, TypePhone)
		require.Len(t, phones, 1)
		assert.Equal(t, 0.92, phones[0].Confidence)
		assert.Equal(t, SourceRecognized, phones[0].Source)
	})

	t.Run("structured outranks recognized", func(t *testing.T) {
		recognized := []Entity{recognizedEntity(0, 14, TypePhone, "(555) 123-4567", 0.61)}
		merged := Merge(structured, recognized)

		phones := entitiesOfType(merged, TypePhone)
		require.Len(t, phones, 1)
		assert.Equal(t, 0.80, phones[0].Confidence)
		assert.Equal(t, SourceStructured, phones[0].Source)
	})

	t.Run("equal confidence keeps structured", func(t *testing.T) {
		recognized := []Entity{recognizedEntity(0, 14, TypePhone, "(555) 123-4567", 0.80)}
		merged := Merge(structured, recognized)

		phones := entitiesOfType(merged, TypePhone)
		require.Len(t, phones, 1)
		assert.Equal(t, SourceStructured, phones[0].Source)
	})
}

func TestMergeKeepsDifferentTypesOnSameSpan(t *testing.T) {
	// a 16-digit number can be a card and a bank account at once; both
	// readings are surfaced for review
	structured := []Entity{
		structuredEntity(0, 19, TypeCreditCard, "4111 1111 1111 1111", 0.90),
		structuredEntity(0, 19, TypeBankAccount, "4111 1111 1111 1111", 0.50),
	}
	recognized := []Entity{recognizedEntity(0, 19, TypeDateTime, "4111 1111 1111 1111", 0.70)}

	merged := Merge(structured, recognized)
	assert.Len(t, merged, 3)
}

func TestMergeGenericSurvivesWithoutSpecificOverlap(t *testing.T) {
	structured := []Entity{structuredEntity(30, 41, TypeSSN, "123-45-6789", 0.90)}
	recognized := []Entity{recognizedEntity(0, 10, TypePerson, "John Smith", 0.85)}

	merged := Merge(structured, recognized)
	assert.True(t, hasEntity(merged, TypePerson, "John Smith", 0.85))
	assert.True(t, hasEntity(merged, TypeSSN, "123-45-6789", 0.90))
}

func TestMergeOrderingAndDeduplication(t *testing.T) {
	structured := []Entity{
		structuredEntity(20, 26, TypeEmail, "a@b.co", 0.95),
		structuredEntity(0, 11, TypeSSN, "123-45-6789", 0.90),
		structuredEntity(0, 11, TypeSSN, "123-45-6789", 0.80),
	}

	merged := Merge(structured, nil)
	require.Len(t, merged, 2)
	assert.Equal(t, TypeSSN, merged[0].Type)
	assert.Equal(t, 0.90, merged[0].Confidence, "first rule wins on identical spans")
	assert.Equal(t, TypeEmail, merged[1].Type)
}

func TestMergeEmptyInputs(t *testing.T) {
	assert.Empty(t, Merge(nil, nil))

	structured := []Entity{structuredEntity(0, 6, TypeEmail, "a@b.co", 0.95)}
	assert.Len(t, Merge(structured, nil), 1)
	assert.Len(t, Merge(nil, structured), 1)
}
