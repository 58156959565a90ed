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

// Package redaction converts a final entity list into redacted text plus a
// reversible placeholder mapping.
package redaction

import (
	"fmt"
	"sort"
	"strings"

	"github.com/privasend/privasend/lib/pii"
)

// Result is the output of one Redact call. Mapping is a bijection from
// placeholder token to original substring, scoped to this call only.
type Result struct {
	RedactedText string            `json:"redacted_text"`
	Mapping      map[string]string `json:"mapping"`
	Count        int               `json:"entity_count"`
}

// Redact replaces entities in text with numbered placeholders like
// [EMAIL_1]. The input may be naive (overlapping, unsorted) and is
// resolved here independently of any earlier merge step.
//
// Identical values at different spans receive distinct placeholders; only
// span overlap is deduplicated, never value equality.
func Redact(text string, entities []pii.Entity) Result {
	if len(entities) == 0 {
		return Result{RedactedText: text, Mapping: map[string]string{}, Count: 0}
	}

	pii.VerifySpans(text, entities)
	resolved := resolveOverlaps(entities)

	typeCounters := make(map[pii.EntityType]int)
	mapping := make(map[string]string, len(resolved))
	type replacement struct {
		start, end  int
		placeholder string
	}
	replacements := make([]replacement, 0, len(resolved))

	for _, entity := range resolved {
		typeCounters[entity.Type]++
		placeholder := fmt.Sprintf("[%s_%d]", entity.Type, typeCounters[entity.Type])
		mapping[placeholder] = entity.Value
		replacements = append(replacements, replacement{entity.Start, entity.End, placeholder})
	}

	// Rewrite from the end toward the beginning so offsets of earlier,
	// not-yet-processed entities stay valid.
	redacted := text
	for i := len(replacements) - 1; i >= 0; i-- {
		r := replacements[i]
		redacted = redacted[:r.start] + r.placeholder + redacted[r.end:]
	}

	return Result{
		RedactedText: redacted,
		Mapping:      mapping,
		Count:        len(resolved),
	}
}

// Deredact restores original values by replacing every literal occurrence of
// each placeholder. This is plain substring substitution, not offset-based,
// so it works given only the redacted text and the mapping; a placeholder
// token that appears verbatim in unrelated caller text is substituted too,
// which is documented behaviour, not a defect.
func Deredact(text string, mapping map[string]string) string {
	result := text
	for placeholder, original := range mapping {
		result = strings.ReplaceAll(result, placeholder, original)
	}
	return result
}

// resolveOverlaps reduces a flat entity list to a strictly non-overlapping,
// position-ordered sequence: sort by (start, -width), scan left to right,
// and on overlap keep the wider span, breaking width ties by confidence.
func resolveOverlaps(entities []pii.Entity) []pii.Entity {
	sorted := make([]pii.Entity, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return (sorted[i].End - sorted[i].Start) > (sorted[j].End - sorted[j].Start)
	})

	resolved := sorted[:1]
	for _, entity := range sorted[1:] {
		prev := resolved[len(resolved)-1]
		if entity.Start < prev.End {
			prevWidth := prev.End - prev.Start
			width := entity.End - entity.Start
			if width > prevWidth || (width == prevWidth && entity.Confidence > prev.Confidence) {
				resolved[len(resolved)-1] = entity
			}
			continue
		}
		resolved = append(resolved, entity)
	}
	return resolved
}
