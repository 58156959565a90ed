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

// Merge combines structured and recogniser findings into one coherent list.
//
// Different-typed findings on the same span are preserved: a number can look
// like a credit card and an ID at once, and both are surfaced for review.
// Same-typed overlaps are resolved by confidence, not source priority, so a
// high-confidence recogniser match can override a weak pattern hit. The one
// exception is suppression: a specific structured signature always outranks
// a generic recogniser guess (PERSON/ORGANIZATION/LOCATION) on overlapping
// text.
func Merge(structured, recognized []Entity) []Entity {
	merged := make([]Entity, len(structured))
	copy(merged, structured)

	for _, candidate := range recognized {
		if isGeneric(candidate.Type) && overlapsSpecificStructured(structured, candidate) {
			continue
		}

		overlapping := make(map[int]struct{})
		outranked := false
		for i, existing := range merged {
			if existing.Type != candidate.Type || !existing.Overlaps(candidate) {
				continue
			}
			overlapping[i] = struct{}{}
			if existing.Confidence >= candidate.Confidence {
				outranked = true
			}
		}
		if outranked {
			continue
		}
		if len(overlapping) > 0 {
			kept := merged[:0]
			for i, existing := range merged {
				if _, loser := overlapping[i]; !loser {
					kept = append(kept, existing)
				}
			}
			merged = kept
		}
		merged = append(merged, candidate)
	}

	SortEntities(merged)
	return dedupe(merged)
}

func overlapsSpecificStructured(structured []Entity, candidate Entity) bool {
	for _, s := range structured {
		if isSpecific(s.Type) && s.Overlaps(candidate) {
			return true
		}
	}
	return false
}

// dedupe enforces the merge invariant: no two entities with identical
// (start, end, type). The input must already be sorted.
func dedupe(entities []Entity) []Entity {
	out := entities[:0]
	seen := make(map[spanKey]struct{}, len(entities))
	for _, e := range entities {
		key := spanKey{e.Start, e.End, e.Type}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}
