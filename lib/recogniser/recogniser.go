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

// Package recogniser defines the pluggable named-entity-recognition
// capability. Any backing engine (remote model server, local model, test
// stub) can be substituted without touching pipeline logic.
package recogniser

import "context"

// Span is a raw recogniser finding: half-open byte offsets into the input,
// the engine's own label vocabulary, and its score in [0,1].
type Span struct {
	Start int     `json:"start"`
	End   int     `json:"end"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Client is the capability contract the pipeline consumes.
type Client interface {
	Recognise(ctx context.Context, text, language string) ([]Span, error)
}
