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

// Package pipeline composes the detection stages into a single Detect call:
// structured patterns, optional recogniser, merge, optional oracle
// revalidation. Pure with respect to its inputs; the only I/O happens inside
// the two pluggable capabilities.
package pipeline

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/privasend/privasend/lib/blocklist"
	"github.com/privasend/privasend/lib/pii"
	"github.com/privasend/privasend/lib/recogniser"
	"github.com/privasend/privasend/lib/validator"
)

// Options selects which stages run and with what capabilities. The zero
// value runs structured detection only.
type Options struct {
	EnableNER        bool
	EnableValidation bool

	// Recogniser overrides the process-wide default. Leave nil to use
	// recogniser.Default(); if that is also nil, detection degrades to
	// structured-only.
	Recogniser recogniser.Client

	// Oracle judges medium-band entities. Nil skips validation even when
	// EnableValidation is set.
	Oracle validator.Oracle

	// Language is passed through to the recogniser. Defaults to "en".
	Language string

	// Validation bounds the oracle stage. Zero value means
	// validator.DefaultOptions().
	Validation validator.Options

	// NERScoreFloor discards recogniser spans below it. Zero means
	// pii.DefaultNERScoreFloor.
	NERScoreFloor float64

	// Blocklist filters recogniser findings. Zero value means the built-in
	// default list.
	Blocklist *blocklist.Blocklist
}

// Detect runs the full pipeline over text and returns entities ordered by
// (start, end). It never returns an error: recogniser failures degrade to
// structured-only results and oracle failures fail open, both logged.
func Detect(ctx context.Context, text string, opts Options) []pii.Entity {
	structured := pii.DetectStructured(text)

	var recognized []pii.Entity
	if opts.EnableNER {
		client := opts.Recogniser
		if client == nil {
			client = recogniser.Default()
		}
		if client != nil {
			recognized = runNER(ctx, client, text, opts)
		}
	}

	merged := pii.Merge(structured, recognized)

	if opts.EnableValidation && opts.Oracle != nil {
		valOpts := opts.Validation
		if valOpts == (validator.Options{}) {
			valOpts = validator.DefaultOptions()
		}
		merged = validator.Validate(ctx, opts.Oracle, merged, text, valOpts)
	}

	pii.VerifySpans(text, merged)
	pii.SortEntities(merged)
	return merged
}

func runNER(ctx context.Context, client recogniser.Client, text string, opts Options) []pii.Entity {
	language := opts.Language
	if language == "" {
		language = "en"
	}
	scoreFloor := opts.NERScoreFloor
	if scoreFloor == 0 {
		scoreFloor = pii.DefaultNERScoreFloor
	}
	bl := opts.Blocklist
	if bl == nil {
		defaultList := blocklist.Default()
		bl = &defaultList
	}

	entities, err := pii.DetectNER(ctx, client, text, language, scoreFloor, *bl)
	if err != nil {
		log.Warn().Err(err).Msg("recogniser unavailable, continuing with structured detection only")
		return nil
	}
	return entities
}
