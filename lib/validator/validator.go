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

// Package validator re-scores medium-confidence entities against an external
// judgment oracle. The adapter is fail-open by construction: oracle trouble
// can only ever leave confidences unchanged, never block the pipeline.
package validator

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/privasend/privasend/lib/pii"
)

// Judgment is the oracle's verdict on a single entity.
type Judgment struct {
	IsPII      bool    `json:"is_pii"`
	Confidence float64 `json:"confidence"`
}

// Oracle is the pluggable judgment capability. Implementations must treat a
// timeout like any other failure; the adapter performs no retries.
type Oracle interface {
	Judge(ctx context.Context, entityType, value, contextWindow string) (Judgment, error)
}

// Options bound what one pipeline invocation may spend on the oracle.
type Options struct {
	// BandLow/BandHigh delimit the confidence band (inclusive both ends)
	// eligible for revalidation.
	BandLow  float64
	BandHigh float64
	// ContextChars is how much text either side of an entity the oracle may
	// see. Never the full document, never more than one entity per call.
	ContextChars int
	// CallTimeout bounds a single oracle call.
	CallTimeout time.Duration
	// TotalBudget bounds cumulative oracle time across one invocation.
	TotalBudget time.Duration
}

// DefaultOptions mirrors the documented defaults.
func DefaultOptions() Options {
	return Options{
		BandLow:      0.60,
		BandHigh:     0.85,
		ContextChars: 50,
		CallTimeout:  15 * time.Second,
		TotalBudget:  45 * time.Second,
	}
}

// budgetState is the per-invocation breaker, threaded explicitly through the
// entity loop rather than hidden in package state. The first failure trips
// it for the remainder of the invocation so one bad network condition is not
// retried entity by entity.
type budgetState struct {
	started time.Time
	budget  time.Duration
	tripped bool
}

func (b *budgetState) open() bool {
	return !b.tripped && time.Since(b.started) < b.budget
}

// Validate re-scores entities in the medium band via the oracle and returns
// a new slice; entities outside the band, and all entities after the breaker
// trips, pass through untouched. It never returns an error.
func Validate(ctx context.Context, oracle Oracle, entities []pii.Entity, text string, opts Options) []pii.Entity {
	if len(entities) == 0 || oracle == nil {
		return entities
	}

	state := &budgetState{started: time.Now(), budget: opts.TotalBudget}
	out := make([]pii.Entity, 0, len(entities))

	for _, entity := range entities {
		inBand := entity.Confidence >= opts.BandLow && entity.Confidence <= opts.BandHigh
		if !inBand || !state.open() {
			out = append(out, entity)
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, opts.CallTimeout)
		judgment, err := oracle.Judge(callCtx, string(entity.Type), entity.Value, contextWindow(text, entity, opts.ContextChars))
		cancel()

		if err != nil {
			log.Warn().Err(err).Str("entity_type", string(entity.Type)).
				Msg("oracle call failed, failing open for remaining entities")
			state.tripped = true
			out = append(out, entity)
			continue
		}

		out = append(out, blend(entity, judgment))
	}

	return out
}

// blend folds the oracle's verdict into the entity's confidence. A denial is
// penalized, not zeroed: the original detector's signal still counts.
func blend(entity pii.Entity, judgment Judgment) pii.Entity {
	oracleConf := judgment.Confidence
	if oracleConf < 0 {
		oracleConf = 0
	} else if oracleConf > 1 {
		oracleConf = 1
	}

	original := entity.Confidence
	if judgment.IsPII {
		entity.Confidence = 0.6*original + 0.4*oracleConf
	} else {
		entity.Confidence = original * 0.3
	}
	entity.PreValidationConfidence = &original
	entity.Validated = true
	return entity
}

func contextWindow(text string, entity pii.Entity, chars int) string {
	lo := entity.Start - chars
	if lo < 0 {
		lo = 0
	}
	hi := entity.End + chars
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}
