package main

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/privasend/privasend/lib"
	"github.com/privasend/privasend/lib/blocklist"
	"github.com/privasend/privasend/lib/pii"
	"github.com/privasend/privasend/lib/pipeline"
	"github.com/privasend/privasend/lib/redaction"
	"github.com/privasend/privasend/lib/validator"
)

type controller struct {
	nerEnabled         bool
	nerScoreFloor      float64
	oracle             validator.Oracle
	validation         validator.Options
	blocklist          blocklist.Blocklist
	redactionThreshold float64
	oracleUrl          string
	httpClient         lib.HttpClient
}

type analyzeResponse struct {
	Entities []pii.Entity `json:"entities"`
	Buckets  pii.Buckets  `json:"buckets"`
}

type redactResponse struct {
	RedactedText string            `json:"redacted_text"`
	Mapping      map[string]string `json:"mapping"`
	EntityCount  int               `json:"entity_count"`
	Entities     []pii.Entity      `json:"entities"`
}

type reviewResponse struct {
	Entities              []pii.Entity     `json:"entities"`
	Categories            map[string][]int `json:"categories"`
	CategoryOrder         []string         `json:"category_order"`
	HighConfidenceIndices []int            `json:"high_confidence_indices"`
}

func (c controller) detect(ctx context.Context, text string, enableValidation bool) []pii.Entity {
	return pipeline.Detect(ctx, text, pipeline.Options{
		EnableNER:        c.nerEnabled,
		EnableValidation: enableValidation && c.oracle != nil,
		Oracle:           c.oracle,
		Validation:       c.validation,
		NERScoreFloor:    c.nerScoreFloor,
		Blocklist:        &c.blocklist,
	})
}

func (c controller) Analyze(ctx context.Context, text string, validate bool) analyzeResponse {
	entities := c.detect(ctx, text, validate)
	return analyzeResponse{
		Entities: entities,
		Buckets:  pii.Bucket(entities),
	}
}

// Redact detects, then redacts only entities at or above the configured
// threshold. Sub-threshold detections are still returned so callers can see
// what was left in place.
func (c controller) Redact(ctx context.Context, text string, validate bool) redactResponse {
	entities := c.detect(ctx, text, validate)

	redactable := make([]pii.Entity, 0, len(entities))
	for _, e := range entities {
		if e.Confidence >= c.redactionThreshold {
			redactable = append(redactable, e)
		}
	}

	result := redaction.Redact(text, redactable)
	return redactResponse{
		RedactedText: result.RedactedText,
		Mapping:      result.Mapping,
		EntityCount:  result.Count,
		Entities:     entities,
	}
}

func (c controller) Deredact(text string, mapping map[string]string) string {
	return redaction.Deredact(text, mapping)
}

// AnalyzeForReview groups detections by category for review tooling and
// pre-selects the high-confidence ones.
func (c controller) AnalyzeForReview(ctx context.Context, text string, validate bool) reviewResponse {
	entities := c.detect(ctx, text, validate)

	categories := make(map[string][]int)
	var preselected []int
	for i, e := range entities {
		cat := pii.Category(e.Type)
		categories[cat] = append(categories[cat], i)
		if e.Confidence >= pii.ConfidenceHigh {
			preselected = append(preselected, i)
		}
	}

	return reviewResponse{
		Entities:              entities,
		Categories:            categories,
		CategoryOrder:         pii.CategoryOrder(),
		HighConfidenceIndices: preselected,
	}
}

// RedactSelected re-runs detection and redacts only the entities at the
// caller-selected indices (as returned by a prior AnalyzeForReview over the
// same text). Out-of-range indices are an error; the threshold does not
// apply because the caller has reviewed each selection explicitly.
func (c controller) RedactSelected(ctx context.Context, text string, indices []int, validate bool) (redactResponse, error) {
	entities := c.detect(ctx, text, validate)

	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Ints(sorted)

	selected := make([]pii.Entity, 0, len(sorted))
	for i, idx := range sorted {
		if idx < 0 || idx >= len(entities) {
			return redactResponse{}, NewHttpError(400, fmt.Errorf("selected index %d out of range (%d entities detected)", idx, len(entities)))
		}
		if i > 0 && idx == sorted[i-1] {
			continue
		}
		selected = append(selected, entities[idx])
	}

	result := redaction.Redact(text, selected)
	return redactResponse{
		RedactedText: result.RedactedText,
		Mapping:      result.Mapping,
		EntityCount:  result.Count,
		Entities:     entities,
	}, nil
}

type healthResponse struct {
	Status string `json:"status"`
	Oracle string `json:"oracle"`
}

// Health reports liveness plus oracle reachability. An unreachable oracle is
// reported but does not fail the check; the pipeline fails open without it.
func (c controller) Health(ctx context.Context) healthResponse {
	health := healthResponse{Status: "ok", Oracle: "disabled"}
	if c.oracle == nil {
		return health
	}

	reqCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.oracleUrl, nil)
	if err != nil {
		health.Oracle = "unreachable"
		return health
	}
	resp, err := c.httpClient.Do(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		health.Oracle = "unreachable"
	} else {
		health.Oracle = "ok"
	}
	if resp != nil {
		_ = resp.Body.Close()
	}
	return health
}
