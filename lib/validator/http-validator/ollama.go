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

// Package http_validator judges entities with a local LLM behind an
// Ollama-style generate endpoint.
package http_validator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/privasend/privasend/lib"
	"github.com/privasend/privasend/lib/validator"
)

// The oracle must never discover entities on its own; it only rules on the
// one entity each call hands it.
const systemPrompt = "You are a PII validation engine.\n" +
	"You must NOT identify new entities.\n" +
	"You must ONLY validate the provided entity.\n" +
	"Return JSON only. No explanations."

// NewOracle returns an Oracle backed by the Ollama server at baseUrl using
// the named model.
func NewOracle(baseUrl, model string) validator.Oracle {
	return &ollamaOracle{
		url:        baseUrl,
		model:      model,
		httpClient: http.DefaultClient,
	}
}

type ollamaOracle struct {
	url        string
	model      string
	httpClient lib.HttpClient
}

type generateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	System  string                 `json:"system"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (o *ollamaOracle) Judge(ctx context.Context, entityType, value, contextWindow string) (validator.Judgment, error) {
	prompt := fmt.Sprintf(
		"Entity: %q\nEntity Type: %s\nContext: %q\n\n"+
			"Decide if this entity is personally identifiable information.\n"+
			"Respond ONLY in JSON:\n"+
			`{"is_pii": true | false, "confidence": 0.0 - 1.0}`,
		value, entityType, contextWindow,
	)

	body, err := json.Marshal(generateRequest{
		Model:  o.model,
		Prompt: prompt,
		System: systemPrompt,
		Stream: false,
		Options: map[string]interface{}{
			"temperature":    0,
			"top_p":          0.9,
			"repeat_penalty": 1.1,
			"num_ctx":        512,
		},
	})
	if err != nil {
		return validator.Judgment{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return validator.Judgment{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return validator.Judgment{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return validator.Judgment{}, fmt.Errorf("oracle returned status %d", resp.StatusCode)
	}

	b, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return validator.Judgment{}, err
	}

	var parsed generateResponse
	if err := json.Unmarshal(b, &parsed); err != nil {
		return validator.Judgment{}, err
	}

	return parseJudgment(parsed.Response)
}

// parseJudgment tolerates models that wrap their JSON in markdown fences.
func parseJudgment(raw string) (validator.Judgment, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		parts := strings.SplitN(raw, "```", 3)
		if len(parts) >= 2 {
			raw = parts[1]
		}
		raw = strings.TrimPrefix(strings.TrimSpace(raw), "json")
		raw = strings.TrimSpace(raw)
	}

	var judgment validator.Judgment
	if err := json.Unmarshal([]byte(raw), &judgment); err != nil {
		return validator.Judgment{}, fmt.Errorf("unparsable oracle response: %w", err)
	}
	return judgment, nil
}
