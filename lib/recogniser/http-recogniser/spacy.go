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

// Package http_recogniser talks to a remote model server that exposes
// named-entity recognition over HTTP (e.g. a spacy-server style endpoint).
package http_recogniser

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"github.com/privasend/privasend/lib"
	"github.com/privasend/privasend/lib/recogniser"
)

// NewClient returns a recogniser backed by the NER service at baseUrl.
func NewClient(baseUrl string) recogniser.Client {
	return &spacyClient{
		url:        baseUrl,
		httpClient: http.DefaultClient,
	}
}

type spacyClient struct {
	url        string
	httpClient lib.HttpClient
}

type nerResponse struct {
	Entities []recogniser.Span `json:"entities"`
}

func (c *spacyClient) Recognise(ctx context.Context, text, language string) ([]recogniser.Span, error) {
	endpoint := c.url
	if language != "" {
		endpoint = fmt.Sprintf("%s?%s", c.url, url.Values{"language": {language}}.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ner service returned status %d", resp.StatusCode)
	}

	b, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed nerResponse
	if err := json.Unmarshal(b, &parsed); err != nil {
		return nil, err
	}

	// Spans outside the input are the service's bug, not ours; dropping them
	// here keeps the span-integrity invariant intact downstream.
	spans := make([]recogniser.Span, 0, len(parsed.Entities))
	for _, span := range parsed.Entities {
		if span.Start < 0 || span.End > len(text) || span.Start >= span.End {
			continue
		}
		spans = append(spans, span)
	}

	return spans, nil
}
