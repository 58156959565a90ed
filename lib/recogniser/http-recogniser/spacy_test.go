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

package http_recogniser

import (
	"context"
	"errors"
	"io/ioutil"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/privasend/privasend/lib/mocks"
	"github.com/privasend/privasend/lib/recogniser"
)

type spacySuite struct {
	suite.Suite
}

func TestSpacySuite(t *testing.T) {
	suite.Run(t, new(spacySuite))
}

func nerBody(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       ioutil.NopCloser(strings.NewReader(body)),
	}
}

func (s *spacySuite) TestRecognise() {
	input := "John Smith lives in Springfield"

	var captured *http.Request
	mockHttpClient := &mocks.HttpClient{}
	mockHttpClient.On("Do", mock.AnythingOfType("*http.Request")).
		Run(func(args mock.Arguments) { captured = args.Get(0).(*http.Request) }).
		Return(nerBody(`{"entities":[
			{"start":0,"end":10,"label":"PERSON","score":0.95},
			{"start":20,"end":31,"label":"GPE","score":0.85}
		]}`), nil).Once()

	client := &spacyClient{url: "http://localhost:8000/ner", httpClient: mockHttpClient}
	spans, err := client.Recognise(context.Background(), input, "en")

	s.Require().NoError(err)
	s.Equal([]recogniser.Span{
		{Start: 0, End: 10, Label: "PERSON", Score: 0.95},
		{Start: 20, End: 31, Label: "GPE", Score: 0.85},
	}, spans)

	s.Equal(http.MethodPost, captured.Method)
	s.Equal("text/plain", captured.Header.Get("Content-Type"))
	s.Equal("language=en", captured.URL.RawQuery)

	body, err := ioutil.ReadAll(captured.Body)
	s.Require().NoError(err)
	s.Equal(input, string(body))
}

func (s *spacySuite) TestRecogniseDropsOutOfRangeSpans() {
	input := "short"

	mockHttpClient := &mocks.HttpClient{}
	mockHttpClient.On("Do", mock.AnythingOfType("*http.Request")).
		Return(nerBody(`{"entities":[
			{"start":0,"end":5,"label":"ORG","score":0.9},
			{"start":0,"end":100,"label":"ORG","score":0.9},
			{"start":-2,"end":3,"label":"ORG","score":0.9},
			{"start":4,"end":4,"label":"ORG","score":0.9}
		]}`), nil).Once()

	client := &spacyClient{url: "http://localhost:8000/ner", httpClient: mockHttpClient}
	spans, err := client.Recognise(context.Background(), input, "en")

	s.Require().NoError(err)
	s.Require().Len(spans, 1)
	s.Equal(recogniser.Span{Start: 0, End: 5, Label: "ORG", Score: 0.9}, spans[0])
}

func (s *spacySuite) TestRecogniseErrors() {
	s.Run("transport failure", func() {
		mockHttpClient := &mocks.HttpClient{}
		mockHttpClient.On("Do", mock.AnythingOfType("*http.Request")).
			Return(nil, errors.New("no route to host")).Once()

		client := &spacyClient{url: "http://localhost:8000/ner", httpClient: mockHttpClient}
		_, err := client.Recognise(context.Background(), "text", "en")
		s.Error(err)
	})

	s.Run("non-200 status", func() {
		mockHttpClient := &mocks.HttpClient{}
		mockHttpClient.On("Do", mock.AnythingOfType("*http.Request")).
			Return(&http.Response{
				StatusCode: http.StatusBadGateway,
				Body:       ioutil.NopCloser(strings.NewReader("")),
			}, nil).Once()

		client := &spacyClient{url: "http://localhost:8000/ner", httpClient: mockHttpClient}
		_, err := client.Recognise(context.Background(), "text", "en")
		s.Error(err)
	})

	s.Run("malformed body", func() {
		mockHttpClient := &mocks.HttpClient{}
		mockHttpClient.On("Do", mock.AnythingOfType("*http.Request")).
			Return(nerBody("<html>gateway error</html>"), nil).Once()

		client := &spacyClient{url: "http://localhost:8000/ner", httpClient: mockHttpClient}
		_, err := client.Recognise(context.Background(), "text", "en")
		s.Error(err)
	})
}
