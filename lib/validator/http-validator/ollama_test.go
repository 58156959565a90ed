package http_validator

import (
	"context"
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/privasend/privasend/lib/mocks"
)

type ollamaSuite struct {
	suite.Suite
}

func TestOllamaSuite(t *testing.T) {
	suite.Run(t, new(ollamaSuite))
}

func ollamaResponse(inner string) *http.Response {
	b, _ := json.Marshal(map[string]string{"response": inner})
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       ioutil.NopCloser(strings.NewReader(string(b))),
	}
}

func (s *ollamaSuite) TestJudgeParsesVerdict() {
	mockHttpClient := &mocks.HttpClient{}
	mockHttpClient.On("Do", mock.AnythingOfType("*http.Request")).
		Return(ollamaResponse(`{"is_pii": true, "confidence": 0.9}`), nil).Once()

	oracle := &ollamaOracle{url: "http://localhost:11434", model: "llama3.2", httpClient: mockHttpClient}
	judgment, err := oracle.Judge(context.Background(), "SSN", "123-45-6789", "SSN: 123-45-6789")

	s.Require().NoError(err)
	s.True(judgment.IsPII)
	s.Equal(0.9, judgment.Confidence)
	mockHttpClient.AssertExpectations(s.T())
}

func (s *ollamaSuite) TestJudgeSendsGenerateRequest() {
	var captured *http.Request
	mockHttpClient := &mocks.HttpClient{}
	mockHttpClient.On("Do", mock.AnythingOfType("*http.Request")).
		Run(func(args mock.Arguments) { captured = args.Get(0).(*http.Request) }).
		Return(ollamaResponse(`{"is_pii": false, "confidence": 0.2}`), nil).Once()

	oracle := &ollamaOracle{url: "http://localhost:11434", model: "llama3.2", httpClient: mockHttpClient}
	_, err := oracle.Judge(context.Background(), "PHONE", "(555) 123-4567", "call (555) 123-4567 now")
	s.Require().NoError(err)

	s.Equal(http.MethodPost, captured.Method)
	s.Equal("/api/generate", captured.URL.Path)

	body, err := ioutil.ReadAll(captured.Body)
	s.Require().NoError(err)
	var req generateRequest
	s.Require().NoError(json.Unmarshal(body, &req))
	s.Equal("llama3.2", req.Model)
	s.False(req.Stream)
	s.Contains(req.Prompt, "(555) 123-4567")
	s.Contains(req.Prompt, "PHONE")
	s.Contains(req.System, "NOT identify new entities")
}

func (s *ollamaSuite) TestJudgeToleratesFencedJSON() {
	mockHttpClient := &mocks.HttpClient{}
	mockHttpClient.On("Do", mock.AnythingOfType("*http.Request")).
		Return(ollamaResponse("```json\n{\"is_pii\": true, \"confidence\": 0.75}\n```"), nil).Once()

	oracle := &ollamaOracle{url: "http://localhost:11434", model: "llama3.2", httpClient: mockHttpClient}
	judgment, err := oracle.Judge(context.Background(), "PAN", "ABCDE1234F", "PAN ABCDE1234F")

	s.Require().NoError(err)
	s.True(judgment.IsPII)
	s.Equal(0.75, judgment.Confidence)
}

func (s *ollamaSuite) TestJudgeErrors() {
	s.Run("transport failure", func() {
		mockHttpClient := &mocks.HttpClient{}
		mockHttpClient.On("Do", mock.AnythingOfType("*http.Request")).
			Return(nil, errors.New("connection refused")).Once()

		oracle := &ollamaOracle{url: "http://localhost:11434", model: "llama3.2", httpClient: mockHttpClient}
		_, err := oracle.Judge(context.Background(), "SSN", "123-45-6789", "")
		s.Error(err)
	})

	s.Run("non-200 status", func() {
		mockHttpClient := &mocks.HttpClient{}
		mockHttpClient.On("Do", mock.AnythingOfType("*http.Request")).
			Return(&http.Response{
				StatusCode: http.StatusServiceUnavailable,
				Body:       ioutil.NopCloser(strings.NewReader("")),
			}, nil).Once()

		oracle := &ollamaOracle{url: "http://localhost:11434", model: "llama3.2", httpClient: mockHttpClient}
		_, err := oracle.Judge(context.Background(), "SSN", "123-45-6789", "")
		s.Error(err)
	})

	s.Run("unparsable verdict", func() {
		mockHttpClient := &mocks.HttpClient{}
		mockHttpClient.On("Do", mock.AnythingOfType("*http.Request")).
			Return(ollamaResponse("I think this is probably PII."), nil).Once()

		oracle := &ollamaOracle{url: "http://localhost:11434", model: "llama3.2", httpClient: mockHttpClient}
		_, err := oracle.Judge(context.Background(), "SSN", "123-45-6789", "")
		s.Error(err)
	})
}

func TestParseJudgmentFenceVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"bare json", `{"is_pii": true, "confidence": 0.5}`, true},
		{"fenced with language", "```json\n{\"is_pii\": false, \"confidence\": 0.1}\n```", true},
		{"fenced without language", "```\n{\"is_pii\": true, \"confidence\": 0.8}\n```", true},
		{"prose", "definitely PII", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseJudgment(tt.raw)
			if tt.ok && err != nil {
				t.Fatalf("expected parse to succeed, got %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("expected parse to fail")
			}
		})
	}
}
