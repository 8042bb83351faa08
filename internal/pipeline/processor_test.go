package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/submittal-review/constants"
	"github.com/joseph-ayodele/submittal-review/internal/common"
	"github.com/joseph-ayodele/submittal-review/internal/extract"
	"github.com/joseph-ayodele/submittal-review/internal/llm"
	"github.com/joseph-ayodele/submittal-review/internal/pipeline/mocks"
)

const legacyAnswer = "1. Type of submittal content provided:\n" +
	"Product data\n" +
	"2. Compliance review of submitted content:\n" +
	"Meets 2.1.A\n" +
	"3. Missing requirements:\n" +
	"Additional Submittals Required: shop drawings\n" +
	"4. Recommendation:\n" +
	"Approve"

const detailedAnswer = `{
  "submittalSummary": "Geotextile product data",
  "applicableSpecs": "31 05 19",
  "complianceAssessment": [{"requirement": "Grab tensile 120 lb", "submittalInfo": "120 lb", "status": "COMPLIANT"}],
  "criticalIssues": "No critical issues identified",
  "recommendation": {"decision": "APPROVE", "comments": "OK"}
}`

func text(s string) extract.TextExtractionResult {
	return extract.TextExtractionResult{Text: s, Pages: 1, Method: "pdf-text"}
}

func newTestProcessor(t *testing.T, ex *mocks.MockTextExtractor, c *mocks.MockCompleter) (*Processor, *Metrics) {
	t.Helper()
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	return NewProcessor(Config{}, ex, c, m, nil), m
}

func baseInput(protocol constants.ProtocolVersion) AnalyzeInput {
	return AnalyzeInput{
		SubmittalPath: "/tmp/sub.pdf",
		SubmittalName: "sub.pdf",
		SpecPath:      "/tmp/spec.pdf",
		SpecName:      "spec.pdf",
		APIKey:        "sk-test",
		Protocol:      protocol,
	}
}

func TestAnalyze_SimpleProtocol(t *testing.T) {
	ex := new(mocks.MockTextExtractor)
	ex.On("Extract", mock.Anything, "/tmp/sub.pdf").Return(text("SUBMITTAL BODY"), nil).Once()
	ex.On("Extract", mock.Anything, "/tmp/spec.pdf").Return(text("SPEC BODY"), nil).Once()

	var got llm.CompletionRequest
	c := new(mocks.MockCompleter)
	c.On("Complete", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(llm.CompletionRequest) }).
		Return(legacyAnswer, nil).Once()

	p, m := newTestProcessor(t, ex, c)
	out, err := p.Analyze(context.Background(), baseInput(constants.ProtocolSimple))
	require.NoError(t, err)

	assert.Equal(t, "gpt-4", out.Model)
	assert.Equal(t, "gpt-4", got.Model)
	assert.Equal(t, llm.FormatText, got.ResponseFormat)
	assert.Equal(t, constants.DefaultMaxTokens, got.MaxTokens)
	assert.Equal(t, "sk-test", got.APIKey.Reveal())
	require.Len(t, got.Messages, 2)
	assert.Contains(t, got.Messages[1].Content, "SPEC BODY")
	assert.Contains(t, got.Messages[1].Content, "SUBMITTAL BODY")

	assert.False(t, out.Result.ParseFailed)
	assert.Equal(t, "Product data", out.Result.Legacy.ContentType)
	assert.Equal(t, "Approve", out.Result.Legacy.Recommendation)
	assert.Equal(t, "SUBMITTAL BODY", out.SubmittalText)
	assert.Equal(t, "SPEC BODY", out.SpecText)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.extractions.WithLabelValues("pdf-text")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.providerCalls.WithLabelValues("ok")))
	ex.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestAnalyze_DetailedProtocol(t *testing.T) {
	ex := new(mocks.MockTextExtractor)
	ex.On("Extract", mock.Anything, mock.Anything).Return(text("body"), nil)

	var got llm.CompletionRequest
	c := new(mocks.MockCompleter)
	c.On("Complete", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(llm.CompletionRequest) }).
		Return(detailedAnswer, nil).Once()

	p, _ := newTestProcessor(t, ex, c)
	out, err := p.Analyze(context.Background(), baseInput(constants.ProtocolDetailed))
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", got.Model)
	assert.Equal(t, llm.FormatJSONObject, got.ResponseFormat)
	assert.False(t, out.Result.ParseFailed)
	assert.Equal(t, constants.Approve, out.Result.Review.Recommendation.Decision)
	require.Len(t, out.Result.Review.ComplianceAssessment, 1)
	assert.Equal(t, constants.Compliant, out.Result.Review.ComplianceAssessment[0].Status)
}

func TestAnalyze_ExplicitModelWins(t *testing.T) {
	ex := new(mocks.MockTextExtractor)
	ex.On("Extract", mock.Anything, mock.Anything).Return(text("body"), nil)
	c := new(mocks.MockCompleter)
	c.On("Complete", mock.Anything, mock.MatchedBy(func(r llm.CompletionRequest) bool {
		return r.Model == "gpt-3.5-turbo"
	})).Return(legacyAnswer, nil).Once()

	p, _ := newTestProcessor(t, ex, c)
	in := baseInput(constants.ProtocolSimple)
	in.ModelID = " gpt-3.5-turbo "
	out, err := p.Analyze(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "gpt-3.5-turbo", out.Model)
	c.AssertExpectations(t)
}

func TestAnalyze_ExtractionFailureSkipsProvider(t *testing.T) {
	ex := new(mocks.MockTextExtractor)
	ex.On("Extract", mock.Anything, "/tmp/sub.pdf").Return(text("body"), nil).Maybe()
	ex.On("Extract", mock.Anything, "/tmp/spec.pdf").
		Return(extract.TextExtractionResult{}, errors.New("not a pdf")).Once()
	c := new(mocks.MockCompleter)

	p, _ := newTestProcessor(t, ex, c)
	_, err := p.Analyze(context.Background(), baseInput(constants.ProtocolDetailed))

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrExtraction)
	var xerr *common.ExtractionError
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, "/tmp/spec.pdf", xerr.Path)
	c.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestAnalyze_ProviderErrorPropagates(t *testing.T) {
	ex := new(mocks.MockTextExtractor)
	ex.On("Extract", mock.Anything, mock.Anything).Return(text("body"), nil)
	c := new(mocks.MockCompleter)
	c.On("Complete", mock.Anything, mock.Anything).Return("", &common.ProviderError{
		Kind:       common.ProviderStatus,
		StatusCode: 401,
		Message:    "Incorrect API key provided",
	}).Once()

	p, m := newTestProcessor(t, ex, c)
	_, err := p.Analyze(context.Background(), baseInput(constants.ProtocolSimple))

	var perr *common.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 401, perr.StatusCode)
	assert.Equal(t, 500, common.HTTPStatus(err))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.providerCalls.WithLabelValues("status")))
}

func TestAnalyze_UnusableOutputIsNotAnError(t *testing.T) {
	ex := new(mocks.MockTextExtractor)
	ex.On("Extract", mock.Anything, mock.Anything).Return(text("body"), nil)
	c := new(mocks.MockCompleter)
	c.On("Complete", mock.Anything, mock.Anything).Return("I cannot help with that.", nil).Once()

	p, m := newTestProcessor(t, ex, c)
	out, err := p.Analyze(context.Background(), baseInput(constants.ProtocolDetailed))

	require.NoError(t, err)
	assert.True(t, out.Result.ParseFailed)
	assert.NotEmpty(t, out.Result.Warnings)
	assert.NotNil(t, out.Result.Review.ComplianceAssessment)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.parseFailures.WithLabelValues("detailed")))
}

func TestAnalyze_TruncationIsReported(t *testing.T) {
	long := strings.Repeat("x", constants.SimpleTextBudget+10)
	ex := new(mocks.MockTextExtractor)
	ex.On("Extract", mock.Anything, "/tmp/sub.pdf").Return(text("short"), nil)
	ex.On("Extract", mock.Anything, "/tmp/spec.pdf").Return(text(long), nil)

	var got llm.CompletionRequest
	c := new(mocks.MockCompleter)
	c.On("Complete", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(llm.CompletionRequest) }).
		Return(legacyAnswer, nil).Once()

	p, _ := newTestProcessor(t, ex, c)
	out, err := p.Analyze(context.Background(), baseInput(constants.ProtocolSimple))
	require.NoError(t, err)

	assert.Contains(t, out.Result.Warnings, "specification text truncated to 2000 characters")
	assert.Contains(t, got.Messages[1].Content, constants.TruncationNotice)
	assert.Equal(t, long, out.SpecText)
}

func TestAnalyze_MissingInputs(t *testing.T) {
	ex := new(mocks.MockTextExtractor)
	c := new(mocks.MockCompleter)
	p, _ := newTestProcessor(t, ex, c)

	in := baseInput(constants.ProtocolSimple)
	in.SpecPath = ""
	_, err := p.Analyze(context.Background(), in)
	assert.Equal(t, 400, common.HTTPStatus(err))

	in = baseInput(constants.ProtocolSimple)
	in.APIKey = ""
	_, err = p.Analyze(context.Background(), in)
	var ve *common.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "api_key", ve.Field)

	ex.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	c.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestChat(t *testing.T) {
	var got llm.CompletionRequest
	c := new(mocks.MockCompleter)
	c.On("Complete", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(llm.CompletionRequest) }).
		Return("Because the data sheet lists 120 lb.", nil).Once()

	p, _ := newTestProcessor(t, new(mocks.MockTextExtractor), c)
	out, err := p.Chat(context.Background(), llm.ChatTurn{
		SubmittalContext: "sub ctx",
		SpecContext:      "spec ctx",
		Message:          "Why approve?",
		APIKey:           "sk-test",
	})
	require.NoError(t, err)

	assert.Equal(t, "Because the data sheet lists 120 lb.", out)
	assert.Equal(t, "gpt-4", got.Model)
	assert.Equal(t, llm.FormatText, got.ResponseFormat)
	require.Len(t, got.Messages, 2)
	assert.True(t, strings.HasSuffix(got.Messages[1].Content, "Follow-up question: Why approve?"))
}

func TestChat_MissingFields(t *testing.T) {
	c := new(mocks.MockCompleter)
	p, _ := newTestProcessor(t, new(mocks.MockTextExtractor), c)

	_, err := p.Chat(context.Background(), llm.ChatTurn{APIKey: "sk-test"})
	assert.Equal(t, 400, common.HTTPStatus(err))
	_, err = p.Chat(context.Background(), llm.ChatTurn{Message: "hi"})
	assert.Equal(t, 400, common.HTTPStatus(err))
	c.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}
