package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/joseph-ayodele/submittal-review/internal/llm"
)

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
