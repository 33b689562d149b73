package mocks

import (
	"context"

	"portfolioapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockSuggester struct {
	mock.Mock
}

func (m *MockSuggester) Suggest(ctx context.Context, instruction string) (model.Suggestion, error) {
	args := m.Called(ctx, instruction)
	return args.Get(0).(model.Suggestion), args.Error(1)
}

func (m *MockSuggester) Available() bool {
	args := m.Called()
	return args.Bool(0)
}
