package mocks

import (
	"context"
	"io"

	"portfolioapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockPortfolioService struct {
	mock.Mock
}

func (m *MockPortfolioService) Upload(ctx context.Context, sessionID string, files []model.UploadFile) ([]model.LogicalImage, error) {
	args := m.Called(ctx, sessionID, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LogicalImage), args.Error(1)
}

func (m *MockPortfolioService) Compose(ctx context.Context, sessionID string, selections []model.Selection) (*model.Document, error) {
	args := m.Called(ctx, sessionID, selections)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockPortfolioService) Preview(ctx context.Context, sessionID, name string) (io.ReadCloser, model.PhysicalAsset, error) {
	args := m.Called(ctx, sessionID, name)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Get(1).(model.PhysicalAsset), args.Error(2)
}

func (m *MockPortfolioService) Sweep(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
