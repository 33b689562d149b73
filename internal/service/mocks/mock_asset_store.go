package mocks

import (
	"context"
	"io"
	"time"

	"portfolioapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) Stage(ctx context.Context, sessionID string, files []model.UploadFile) ([]model.LogicalImage, error) {
	args := m.Called(ctx, sessionID, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LogicalImage), args.Error(1)
}

func (m *MockAssetStore) Resolve(ctx context.Context, sessionID, name string) (model.PhysicalAsset, error) {
	args := m.Called(ctx, sessionID, name)
	return args.Get(0).(model.PhysicalAsset), args.Error(1)
}

func (m *MockAssetStore) Open(ctx context.Context, asset model.PhysicalAsset) (io.ReadCloser, error) {
	args := m.Called(ctx, asset)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func (m *MockAssetStore) Session(ctx context.Context, sessionID string) (*model.UploadSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadSession), args.Error(1)
}

func (m *MockAssetStore) PurgeSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockAssetStore) SweepStale(ctx context.Context, maxAge time.Duration) (int, error) {
	args := m.Called(ctx, maxAge)
	return args.Int(0), args.Error(1)
}
