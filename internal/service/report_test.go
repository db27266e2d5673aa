package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sp3clock/internal/model"
	"sp3clock/internal/repository"
	repoMocks "sp3clock/internal/repository/mocks"
	"sp3clock/internal/storage"
	storeMocks "sp3clock/internal/storage/mocks"
)

func sampleResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		Analysis: model.Analysis{ID: "a-1", Start: day1, End: day2, Satellites: []string{"G01"}, Window: 7, Unit: "ns"},
		Satellites: []model.SatelliteResult{{
			SatelliteSummary: model.SatelliteSummary{Satellite: "G01", Points: 3},
			Raw:              []float64{1, 2, 3},
		}},
	}
}

func TestReportService_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("stores object then record", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockAnalysisRepository)

		mStore.On("Put", ctx, "analyses/a-1.json", mock.Anything, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
			return o.ContentType == ResultContentType && o.Size > 0
		})).Return(storage.ObjectInfo{Key: "analyses/a-1.json"}, nil)
		mRepo.On("Create", ctx, mock.MatchedBy(func(a *model.Analysis) bool {
			return a.ID == "a-1" && a.ResultPath == "analyses/a-1.json"
		})).Return(&model.Analysis{ID: "a-1", ResultPath: "analyses/a-1.json"}, nil)

		a, err := NewReportService(mStore, mRepo).Save(ctx, sampleResult())
		require.NoError(t, err)
		assert.Equal(t, "analyses/a-1.json", a.ResultPath)
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("rolls back object on db failure", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockAnalysisRepository)

		mStore.On("Put", ctx, "analyses/a-1.json", mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
		mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db down"))
		mStore.On("Delete", ctx, "analyses/a-1.json").Return(nil)

		_, err := NewReportService(mStore, mRepo).Save(ctx, sampleResult())
		assert.EqualError(t, err, "db save failed: db down")
		mStore.AssertExpectations(t)
	})

	t.Run("requires id", func(t *testing.T) {
		_, err := NewReportService(nil, nil).Save(ctx, &model.AnalysisResult{})
		assert.ErrorIs(t, err, ErrIDRequired)
	})
}

func TestReportService_List(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockAnalysisRepository)
	mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
		Return(&repository.PageResult[model.Analysis]{Items: []model.Analysis{{ID: "a"}}, Total: 1}, nil)

	res, err := NewReportService(nil, mRepo).List(ctx, 0, -3)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
}

func TestReportService_Get(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockAnalysisRepository)
	mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

	svc := NewReportService(nil, mRepo)
	_, err := svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(ctx, "")
	assert.ErrorIs(t, err, ErrIDRequired)
}

func TestReportService_LoadResult(t *testing.T) {
	ctx := context.Background()
	body, err := json.Marshal(sampleResult())
	require.NoError(t, err)

	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockAnalysisRepository)
	mRepo.On("FindByID", ctx, "a-1").Return(&model.Analysis{ID: "a-1", ResultPath: "analyses/a-1.json"}, nil)
	mStore.On("Get", ctx, "analyses/a-1.json").
		Return(io.NopCloser(bytes.NewReader(body)), storage.ObjectInfo{Size: int64(len(body))}, nil)

	res, err := NewReportService(mStore, mRepo).LoadResult(ctx, "a-1")
	require.NoError(t, err)
	require.Len(t, res.Satellites, 1)
	assert.Equal(t, []float64{1, 2, 3}, res.Satellites[0].Raw)
	assert.Equal(t, day1, res.Analysis.Start)
}

func TestReportService_OpenResult_MissingObject(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockAnalysisRepository)
	mRepo.On("FindByID", ctx, "a-1").Return(&model.Analysis{ID: "a-1"}, nil)
	mStore.On("Get", ctx, "analyses/a-1.json").Return(nil, storage.ObjectInfo{}, storage.ErrNotFound)

	_, _, err := NewReportService(mStore, mRepo).OpenResult(ctx, "a-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		setup   func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAnalysisRepository)
		wantErr error
		wantMsg string
	}{
		{
			name: "happy path",
			setup: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAnalysisRepository) {
				mRepo.On("FindByID", ctx, "a-1").Return(&model.Analysis{ID: "a-1", ResultPath: "analyses/a-1.json"}, nil)
				mStore.On("Delete", ctx, "analyses/a-1.json").Return(nil)
				mRepo.On("Delete", ctx, "a-1").Return(nil)
			},
		},
		{
			name: "object already gone",
			setup: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAnalysisRepository) {
				mRepo.On("FindByID", ctx, "a-1").Return(&model.Analysis{ID: "a-1"}, nil)
				mStore.On("Delete", ctx, "analyses/a-1.json").Return(storage.ErrNotFound)
				mRepo.On("Delete", ctx, "a-1").Return(nil)
			},
		},
		{
			name: "storage failure keeps record",
			setup: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAnalysisRepository) {
				mRepo.On("FindByID", ctx, "a-1").Return(&model.Analysis{ID: "a-1"}, nil)
				mStore.On("Delete", ctx, "analyses/a-1.json").Return(errors.New("boom"))
			},
			wantMsg: "delete storage: boom",
		},
		{
			name: "not found",
			setup: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockAnalysisRepository) {
				mRepo.On("FindByID", ctx, "a-1").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockAnalysisRepository)
			tt.setup(mStore, mRepo)

			err := NewReportService(mStore, mRepo).Delete(ctx, "a-1")
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantMsg != "":
				assert.EqualError(t, err, tt.wantMsg)
				mRepo.AssertNotCalled(t, "Delete", ctx, "a-1")
			default:
				assert.NoError(t, err)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}
