package interactions

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gigradar/gigradar/internal/app/models"
)

type MockInteractionRepo struct {
	mock.Mock
}

func (m *MockInteractionRepo) Add(ctx context.Context, interaction models.Interaction) (uuid.UUID, error) {
	args := m.Called(ctx, interaction)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockInteractionRepo) CountByTarget(ctx context.Context, targetType models.TargetType, targetID uuid.UUID, interactionType models.InteractionType) (int64, error) {
	args := m.Called(ctx, targetType, targetID, interactionType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInteractionRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInteractionRepo) GetUserLikedArtistIDs(ctx context.Context, userID string, limit int) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockInteractionRepo) ListUsersWithLikes(ctx context.Context, limit int) ([]models.UserLikes, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserLikes), args.Error(1)
}

type MockArtistChecker struct {
	mock.Mock
}

func (m *MockArtistChecker) GetByID(ctx context.Context, id uuid.UUID) (*models.Artist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artist), args.Error(1)
}

type MockEventChecker struct {
	mock.Mock
}

func (m *MockEventChecker) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func TestRecordValidation(t *testing.T) {
	artistID := uuid.New()

	tests := []struct {
		name        string
		interaction models.Interaction
		expectedErr error
	}{
		{
			name: "anonymous caller",
			interaction: models.Interaction{
				Type: models.InteractionFavoriteArtist, TargetType: models.TargetArtist, TargetID: artistID,
			},
			expectedErr: models.ErrUnauthenticated,
		},
		{
			name: "unknown type",
			interaction: models.Interaction{
				UserID: "u1", Type: "applaud", TargetType: models.TargetArtist, TargetID: artistID,
			},
			expectedErr: models.ErrValidation,
		},
		{
			name: "favorite on an event",
			interaction: models.Interaction{
				UserID: "u1", Type: models.InteractionFavoriteArtist, TargetType: models.TargetEvent, TargetID: artistID,
			},
			expectedErr: models.ErrValidation,
		},
		{
			name: "save on an artist",
			interaction: models.Interaction{
				UserID: "u1", Type: models.InteractionSaveEvent, TargetType: models.TargetArtist, TargetID: artistID,
			},
			expectedErr: models.ErrValidation,
		},
		{
			name: "nil target id",
			interaction: models.Interaction{
				UserID: "u1", Type: models.InteractionFavoriteArtist, TargetType: models.TargetArtist,
			},
			expectedErr: models.ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(new(MockInteractionRepo), new(MockArtistChecker), new(MockEventChecker), zap.NewNop())

			_, err := svc.Record(context.Background(), tt.interaction)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestRecordMissingTarget(t *testing.T) {
	repo := new(MockInteractionRepo)
	artists := new(MockArtistChecker)
	svc := NewService(repo, artists, new(MockEventChecker), zap.NewNop())

	artistID := uuid.New()
	artists.On("GetByID", mock.Anything, artistID).Return(nil, models.ErrNotFound)

	_, err := svc.Record(context.Background(), models.Interaction{
		UserID: "u1", Type: models.InteractionFavoriteArtist,
		TargetType: models.TargetArtist, TargetID: artistID,
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestRecordAppendsToLog(t *testing.T) {
	repo := new(MockInteractionRepo)
	events := new(MockEventChecker)
	svc := NewService(repo, new(MockArtistChecker), events, zap.NewNop())

	eventID := uuid.New()
	recordID := uuid.New()
	events.On("GetByID", mock.Anything, eventID).Return(&models.Event{ID: eventID}, nil)
	repo.On("Add", mock.Anything, mock.Anything).Return(recordID, nil)

	id, err := svc.Record(context.Background(), models.Interaction{
		UserID: "u1", Type: models.InteractionSaveEvent,
		TargetType: models.TargetEvent, TargetID: eventID,
	})
	require.NoError(t, err)
	assert.Equal(t, recordID, id)
}
