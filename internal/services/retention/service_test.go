package retention

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/common"
	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
)

type MockDocuments struct {
	interfaces.DocumentStorage
	mock.Mock
}

func (m *MockDocuments) DeleteDocumentsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

func TestNewService_InvalidMaxAge(t *testing.T) {
	_, err := NewService(new(MockDocuments), common.RetentionConfig{MaxAge: "forever"}, arbor.NewLogger())
	assert.Error(t, err)

	_, err = NewService(new(MockDocuments), common.RetentionConfig{MaxAge: "-1h"}, arbor.NewLogger())
	assert.Error(t, err)
}

func TestRunNow_UsesCutoff(t *testing.T) {
	docs := new(MockDocuments)
	s, err := NewService(docs, common.RetentionConfig{MaxAge: "24h"}, arbor.NewLogger())
	require.NoError(t, err)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	docs.On("DeleteDocumentsBefore", mock.Anything, now.Add(-24*time.Hour)).Return(3, nil)

	removed, err := s.RunNow(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, removed)
	docs.AssertExpectations(t)
}

func TestRunNow_StorageError(t *testing.T) {
	docs := new(MockDocuments)
	s, err := NewService(docs, common.RetentionConfig{MaxAge: "1h"}, arbor.NewLogger())
	require.NoError(t, err)
	docs.On("DeleteDocumentsBefore", mock.Anything, mock.Anything).Return(0, errors.New("disk error"))

	_, err = s.RunNow(context.Background())

	assert.ErrorContains(t, err, "disk error")
}

func TestStart_RejectsInvalidSchedule(t *testing.T) {
	s, err := NewService(new(MockDocuments), common.RetentionConfig{MaxAge: "1h"}, arbor.NewLogger())
	require.NoError(t, err)

	assert.Error(t, s.Start("every day"))

	require.NoError(t, s.Start("0 */5 * * * *"))
	s.Stop()
}
