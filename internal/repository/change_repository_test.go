package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TiredBeer/tgBot/internal/models"
)

func TestFetchOldestRespectsLimitAndOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewChangeRepository(db)
	student, task := seedStudentAndTask(t, db)

	submissionRepo := NewSubmissionRepository(db)
	submission, err := submissionRepo.Upsert(student.ID, task.ID, "prefix/", "")
	require.NoError(t, err)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 30; i++ {
		change := &models.SubmissionChange{
			ID:              uuid.New(),
			SubmittedTaskID: submission.ID,
			CreatedAt:       base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, db.Create(change).Error)
	}

	changes, err := repo.FetchOldest(25)
	require.NoError(t, err)
	require.Len(t, changes, 25)

	for i := 1; i < len(changes); i++ {
		assert.False(t, changes[i].CreatedAt.Before(changes[i-1].CreatedAt))
	}

	// Связи подтянуты заранее
	require.NotNil(t, changes[0].SubmittedTask)
	assert.Equal(t, task.Topic, changes[0].SubmittedTask.Task.Topic)
	assert.Equal(t, student.TelegramID, changes[0].SubmittedTask.Student.TelegramID)
}

func TestDiscardBatch(t *testing.T) {
	db := newTestDB(t)
	repo := NewChangeRepository(db)
	student, task := seedStudentAndTask(t, db)

	submissionRepo := NewSubmissionRepository(db)
	submission, err := submissionRepo.Upsert(student.ID, task.ID, "prefix/", "")
	require.NoError(t, err)

	require.NoError(t, repo.Create(submission.ID))
	require.NoError(t, repo.Create(submission.ID))

	changes, err := repo.FetchOldest(10)
	require.NoError(t, err)
	require.Len(t, changes, 2)

	require.NoError(t, repo.DiscardBatch([]uuid.UUID{changes[0].ID}))

	remaining, err := repo.FetchOldest(10)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, changes[1].ID, remaining[0].ID)

	// Пустая пачка — допустимый no-op
	require.NoError(t, repo.DiscardBatch(nil))
}

func TestFetchOldestDanglingSubmission(t *testing.T) {
	db := newTestDB(t)
	repo := NewChangeRepository(db)

	// Запись очереди указывает на несуществующую сдачу
	change := &models.SubmissionChange{
		ID:              uuid.New(),
		SubmittedTaskID: uuid.New(),
		CreatedAt:       time.Now(),
	}
	require.NoError(t, db.Create(change).Error)

	changes, err := repo.FetchOldest(10)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Nil(t, changes[0].SubmittedTask)
}
