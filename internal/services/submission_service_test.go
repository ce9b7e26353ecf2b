package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/TiredBeer/tgBot/internal/models"
	"github.com/TiredBeer/tgBot/internal/repository"
	"github.com/TiredBeer/tgBot/pkg/storage"
)

// memObjects — ObjectClient в памяти для тестов сервиса
type memObjects struct {
	objects map[string][]byte
	failPut bool
}

func newMemObjects() *memObjects {
	return &memObjects{objects: make(map[string][]byte)}
}

func (c *memObjects) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	for key := range c.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (c *memObjects) Put(_ context.Context, key string, content []byte, _ string) error {
	if c.failPut {
		return errors.New("put failed")
	}
	c.objects[key] = content
	return nil
}

func (c *memObjects) Get(_ context.Context, key string) ([]byte, error) {
	content, ok := c.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return content, nil
}

func (c *memObjects) Delete(_ context.Context, key string) error {
	delete(c.objects, key)
	return nil
}

func newSubmissionFixture(t *testing.T) (SubmissionService, *memObjects, *gorm.DB, *models.SubmittedTask) {
	t.Helper()
	db := newTestDB(t)
	submission := seedSubmission(t, db)
	objects := newMemObjects()
	service := NewSubmissionService(repository.NewSubmissionRepository(db), storage.NewStorage(objects))
	return service, objects, db, submission
}

func TestBuildPrefixScheme(t *testing.T) {
	service, _, db, submission := newSubmissionFixture(t)

	var task models.Task
	require.NoError(t, db.First(&task, "id = ?", submission.TaskID).Error)

	prefix := service.BuildPrefix(task.CourseID, task.Topic, models.TaskKindHomework, submission.StudentID)
	expected := fmt.Sprintf("%s/%s/homework/%s/", task.CourseID, task.Topic, submission.StudentID)
	assert.Equal(t, expected, prefix)

	gravesPrefix := service.BuildPrefix(task.CourseID, task.Topic, models.TaskKindGraves, submission.StudentID)
	assert.Contains(t, gravesPrefix, "/graves/")
}

func TestUploadFilesFailureLeavesRecordUntouched(t *testing.T) {
	service, objects, db, submission := newSubmissionFixture(t)
	objects.failPut = true

	var task models.Task
	require.NoError(t, db.Preload("Teacher").First(&task, "id = ?", submission.TaskID).Error)

	before := submission.LastModifiedAt

	_, err := service.UploadFiles(context.Background(), submission.StudentID, &task, []storage.File{
		{Name: "solution.pdf", Content: []byte("x")},
	})
	require.ErrorIs(t, err, ErrUploadFailed)

	var after models.SubmittedTask
	require.NoError(t, db.First(&after, "id = ?", submission.ID).Error)
	assert.WithinDuration(t, before, after.LastModifiedAt, time.Millisecond)
	assert.Equal(t, models.StatusReviewed, after.Status)
}

func TestSaveSubmissionRequiresFilesOrLink(t *testing.T) {
	service, _, _, submission := newSubmissionFixture(t)

	_, err := service.SaveSubmission(submission.StudentID, submission.TaskID, "", "")
	assert.ErrorIs(t, err, ErrNothingSubmitted)
}

func TestRenderLastWorkReviewed(t *testing.T) {
	service, objects, _, submission := newSubmissionFixture(t)

	prefix := "course/topic/homework/student/"
	objects.objects[prefix+"solution.pdf"] = []byte("pdf-bytes")

	_, err := service.SaveSubmission(submission.StudentID, submission.TaskID, prefix, "")
	require.NoError(t, err)

	// Сдачу проверили заново
	lastWork, err := service.GetLastWork(submission.StudentID, submission.TaskID)
	require.NoError(t, err)

	view, err := service.RenderLastWork(context.Background(), submission.StudentID, submission.TaskID)
	require.NoError(t, err)

	assert.Contains(t, view.Text, "Тема: Вероятность-1")
	assert.Contains(t, view.Text, "Статус: На проверке")
	require.Len(t, view.Files, 1)
	assert.Equal(t, "solution.pdf", view.Files[0].Name)
	assert.Equal(t, models.StatusPendingReview, lastWork.Status)

	// Пересдача после проверки показывает прошлую оценку
	assert.Contains(t, view.Text, "Исправления по заданию успешно отправлены")
	assert.Contains(t, view.Text, "Оценка: 9")
}

func TestRenderLastWorkWithCodeLinkOnly(t *testing.T) {
	service, _, _, submission := newSubmissionFixture(t)

	_, err := service.SaveSubmission(submission.StudentID, submission.TaskID, "", "https://colab.example.com/x")
	require.NoError(t, err)

	view, err := service.RenderLastWork(context.Background(), submission.StudentID, submission.TaskID)
	require.NoError(t, err)

	assert.Contains(t, view.Text, "Ссылка на код: https://colab.example.com/x")
	assert.Empty(t, view.Files)
}
