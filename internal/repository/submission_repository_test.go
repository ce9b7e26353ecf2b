package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/TiredBeer/tgBot/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Group{},
		&models.Course{},
		&models.Teacher{},
		&models.TeacherCourse{},
		&models.Student{},
		&models.Task{},
		&models.SubmittedTask{},
		&models.SubmissionChange{},
	))
	return db
}

func seedStudentAndTask(t *testing.T, db *gorm.DB) (*models.Student, *models.Task) {
	t.Helper()

	teacher := &models.Teacher{
		ID:           uuid.New(),
		Login:        "teacher",
		Name:         "Иван Иванов",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(teacher).Error)

	course := &models.Course{ID: uuid.New(), Name: "Теория вероятностей", PasswordHash: "x"}
	require.NoError(t, db.Create(course).Error)

	group := &models.Group{ID: uuid.New(), Name: "МЕН-230201"}
	require.NoError(t, db.Create(group).Error)

	student := &models.Student{
		ID:         uuid.New(),
		TelegramID: 1001,
		Name:       "Петр Петров",
		GroupID:    group.ID,
		CourseID:   course.ID,
	}
	require.NoError(t, db.Create(student).Error)

	task := &models.Task{
		ID:        uuid.New(),
		Topic:     "Вероятность-1",
		TaskLink:  "https://example.com/tasks/1",
		Deadline:  time.Now().AddDate(0, 0, 7),
		TeacherID: teacher.ID,
		CourseID:  course.ID,
		Kind:      models.TaskKindHomework,
	}
	require.NoError(t, db.Create(task).Error)

	return student, task
}

func TestUpsertCreatesSingleRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubmissionRepository(db)
	student, task := seedStudentAndTask(t, db)

	first, err := repo.Upsert(student.ID, task.ID, "prefix/a/", "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingReview, first.Status)

	_, err = repo.Upsert(student.ID, task.ID, "prefix/a/", "")
	require.NoError(t, err)
	_, err = repo.Upsert(student.ID, task.ID, "prefix/a/", "https://colab.example.com/x")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.SubmittedTask{}).
		Where("student_id = ? AND task_id = ?", student.ID, task.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpsertPreservesFirstSubmissionDate(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubmissionRepository(db)
	student, task := seedStudentAndTask(t, db)

	first, err := repo.Upsert(student.ID, task.ID, "prefix/a/", "")
	require.NoError(t, err)

	// Работу проверили
	first.Status = models.StatusReviewed
	first.Grade = 8
	first.Comment = "Хорошо"
	require.NoError(t, repo.Update(first))

	time.Sleep(10 * time.Millisecond)

	second, err := repo.Upsert(student.ID, task.ID, "prefix/a/", "")
	require.NoError(t, err)

	// Пересдача: статус снова на проверке, дата первой сдачи не тронута,
	// прошлая оценка и комментарий видны до новой проверки
	assert.Equal(t, models.StatusPendingReview, second.Status)
	assert.WithinDuration(t, first.SubmittedAt, second.SubmittedAt, time.Millisecond)
	assert.True(t, second.LastModifiedAt.After(second.SubmittedAt))
	assert.Equal(t, 8, second.Grade)
	assert.Equal(t, "Хорошо", second.Comment)
}

func TestGetByStudentAndTaskNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubmissionRepository(db)

	_, err := repo.GetByStudentAndTask(uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPendingByTeacher(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubmissionRepository(db)
	student, task := seedStudentAndTask(t, db)

	submission, err := repo.Upsert(student.ID, task.ID, "prefix/a/", "")
	require.NoError(t, err)

	pending, err := repo.ListPendingByTeacher(task.TeacherID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, submission.ID, pending[0].ID)

	// Проверенная работа уходит из списка
	submission.Status = models.StatusReviewed
	require.NoError(t, repo.Update(submission))

	pending, err = repo.ListPendingByTeacher(task.TeacherID)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestListCoursesByTelegramID(t *testing.T) {
	db := newTestDB(t)
	studentRepo := NewStudentRepository(db)

	courseA := &models.Course{ID: uuid.New(), Name: "A", PasswordHash: "x"}
	courseB := &models.Course{ID: uuid.New(), Name: "B", PasswordHash: "x"}
	courseC := &models.Course{ID: uuid.New(), Name: "C", PasswordHash: "x"}
	require.NoError(t, db.Create(&[]*models.Course{courseA, courseB, courseC}).Error)

	group := &models.Group{ID: uuid.New(), Name: "G"}
	require.NoError(t, db.Create(group).Error)

	// Студент записан на A и B, но не на C
	for _, course := range []*models.Course{courseA, courseB} {
		require.NoError(t, studentRepo.Create(&models.Student{
			TelegramID: 42,
			Name:       "Student",
			GroupID:    group.ID,
			CourseID:   course.ID,
		}))
	}

	courses, err := studentRepo.ListCoursesByTelegramID(42)
	require.NoError(t, err)
	require.Len(t, courses, 2)

	names := []string{courses[0].Name, courses[1].Name}
	assert.ElementsMatch(t, []string{"A", "B"}, names)
}
