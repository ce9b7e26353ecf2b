package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/TiredBeer/tgBot/internal/models"
)

type SubmissionRepository interface {
	GetByStudentAndTask(studentID, taskID uuid.UUID) (*models.SubmittedTask, error)
	GetLastWork(studentID, taskID uuid.UUID) (*models.SubmittedTask, error)
	GetByID(id uuid.UUID) (*models.SubmittedTask, error)
	Upsert(studentID, taskID uuid.UUID, homeworkPrefix, codeURL string) (*models.SubmittedTask, error)
	Update(submission *models.SubmittedTask) error
	ListPendingByTeacher(teacherID uuid.UUID) ([]*models.SubmittedTask, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) GetByStudentAndTask(studentID, taskID uuid.UUID) (*models.SubmittedTask, error) {
	var submission models.SubmittedTask
	err := r.db.Where("student_id = ? AND task_id = ?", studentID, taskID).
		First(&submission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// GetLastWork возвращает сдачу вместе с заданием, преподавателем и студентом
func (r *submissionRepository) GetLastWork(studentID, taskID uuid.UUID) (*models.SubmittedTask, error) {
	var submission models.SubmittedTask
	err := r.db.Preload("Task").Preload("Task.Teacher").Preload("Student").
		Where("student_id = ? AND task_id = ?", studentID, taskID).
		First(&submission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) GetByID(id uuid.UUID) (*models.SubmittedTask, error) {
	var submission models.SubmittedTask
	err := r.db.Preload("Task").Preload("Task.Teacher").Preload("Student").
		First(&submission, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// Upsert записывает сдачу работы. На пару (студент, задание) существует
// не больше одной строки: повторная сдача обновляет существующую запись,
// сбрасывает статус на pending_review и двигает last_modified_at,
// сохраняя дату первой сдачи и прошлую оценку с комментарием до
// следующей проверки.
func (r *submissionRepository) Upsert(studentID, taskID uuid.UUID, homeworkPrefix, codeURL string) (*models.SubmittedTask, error) {
	now := time.Now()

	existing, err := r.GetByStudentAndTask(studentID, taskID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.Status = models.StatusPendingReview
		existing.HomeworkPrefix = homeworkPrefix
		existing.CodeURL = codeURL
		existing.LastModifiedAt = now
		if err := r.db.Save(existing).Error; err != nil {
			return nil, err
		}
		return existing, nil
	}

	submission := &models.SubmittedTask{
		ID:             uuid.New(),
		StudentID:      studentID,
		TaskID:         taskID,
		Status:         models.StatusPendingReview,
		HomeworkPrefix: homeworkPrefix,
		CodeURL:        codeURL,
		Grade:          0,
		Comment:        "",
		SubmittedAt:    now,
		LastModifiedAt: now,
	}
	if err := r.db.Create(submission).Error; err != nil {
		return nil, err
	}
	return submission, nil
}

func (r *submissionRepository) Update(submission *models.SubmittedTask) error {
	return r.db.Save(submission).Error
}

// ListPendingByTeacher возвращает непроверенные работы по заданиям преподавателя
func (r *submissionRepository) ListPendingByTeacher(teacherID uuid.UUID) ([]*models.SubmittedTask, error) {
	var submissions []*models.SubmittedTask
	err := r.db.Preload("Task").Preload("Student").
		Joins("JOIN tasks ON tasks.id = submitted_tasks.task_id").
		Where("tasks.teacher_id = ? AND submitted_tasks.status = ?", teacherID, models.StatusPendingReview).
		Order("submitted_tasks.last_modified_at ASC").
		Find(&submissions).Error
	return submissions, err
}
