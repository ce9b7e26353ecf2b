package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/TiredBeer/tgBot/internal/models"
)

type ChangeRepository interface {
	Create(submittedTaskID uuid.UUID) error
	FetchOldest(limit int) ([]*models.SubmissionChange, error)
	DiscardBatch(ids []uuid.UUID) error
}

type changeRepository struct {
	db *gorm.DB
}

func NewChangeRepository(db *gorm.DB) ChangeRepository {
	return &changeRepository{db: db}
}

func (r *changeRepository) Create(submittedTaskID uuid.UUID) error {
	change := &models.SubmissionChange{
		ID:              uuid.New(),
		SubmittedTaskID: submittedTaskID,
		CreatedAt:       time.Now(),
	}
	return r.db.Create(change).Error
}

// FetchOldest возвращает самые старые записи очереди вместе со сдачей,
// заданием, преподавателем и студентом, чтобы рассыльщику не пришлось
// ходить в базу по одной записи. Сдача, которой уже нет, приходит как nil.
func (r *changeRepository) FetchOldest(limit int) ([]*models.SubmissionChange, error) {
	var changes []*models.SubmissionChange
	err := r.db.
		Preload("SubmittedTask").
		Preload("SubmittedTask.Task").
		Preload("SubmittedTask.Task.Teacher").
		Preload("SubmittedTask.Student").
		Order("created_at ASC").
		Limit(limit).
		Find(&changes).Error
	return changes, err
}

// DiscardBatch удаляет обработанные записи очереди одной операцией
func (r *changeRepository) DiscardBatch(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Delete(&models.SubmissionChange{}, "id IN ?", ids).Error
}
