package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/TiredBeer/tgBot/internal/models"
)

type TaskRepository interface {
	ListByCourse(courseID uuid.UUID, kind models.TaskKind) ([]*models.Task, error)
	GetByID(id uuid.UUID) (*models.Task, error)
	Create(task *models.Task) error
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) ListByCourse(courseID uuid.UUID, kind models.TaskKind) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.Where("course_id = ? AND kind = ?", courseID, kind).
		Order("created_at ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) GetByID(id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.Preload("Teacher").First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) Create(task *models.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	return r.db.Create(task).Error
}
