package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/TiredBeer/tgBot/internal/models"
)

type TeacherRepository interface {
	GetByLogin(login string) (*models.Teacher, error)
	GetByID(id uuid.UUID) (*models.Teacher, error)
	Create(teacher *models.Teacher) error
}

type teacherRepository struct {
	db *gorm.DB
}

func NewTeacherRepository(db *gorm.DB) TeacherRepository {
	return &teacherRepository{db: db}
}

func (r *teacherRepository) GetByLogin(login string) (*models.Teacher, error) {
	var teacher models.Teacher
	err := r.db.Where("login = ?", login).First(&teacher).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *teacherRepository) GetByID(id uuid.UUID) (*models.Teacher, error) {
	var teacher models.Teacher
	err := r.db.First(&teacher, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *teacherRepository) Create(teacher *models.Teacher) error {
	if teacher.ID == uuid.Nil {
		teacher.ID = uuid.New()
	}
	return r.db.Create(teacher).Error
}
