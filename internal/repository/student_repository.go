package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/TiredBeer/tgBot/internal/models"
)

// ErrNotFound возвращается, когда запись не найдена
var ErrNotFound = errors.New("record not found")

type StudentRepository interface {
	GetByTelegramID(telegramID int64) (*models.Student, error)
	ListCoursesByTelegramID(telegramID int64) ([]*models.Course, error)
	GetByID(id uuid.UUID) (*models.Student, error)
	Create(student *models.Student) error
}

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByTelegramID(telegramID int64) (*models.Student, error) {
	var student models.Student
	err := r.db.Where("telegram_id = ?", telegramID).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// ListCoursesByTelegramID собирает курсы по всем записям студента:
// одна строка students — одна запись на курс
func (r *studentRepository) ListCoursesByTelegramID(telegramID int64) ([]*models.Course, error) {
	var students []*models.Student
	if err := r.db.Where("telegram_id = ?", telegramID).Find(&students).Error; err != nil {
		return nil, err
	}

	courseIDs := make([]uuid.UUID, 0, len(students))
	seen := make(map[uuid.UUID]bool, len(students))
	for _, student := range students {
		if !seen[student.CourseID] {
			seen[student.CourseID] = true
			courseIDs = append(courseIDs, student.CourseID)
		}
	}

	if len(courseIDs) == 0 {
		return nil, nil
	}

	var courses []*models.Course
	err := r.db.Where("id IN ?", courseIDs).Find(&courses).Error
	return courses, err
}

func (r *studentRepository) GetByID(id uuid.UUID) (*models.Student, error) {
	var student models.Student
	err := r.db.Preload("Group").Preload("Course").First(&student, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) Create(student *models.Student) error {
	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}
	return r.db.Create(student).Error
}
