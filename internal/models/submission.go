package models

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus определяет статус проверки сданной работы
type SubmissionStatus string

const (
	StatusPendingReview SubmissionStatus = "pending_review"
	StatusReviewed      SubmissionStatus = "reviewed"
)

// SubmittedTask представляет сданную работу студента.
// На пару (студент, задание) существует не больше одной строки:
// повторная сдача обновляет существующую запись.
type SubmittedTask struct {
	ID             uuid.UUID        `json:"id" gorm:"type:text;primary_key"`
	StudentID      uuid.UUID        `json:"student_id" gorm:"type:text;index:idx_submitted_student_task,unique"`
	TaskID         uuid.UUID        `json:"task_id" gorm:"type:text;index:idx_submitted_student_task,unique"`
	Status         SubmissionStatus `json:"status" gorm:"default:'pending_review'"`
	HomeworkPrefix string           `json:"homework_prefix"` // префикс файлов в хранилище, "" — файлы не загружались
	CodeURL        string           `json:"code_url"`        // ссылка на код, "" — не прислана
	Grade          int              `json:"grade"`           // 0 — не оценено
	Comment        string           `json:"comment"`
	SubmittedAt    time.Time        `json:"submitted_at"`    // первая сдача, не меняется при пересдаче
	LastModifiedAt time.Time        `json:"last_modified_at"`

	// Связи
	Student Student `json:"student" gorm:"foreignKey:StudentID"`
	Task    Task    `json:"task" gorm:"foreignKey:TaskID"`
}

// SubmissionChange представляет запись очереди изменений:
// работа, статус или оценка которой поменялись, но студент
// об этом ещё не уведомлён. Заполняется при проверке работы,
// вычитывается и удаляется рассыльщиком уведомлений.
type SubmissionChange struct {
	ID              uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	SubmittedTaskID uuid.UUID `json:"submitted_task_id" gorm:"type:text;index"`
	CreatedAt       time.Time `json:"created_at" gorm:"index"`

	// Связи
	SubmittedTask *SubmittedTask `json:"submitted_task" gorm:"foreignKey:SubmittedTaskID"`
}
