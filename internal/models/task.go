package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskKind определяет трек задания по одной и той же теме
type TaskKind string

const (
	TaskKindHomework     TaskKind = "homework"
	TaskKindResubmission TaskKind = "doreshka"
	TaskKindGraves       TaskKind = "graves"
)

// Dir возвращает каталог трека внутри префикса хранилища
func (k TaskKind) Dir() string {
	switch k {
	case TaskKindResubmission, TaskKindGraves:
		return string(k)
	default:
		return string(TaskKindHomework)
	}
}

// Teacher представляет преподавателя
type Teacher struct {
	ID               uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	Login            string    `json:"login" gorm:"uniqueIndex;not null"`
	Name             string    `json:"name" gorm:"not null"`
	TelegramNickname string    `json:"telegram_nickname"`
	PasswordHash     string    `json:"-" gorm:"not null"`
	CreatedAt        time.Time `json:"created_at"`
}

// TeacherCourse связывает преподавателей с курсами
type TeacherCourse struct {
	TeacherID uuid.UUID `json:"teacher_id" gorm:"type:text;primary_key"`
	CourseID  uuid.UUID `json:"course_id" gorm:"type:text;primary_key;index"`
}

// Task представляет тему домашнего задания
type Task struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	Topic     string    `json:"topic" gorm:"not null"`
	TaskLink  string    `json:"task_link" gorm:"not null"`
	Deadline  time.Time `json:"deadline"`
	TeacherID uuid.UUID `json:"teacher_id" gorm:"type:text;index"`
	CourseID  uuid.UUID `json:"course_id" gorm:"type:text;index"`
	Kind      TaskKind  `json:"kind" gorm:"default:'homework'"`
	NeedCode  bool      `json:"need_code"` // задание принимает PDF и/или ссылку на код
	CreatedAt time.Time `json:"created_at"`

	// Связи
	Teacher Teacher `json:"teacher" gorm:"foreignKey:TeacherID"`
	Course  Course  `json:"course" gorm:"foreignKey:CourseID"`
}
