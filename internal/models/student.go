package models

import (
	"time"

	"github.com/google/uuid"
)

// Group представляет учебную группу
type Group struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// Course представляет курс, на который записываются студенты
type Course struct {
	ID           uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	Name         string    `json:"name" gorm:"not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// Student представляет запись студента на курс.
// Один и тот же telegram_id может встречаться несколько раз —
// по одной строке на каждый курс студента.
type Student struct {
	ID         uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	TelegramID int64     `json:"telegram_id" gorm:"index;not null"`
	Name       string    `json:"name" gorm:"not null"`
	GroupID    uuid.UUID `json:"group_id" gorm:"type:text;index"`
	CourseID   uuid.UUID `json:"course_id" gorm:"type:text;index"`
	CreatedAt  time.Time `json:"created_at"`

	// Связи
	Group  Group  `json:"group" gorm:"foreignKey:GroupID"`
	Course Course `json:"course" gorm:"foreignKey:CourseID"`
}
