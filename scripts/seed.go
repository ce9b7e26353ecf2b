package main

import (
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/TiredBeer/tgBot/internal/models"
)

func main() {
	// Подключаемся к базе данных
	db, err := gorm.Open(sqlite.Open("test.db"), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Автомиграция
	err = db.AutoMigrate(
		&models.Group{},
		&models.Course{},
		&models.Teacher{},
		&models.TeacherCourse{},
		&models.Student{},
		&models.Task{},
		&models.SubmittedTask{},
		&models.SubmissionChange{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	coursePassword, _ := bcrypt.GenerateFromPassword([]byte("probability2026"), bcrypt.DefaultCost)
	teacherPassword, _ := bcrypt.GenerateFromPassword([]byte("teacher123"), bcrypt.DefaultCost)

	groupID := uuid.New()
	courseID := uuid.New()
	teacherID := uuid.New()

	group := models.Group{ID: groupID, Name: "МЕН-230201", CreatedAt: time.Now()}
	course := models.Course{
		ID:           courseID,
		Name:         "Теория вероятностей",
		PasswordHash: string(coursePassword),
		CreatedAt:    time.Now(),
	}
	teacher := models.Teacher{
		ID:               teacherID,
		Login:            "ivanov",
		Name:             "Иван Иванов",
		TelegramNickname: "@ivanov_prob",
		PasswordHash:     string(teacherPassword),
		CreatedAt:        time.Now(),
	}

	if err := db.Create(&group).Error; err != nil {
		log.Fatalf("Failed to create group: %v", err)
	}
	if err := db.Create(&course).Error; err != nil {
		log.Fatalf("Failed to create course: %v", err)
	}
	if err := db.Create(&teacher).Error; err != nil {
		log.Fatalf("Failed to create teacher: %v", err)
	}
	if err := db.Create(&models.TeacherCourse{TeacherID: teacherID, CourseID: courseID}).Error; err != nil {
		log.Fatalf("Failed to link teacher to course: %v", err)
	}

	students := []models.Student{
		{
			ID:         uuid.New(),
			TelegramID: 111111111,
			Name:       "Петр Петров",
			GroupID:    groupID,
			CourseID:   courseID,
			CreatedAt:  time.Now(),
		},
		{
			ID:         uuid.New(),
			TelegramID: 222222222,
			Name:       "Анна Смирнова",
			GroupID:    groupID,
			CourseID:   courseID,
			CreatedAt:  time.Now(),
		},
	}
	if err := db.Create(&students).Error; err != nil {
		log.Fatalf("Failed to create students: %v", err)
	}

	tasks := []models.Task{
		{
			ID:        uuid.New(),
			Topic:     "Вероятность-1",
			TaskLink:  "https://example.com/tasks/prob-1",
			Deadline:  time.Now().AddDate(0, 0, 14),
			TeacherID: teacherID,
			CourseID:  courseID,
			Kind:      models.TaskKindHomework,
			CreatedAt: time.Now(),
		},
		{
			ID:        uuid.New(),
			Topic:     "Случайные величины",
			TaskLink:  "https://example.com/tasks/random-vars",
			Deadline:  time.Now().AddDate(0, 0, 21),
			TeacherID: teacherID,
			CourseID:  courseID,
			Kind:      models.TaskKindHomework,
			NeedCode:  true,
			CreatedAt: time.Now(),
		},
		{
			ID:        uuid.New(),
			Topic:     "Гроб о сходимости",
			TaskLink:  "https://example.com/tasks/grave-1",
			Deadline:  time.Now().AddDate(0, 1, 0),
			TeacherID: teacherID,
			CourseID:  courseID,
			Kind:      models.TaskKindGraves,
			CreatedAt: time.Now(),
		},
	}
	if err := db.Create(&tasks).Error; err != nil {
		log.Fatalf("Failed to create tasks: %v", err)
	}

	log.Println("Seed data created successfully")
}
