package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/TiredBeer/tgBot/internal/models"
	"github.com/TiredBeer/tgBot/internal/repository"
)

// ErrAccessDenied возвращается, когда telegram id не числится в ростере студентов
var ErrAccessDenied = errors.New("access denied")

// ErrInvalidCredentials возвращается при неверном логине или пароле преподавателя
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService представляет сервис авторизации: допуск студентов к боту
// и вход преподавателей в API проверки
type AuthService struct {
	studentRepo repository.StudentRepository
	teacherRepo repository.TeacherRepository
	jwtSecret   string
	jwtTTL      time.Duration
}

// NewAuthService создает новый сервис авторизации
func NewAuthService(
	studentRepo repository.StudentRepository,
	teacherRepo repository.TeacherRepository,
	jwtSecret string,
	jwtTTL time.Duration,
) *AuthService {
	return &AuthService{
		studentRepo: studentRepo,
		teacherRepo: teacherRepo,
		jwtSecret:   jwtSecret,
		jwtTTL:      jwtTTL,
	}
}

// ResolveStudent находит студента по внешнему telegram id.
// Неизвестный id — отказ в доступе, обработчики дальше не выполняются.
func (s *AuthService) ResolveStudent(telegramID int64) (*models.Student, error) {
	student, err := s.studentRepo.GetByTelegramID(telegramID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAccessDenied
	}
	if err != nil {
		return nil, err
	}
	return student, nil
}

// LoginTeacher проверяет логин и пароль преподавателя и выдает JWT токен
func (s *AuthService) LoginTeacher(login, password string) (string, error) {
	teacher, err := s.teacherRepo.GetByLogin(login)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(teacher.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.generateJWT(teacher)
}

// ValidateToken проверяет JWT токен и возвращает преподавателя
func (s *AuthService) ValidateToken(tokenString string) (*models.Teacher, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	teacherID, err := uuid.Parse(claims["teacher_id"].(string))
	if err != nil {
		return nil, fmt.Errorf("invalid teacher_id claim: %w", err)
	}

	teacher, err := s.teacherRepo.GetByID(teacherID)
	if err != nil {
		return nil, fmt.Errorf("teacher not found: %w", err)
	}
	return teacher, nil
}

// generateJWT генерирует JWT токен для преподавателя
func (s *AuthService) generateJWT(teacher *models.Teacher) (string, error) {
	claims := jwt.MapClaims{
		"teacher_id": teacher.ID.String(),
		"login":      teacher.Login,
		"exp":        time.Now().Add(s.jwtTTL).Unix(),
		"iat":        time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
