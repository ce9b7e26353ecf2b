package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/TiredBeer/tgBot/internal/models"
	"github.com/TiredBeer/tgBot/internal/repository"
)

func TestResolveStudentKnownAndUnknown(t *testing.T) {
	db := newTestDB(t)
	service := NewAuthService(
		repository.NewStudentRepository(db),
		repository.NewTeacherRepository(db),
		"test-secret",
		time.Hour,
	)

	course := &models.Course{ID: uuid.New(), Name: "A", PasswordHash: "x"}
	require.NoError(t, db.Create(course).Error)
	group := &models.Group{ID: uuid.New(), Name: "G"}
	require.NoError(t, db.Create(group).Error)

	student := &models.Student{
		ID:         uuid.New(),
		TelegramID: 777,
		Name:       "Student",
		GroupID:    group.ID,
		CourseID:   course.ID,
	}
	require.NoError(t, db.Create(student).Error)

	resolved, err := service.ResolveStudent(777)
	require.NoError(t, err)
	assert.Equal(t, student.ID, resolved.ID)

	_, err = service.ResolveStudent(778)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestTeacherLoginAndTokenRoundTrip(t *testing.T) {
	db := newTestDB(t)
	service := NewAuthService(
		repository.NewStudentRepository(db),
		repository.NewTeacherRepository(db),
		"test-secret",
		time.Hour,
	)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	teacher := &models.Teacher{
		ID:           uuid.New(),
		Login:        "ivanov",
		Name:         "Иван Иванов",
		PasswordHash: string(hash),
	}
	require.NoError(t, db.Create(teacher).Error)

	token, err := service.LoginTeacher("ivanov", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	validated, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, teacher.ID, validated.ID)

	_, err = service.LoginTeacher("ivanov", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.LoginTeacher("nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.ValidateToken("not-a-token")
	assert.Error(t, err)
}
