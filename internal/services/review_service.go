package services

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/TiredBeer/tgBot/internal/models"
	"github.com/TiredBeer/tgBot/internal/repository"
)

// ErrForeignSubmission возвращается при попытке проверить работу
// по чужому заданию
var ErrForeignSubmission = errors.New("submission belongs to another teacher")

type ReviewService interface {
	ListPending(teacherID uuid.UUID) ([]*models.SubmittedTask, error)
	Review(submissionID, teacherID uuid.UUID, grade int, comment string) (*models.SubmittedTask, error)
}

type reviewService struct {
	submissionRepo repository.SubmissionRepository
	changeRepo     repository.ChangeRepository
}

func NewReviewService(
	submissionRepo repository.SubmissionRepository,
	changeRepo repository.ChangeRepository,
) ReviewService {
	return &reviewService{
		submissionRepo: submissionRepo,
		changeRepo:     changeRepo,
	}
}

func (s *reviewService) ListPending(teacherID uuid.UUID) ([]*models.SubmittedTask, error) {
	return s.submissionRepo.ListPendingByTeacher(teacherID)
}

// Review выставляет оценку и комментарий, помечает работу проверенной
// и ставит запись в очередь изменений — рассыльщик донесет результат
// до студента
func (s *reviewService) Review(submissionID, teacherID uuid.UUID, grade int, comment string) (*models.SubmittedTask, error) {
	submission, err := s.submissionRepo.GetByID(submissionID)
	if err != nil {
		return nil, err
	}

	if submission.Task.TeacherID != teacherID {
		return nil, ErrForeignSubmission
	}

	submission.Status = models.StatusReviewed
	submission.Grade = grade
	submission.Comment = comment
	submission.LastModifiedAt = time.Now()

	if err := s.submissionRepo.Update(submission); err != nil {
		return nil, err
	}

	if err := s.changeRepo.Create(submission.ID); err != nil {
		return nil, err
	}

	return submission, nil
}
