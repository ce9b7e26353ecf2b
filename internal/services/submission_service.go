package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TiredBeer/tgBot/internal/models"
	"github.com/TiredBeer/tgBot/internal/repository"
	"github.com/TiredBeer/tgBot/pkg/storage"
)

// ErrUploadFailed возвращается, когда файлы не удалось положить в хранилище.
// Запись о сдаче в этом случае не создается и не обновляется.
var ErrUploadFailed = errors.New("upload failed")

// ErrNothingSubmitted возвращается, когда сдавать нечего:
// ни файлов, ни ссылки на код
var ErrNothingSubmitted = errors.New("nothing submitted")

// LastWorkView представляет собранный статус последней сдачи:
// текст и файлы работы из хранилища
type LastWorkView struct {
	Text  string
	Files []storage.File
}

type SubmissionService interface {
	BuildPrefix(courseID uuid.UUID, topic string, kind models.TaskKind, studentID uuid.UUID) string
	UploadFiles(ctx context.Context, studentID uuid.UUID, task *models.Task, files []storage.File) (string, error)
	SaveSubmission(studentID, taskID uuid.UUID, homeworkPrefix, codeURL string) (*models.SubmittedTask, error)
	GetLastWork(studentID, taskID uuid.UUID) (*models.SubmittedTask, error)
	RenderLastWork(ctx context.Context, studentID, taskID uuid.UUID) (*LastWorkView, error)
	RenderTaskDescription(task *models.Task) string
}

type submissionService struct {
	submissionRepo repository.SubmissionRepository
	storage        *storage.Storage
	location       *time.Location
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	store *storage.Storage,
) SubmissionService {
	location, err := time.LoadLocation("Asia/Yekaterinburg")
	if err != nil {
		location = time.Local
	}
	return &submissionService{
		submissionRepo: submissionRepo,
		storage:        store,
		location:       location,
	}
}

// BuildPrefix строит префикс хранилища для файлов сдачи.
// Схема {курс}/{тема}/{каталог трека}/{студент}/ фиксирована:
// префикс заодно служит идентификатором набора файлов работы
// при перечитывании и замене.
func (s *submissionService) BuildPrefix(courseID uuid.UUID, topic string, kind models.TaskKind, studentID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s/%s/", courseID, topic, kind.Dir(), studentID)
}

// UploadFiles кладет файлы сдачи в хранилище и возвращает их префикс.
// Запись в базе здесь не трогается: она появляется или обновляется
// только после успешной загрузки, отдельным вызовом SaveSubmission.
func (s *submissionService) UploadFiles(ctx context.Context, studentID uuid.UUID, task *models.Task, files []storage.File) (string, error) {
	prefix := s.BuildPrefix(task.CourseID, task.Topic, task.Kind, studentID)
	if err := s.storage.UploadAllOrNone(ctx, files, prefix); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return prefix, nil
}

// SaveSubmission записывает сдачу в базу. Без файлов и без ссылки
// сдавать нечего — запись не создается и не обновляется.
func (s *submissionService) SaveSubmission(studentID, taskID uuid.UUID, homeworkPrefix, codeURL string) (*models.SubmittedTask, error) {
	if homeworkPrefix == "" && codeURL == "" {
		return nil, ErrNothingSubmitted
	}
	return s.submissionRepo.Upsert(studentID, taskID, homeworkPrefix, codeURL)
}

func (s *submissionService) GetLastWork(studentID, taskID uuid.UUID) (*models.SubmittedTask, error) {
	return s.submissionRepo.GetLastWork(studentID, taskID)
}

// RenderLastWork собирает полный статус последней сдачи: тему, дедлайн,
// преподавателя, статус проверки с оценкой и комментарием, отметки времени
// и сами файлы работы из хранилища
func (s *submissionService) RenderLastWork(ctx context.Context, studentID, taskID uuid.UUID) (*LastWorkView, error) {
	lastWork, err := s.submissionRepo.GetLastWork(studentID, taskID)
	if err != nil {
		return nil, err
	}

	task := lastWork.Task
	var b strings.Builder
	fmt.Fprintf(&b, "📚 Тема: %s\n", task.Topic)
	fmt.Fprintf(&b, "🔗 Ссылка на задачи: %s\n", task.TaskLink)
	fmt.Fprintf(&b, "📅 Дедлайн: %s\n", task.Deadline.Format("02.01.2006"))
	fmt.Fprintf(&b, "👤 Преподаватель: %s %s\n", task.Teacher.Name, task.Teacher.TelegramNickname)
	fmt.Fprintf(&b, "📌 Статус: %s\n", statusName(lastWork.Status))
	fmt.Fprintf(&b, "📨 Последняя отправка: %s\n", lastWork.LastModifiedAt.In(s.location).Format("02.01.2006 15:04"))
	fmt.Fprintf(&b, "📬 Дата первой сдачи работы: %s\n", lastWork.SubmittedAt.In(s.location).Format("02.01.2006 15:04"))

	text := b.String()

	switch {
	case lastWork.Status == models.StatusReviewed:
		header := fmt.Sprintf("🟢 Твою работу проверили! 🟢\n📝 Оценка: %d\n", lastWork.Grade)
		if lastWork.Comment != "" {
			header += fmt.Sprintf("💬 Комментарий: %s\n\n", lastWork.Comment)
		} else {
			header += "\n"
		}
		text = header + text
	case !lastWork.SubmittedAt.Equal(lastWork.LastModifiedAt) && lastWork.Grade != 0:
		// Исправления уже отправлены на проверку, но старая оценка еще видна
		header := "❗️ Исправления по заданию успешно отправлены.❗️\n" +
			"👉 Результаты проверки предыдущего решения:\n" +
			fmt.Sprintf("📊 Оценка: %d\n", lastWork.Grade)
		if lastWork.Comment != "" {
			header += fmt.Sprintf("💬 Комментарий: %s\n\n", lastWork.Comment)
		} else {
			header += "\n"
		}
		text = header + text
	}

	if lastWork.CodeURL != "" {
		text += fmt.Sprintf("💻 Ссылка на код: %s\n", lastWork.CodeURL)
	}

	view := &LastWorkView{Text: text}
	if lastWork.HomeworkPrefix != "" {
		files, err := s.storage.ListByPrefix(ctx, lastWork.HomeworkPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch stored files: %w", err)
		}
		view.Files = files
	}
	return view, nil
}

// RenderTaskDescription собирает описание задания, по которому
// еще ничего не сдавалось
func (s *submissionService) RenderTaskDescription(task *models.Task) string {
	return fmt.Sprintf(
		"Ты еще не отправлял решение задач по этой теме\n"+
			"📚 Тема: %s\n"+
			"🔗 Ссылка на задачи: %s\n"+
			"📅 Дедлайн: %s\n"+
			"👤 Преподаватель: %s %s\n",
		task.Topic,
		task.TaskLink,
		task.Deadline.Format("02.01.2006"),
		task.Teacher.Name,
		task.Teacher.TelegramNickname,
	)
}

// statusName переводит статус в текст для студента
func statusName(status models.SubmissionStatus) string {
	switch status {
	case models.StatusPendingReview:
		return "На проверке"
	case models.StatusReviewed:
		return "Проверено"
	default:
		return string(status)
	}
}
