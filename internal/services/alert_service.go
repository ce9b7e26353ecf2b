package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/TiredBeer/tgBot/internal/models"
	"github.com/TiredBeer/tgBot/internal/repository"
)

// Notifier доставляет текстовые уведомления по внешнему telegram id
type Notifier interface {
	SendMessage(chatID int64, text string) error
}

// AlertService рассылает студентам уведомления о проверенных работах.
// Очередь изменений вычитывается пачками; запись удаляется после попытки
// доставки независимо от ее исхода — политика «доставить или выбросить».
// Задержка доставки ограничена интервалом опроса.
type AlertService struct {
	changeRepo repository.ChangeRepository
	notifier   Notifier
	interval   time.Duration
	batchSize  int
}

// NewAlertService создает рассыльщик уведомлений
func NewAlertService(
	changeRepo repository.ChangeRepository,
	notifier Notifier,
	interval time.Duration,
	batchSize int,
) *AlertService {
	return &AlertService{
		changeRepo: changeRepo,
		notifier:   notifier,
		interval:   interval,
		batchSize:  batchSize,
	}
}

// Run крутит цикл рассылки до отмены контекста
func (s *AlertService) Run(ctx context.Context) {
	for {
		if _, err := s.RunOnce(); err != nil {
			log.Printf("Failed to process change queue: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.interval):
		}
	}
}

// RunOnce обрабатывает одну пачку очереди изменений и возвращает
// число обработанных записей. Ошибка доставки по одной записи не
// останавливает обработку остальных.
func (s *AlertService) RunOnce() (int, error) {
	changes, err := s.changeRepo.FetchOldest(s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch pending changes: %w", err)
	}
	if len(changes) == 0 {
		return 0, nil
	}

	processed := make([]uuid.UUID, 0, len(changes))
	for _, change := range changes {
		processed = append(processed, change.ID)

		submission := change.SubmittedTask
		if submission == nil {
			// Сдача исчезла между постановкой в очередь и обработкой
			continue
		}

		text := composeAlert(submission)
		if err := s.notifier.SendMessage(submission.Student.TelegramID, text); err != nil {
			log.Printf("Failed to notify student %d: %v", submission.Student.TelegramID, err)
		}
	}

	if err := s.changeRepo.DiscardBatch(processed); err != nil {
		return 0, fmt.Errorf("failed to discard processed changes: %w", err)
	}
	return len(processed), nil
}

// composeAlert собирает текст уведомления о проверенной работе
func composeAlert(submission *models.SubmittedTask) string {
	text := fmt.Sprintf(
		"Ваше задание по теме «%s» проверено.\n"+
			"Оценка: %d\n",
		submission.Task.Topic,
		submission.Grade,
	)
	if submission.Comment != "" {
		text += fmt.Sprintf("Коммент: %s\n", submission.Comment)
	}
	text += fmt.Sprintf("Преподаватель: %s %s\n",
		submission.Task.Teacher.Name,
		submission.Task.Teacher.TelegramNickname,
	)
	return text
}
