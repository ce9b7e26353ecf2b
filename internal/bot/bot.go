package bot

import (
	"context"
	"errors"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/TiredBeer/tgBot/internal/models"
	"github.com/TiredBeer/tgBot/internal/repository"
	"github.com/TiredBeer/tgBot/internal/services"
)

// Bot — машина состояний сдачи домашних заданий. Входящее сообщение
// сначала проходит допуск по ростеру студентов, затем обрабатывается
// по текущему состоянию диалога.
type Bot struct {
	messenger   Messenger
	auth        *services.AuthService
	submissions services.SubmissionService
	studentRepo repository.StudentRepository
	taskRepo    repository.TaskRepository
	sessions    *SessionManager
	albumWait   time.Duration
}

// New создает машину состояний
func New(
	messenger Messenger,
	auth *services.AuthService,
	submissions services.SubmissionService,
	studentRepo repository.StudentRepository,
	taskRepo repository.TaskRepository,
) *Bot {
	return &Bot{
		messenger:   messenger,
		auth:        auth,
		submissions: submissions,
		studentRepo: studentRepo,
		taskRepo:    taskRepo,
		sessions:    NewSessionManager(),
		albumWait:   AlbumDebounce,
	}
}

// Run вычитывает канал обновлений до отмены контекста
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(update)
		}
	}
}

// HandleUpdate обрабатывает одно входящее обновление
func (b *Bot) HandleUpdate(update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.From == nil {
		return
	}

	session := b.sessions.Get(message.From.ID)
	session.Lock()
	defer session.Unlock()

	// Допуск по ростеру: без студенческой записи обработчики не выполняются
	if !b.ensureStudent(session, message) {
		return
	}

	chatID := message.Chat.ID

	if command, ok := commandOf(message); ok {
		b.handleCommand(session, chatID, command)
		return
	}

	switch session.State {
	case StateSelectingCourse:
		b.handleCourseChoice(session, chatID, message.Text)
	case StateSelectingTopic:
		b.handleTopicChoice(session, chatID, message.Text)
	case StateAfterTopic:
		b.handleAfterTopic(session, chatID, message.Text)
	case StateAwaitingFiles:
		b.handleFilesIntake(session, chatID, message)
	case StateAwaitingPDFOptional:
		b.handleOptionalPDF(session, chatID, message)
	case StateAwaitingCodeOptional:
		b.handleOptionalCode(session, chatID, message)
	default:
		b.send(chatID,
			"Пожалуйста, не пиши ничего лишнего.\n"+
				"Используй /help чтобы посмотреть доступные команды")
	}
}

// ensureStudent проверяет допуск и кэширует id студента в сессии.
// Повторный поиск в базе делается только если кэша нет или внешний id
// не совпадает с закэшированным.
func (b *Bot) ensureStudent(session *Session, message *tgbotapi.Message) bool {
	if session.HasStudent && session.TelegramID == message.From.ID {
		return true
	}

	student, err := b.auth.ResolveStudent(message.From.ID)
	if errors.Is(err, services.ErrAccessDenied) {
		b.send(message.Chat.ID, "У вас нет доступа к боту. Обратитесь к преподавателю.")
		return false
	}
	if err != nil {
		log.Printf("Failed to resolve student %d: %v", message.From.ID, err)
		b.send(message.Chat.ID, "Технические неполадки, попробуй еще раз")
		return false
	}

	session.TelegramID = message.From.ID
	session.StudentID = student.ID
	session.HasStudent = true
	return true
}

// commandOf распознает команду или кнопку главного меню
func commandOf(message *tgbotapi.Message) (string, bool) {
	if message.IsCommand() {
		return message.Command(), true
	}
	switch message.Text {
	case BtnChooseCourse:
		return "choose_course", true
	case BtnLessonTopics:
		return "get_lesson", true
	case BtnHelp:
		return "help", true
	}
	return "", false
}

func (b *Bot) handleCommand(session *Session, chatID int64, command string) {
	switch command {
	case "start":
		b.sendKeyboard(chatID,
			"Привет, я бот для отправок домашних работ и гробов по теории вероятности и математической статистике\n"+
				"Узнать о моем функционале: /help",
			mainMenuRows)
	case "help":
		b.sendHelp(chatID)
	case "choose_course":
		session.Kind = models.TaskKindHomework
		b.offerCourses(session, chatID)
	case "get_lesson":
		session.Kind = models.TaskKindHomework
		b.openLessonMenu(session, chatID)
	case "get_graves":
		session.Kind = models.TaskKindGraves
		b.openLessonMenu(session, chatID)
	default:
		b.sendHelp(chatID)
	}
}

func (b *Bot) sendHelp(chatID int64) {
	b.send(chatID,
		"/help - помощь\n"+
			"/choose_course - выбрать курс\n"+
			"/get_lesson - посмотреть темы домашних заданий\n"+
			"/get_graves - посмотреть гробы")
}

// openLessonMenu открывает меню тем: если курс в сессии еще не выбран,
// сначала предлагает выбрать курс
func (b *Bot) openLessonMenu(session *Session, chatID int64) {
	if !session.HasCourse {
		b.offerCourses(session, chatID)
		return
	}
	b.showCourseTopics(session, chatID)
}

func (b *Bot) send(chatID int64, text string) {
	if err := b.messenger.SendMessage(chatID, text); err != nil {
		log.Printf("Failed to send message to %d: %v", chatID, err)
	}
}

func (b *Bot) sendKeyboard(chatID int64, text string, rows [][]string) {
	if err := b.messenger.SendKeyboard(chatID, text, rows); err != nil {
		log.Printf("Failed to send keyboard to %d: %v", chatID, err)
	}
}
