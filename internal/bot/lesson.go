package bot

import (
	"context"
	"errors"
	"log"
	"path"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/TiredBeer/tgBot/internal/models"
	"github.com/TiredBeer/tgBot/internal/repository"
	"github.com/TiredBeer/tgBot/internal/services"
	"github.com/TiredBeer/tgBot/pkg/storage"
	"github.com/TiredBeer/tgBot/pkg/telegram"
)

// handleTopicChoice проверяет выбор темы по закэшированной карте и
// показывает либо статус прошлой сдачи, либо описание задания
func (b *Bot) handleTopicChoice(session *Session, chatID int64, text string) {
	if text == BtnGoHome {
		b.goHome(session, chatID)
		return
	}

	taskID, ok := session.TopicMap[text]
	if !ok {
		b.send(chatID, "Такой темы нет. Выбери из списка.")
		return
	}

	session.TaskID = taskID
	session.TopicName = text

	task, err := b.taskRepo.GetByID(taskID)
	if err != nil {
		log.Printf("Failed to load task %s: %v", taskID, err)
		b.send(chatID, "Задание не найдено.")
		return
	}

	_, err = b.submissions.GetLastWork(session.StudentID, taskID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		b.send(chatID, b.submissions.RenderTaskDescription(task))
	case err != nil:
		log.Printf("Failed to load submission for task %s: %v", taskID, err)
		b.send(chatID, "Технические неполадки, попробуй еще раз")
	default:
		b.sendLastWork(session, chatID)
	}

	b.sendKeyboard(chatID, "Что ты хочешь сделать дальше?", afterTopicRows)
	session.State = StateAfterTopic
}

// sendLastWork показывает полный статус последней сдачи вместе с
// сохраненными файлами работы
func (b *Bot) sendLastWork(session *Session, chatID int64) {
	b.send(chatID, "Загрузка твоей работы, может занять некоторое время, подожди пожалуйста")

	view, err := b.submissions.RenderLastWork(context.Background(), session.StudentID, session.TaskID)
	if err != nil {
		log.Printf("Failed to render last work for task %s: %v", session.TaskID, err)
		b.send(chatID, "Технические неполадки, попробуй еще раз")
		return
	}

	if len(view.Files) == 0 {
		b.send(chatID, view.Text)
		return
	}

	documents := make([]telegram.Document, 0, len(view.Files))
	for _, file := range view.Files {
		documents = append(documents, telegram.Document{Name: file.Name, Content: file.Content})
	}
	if err := b.messenger.SendDocuments(chatID, view.Text, documents); err != nil {
		log.Printf("Failed to send documents to %d: %v", chatID, err)
	}
}

// handleAfterTopic — фиксированное меню после выбора темы: сменить тему,
// отправить задание или выйти в главное меню. Любой другой ввод
// повторяет то же меню.
func (b *Bot) handleAfterTopic(session *Session, chatID int64, text string) {
	switch text {
	case BtnReselectTopic:
		b.showCourseTopics(session, chatID)
	case BtnGoHome:
		b.goHome(session, chatID)
	case BtnSubmitTask:
		b.startIntake(session, chatID)
	default:
		b.sendKeyboard(chatID, "Выбери действие кнопкой 🙂", afterTopicRows)
	}
}

func (b *Bot) goHome(session *Session, chatID int64) {
	session.State = StateIdle
	b.sendHelp(chatID)
}

// startIntake выбирает политику приема: обычное задание — один
// обязательный PDF, задание с кодом — необязательный PDF и
// необязательная ссылка
func (b *Bot) startIntake(session *Session, chatID int64) {
	if session.TaskID == uuid.Nil {
		b.send(chatID, "Сначала выбери тему задания.")
		session.State = StateSelectingTopic
		return
	}

	task, err := b.taskRepo.GetByID(session.TaskID)
	if err != nil {
		log.Printf("Failed to load task %s: %v", session.TaskID, err)
		b.send(chatID, "Технические неполадки, попробуй еще раз")
		return
	}

	session.ResetIntake()

	if !task.NeedCode {
		b.sendKeyboard(chatID,
			"Отправь PDF одним сообщением.\n"+
				"Если передумал — нажми «⬅️ К темам».",
			backToTopicsRows)
		session.State = StateAwaitingFiles
		return
	}

	b.sendKeyboard(chatID,
		"На это задание можно отправить PDF или ссылку на Google Colab с кодом!\n\n"+
			"Отправь PDF или пропусти этот шаг.",
		skipPDFRows)
	session.State = StateAwaitingPDFOptional
}

// handleFilesIntake принимает обязательный PDF. Документы, пришедшие
// альбомом, копятся и проверяются только целиком.
func (b *Bot) handleFilesIntake(session *Session, chatID int64, message *tgbotapi.Message) {
	if message.Text == BtnBackToTopics {
		b.showCourseTopics(session, chatID)
		return
	}

	if message.Document == nil {
		b.send(chatID, "Пожалуйста, отправь один PDF или нажми «⬅️ К темам».")
		return
	}

	if message.MediaGroupID != "" {
		b.collectAlbumItem(session, chatID, message)
		return
	}

	if !b.allowedFile(session, message.Document.FileName) {
		b.send(chatID, "Принимается только файл формата .pdf. Попробуй ещё раз.")
		return
	}

	files, ok := b.downloadFiles(chatID, []albumItem{{
		FileID:   message.Document.FileID,
		FileName: message.Document.FileName,
	}})
	if !ok {
		return
	}
	b.acceptFiles(session, chatID, files)
}

// collectAlbumItem добавляет документ в буфер альбома и взводит паузу
// ожидания. Буфер срабатывает только когда после последнего документа
// прошла целая пауза — иначе проверялась бы часть альбома.
func (b *Bot) collectAlbumItem(session *Session, chatID int64, message *tgbotapi.Message) {
	if session.Album == nil || session.Album.GroupID != message.MediaGroupID {
		session.Album = &albumBuffer{GroupID: message.MediaGroupID}
	}

	session.Album.Items = append(session.Album.Items, albumItem{
		FileID:   message.Document.FileID,
		FileName: message.Document.FileName,
	})
	session.Album.LastMessageID = message.MessageID

	groupID := message.MediaGroupID
	messageID := message.MessageID
	time.AfterFunc(b.albumWait, func() {
		b.flushAlbum(session, chatID, groupID, messageID)
	})
}

// flushAlbum обрабатывает альбом, если за паузу ожидания не пришло новых
// документов. Пауза — эвристика: слишком медленная доставка разрежет
// альбом, и каждая часть провалидируется отдельно.
func (b *Bot) flushAlbum(session *Session, chatID int64, groupID string, messageID int) {
	session.Lock()
	defer session.Unlock()

	album := session.Album
	if album == nil || album.GroupID != groupID || album.LastMessageID != messageID {
		// Пришел более свежий документ — сработает его таймер
		return
	}
	session.Album = nil

	if session.State != StateAwaitingFiles {
		return
	}

	for _, item := range album.Items {
		if !b.allowedFile(session, item.FileName) {
			b.send(chatID, "Принимается только файл формата .pdf. Попробуй ещё раз.")
			return
		}
	}

	files, ok := b.downloadFiles(chatID, album.Items)
	if !ok {
		return
	}
	b.acceptFiles(session, chatID, files)
}

// downloadFiles скачивает документы из чата в память. Любая неудача
// отменяет весь набор.
func (b *Bot) downloadFiles(chatID int64, items []albumItem) ([]storage.File, bool) {
	files := make([]storage.File, 0, len(items))
	for _, item := range items {
		content, err := b.messenger.DownloadDocument(item.FileID)
		if err != nil {
			log.Printf("Failed to download %s: %v", item.FileName, err)
			b.send(chatID, "Во время загрузки произошли неполадки, отправь файлы пожалуйста еще раз")
			return nil, false
		}
		files = append(files, storage.File{Name: item.FileName, Content: content})
	}
	return files, true
}

// acceptFiles загружает файлы в хранилище и сохраняет сдачу. Если
// загрузка не прошла, запись в базе не трогается и бот просит
// прислать файлы заново.
func (b *Bot) acceptFiles(session *Session, chatID int64, files []storage.File) {
	task, err := b.taskRepo.GetByID(session.TaskID)
	if err != nil {
		log.Printf("Failed to load task %s: %v", session.TaskID, err)
		b.send(chatID, "Технические неполадки, попробуй еще раз")
		return
	}

	prefix, err := b.submissions.UploadFiles(context.Background(), session.StudentID, task, files)
	if err != nil {
		log.Printf("Failed to upload files for task %s: %v", session.TaskID, err)
		b.send(chatID, "Во время загрузки произошли неполадки, отправь файлы пожалуйста еще раз")
		session.State = StateAwaitingFiles
		return
	}

	if _, err := b.submissions.SaveSubmission(session.StudentID, session.TaskID, prefix, session.CodeURL); err != nil {
		log.Printf("Failed to save submission for task %s: %v", session.TaskID, err)
		b.send(chatID, "Технические неполадки, попробуй еще раз")
		return
	}

	b.sendLastWork(session, chatID)
	b.sendKeyboard(chatID, "Что ты хочешь сделать дальше?", afterTopicRows)
	session.State = StateAfterTopic
}

// handleOptionalPDF — первый шаг приема задания с кодом: PDF можно
// прислать или пропустить
func (b *Bot) handleOptionalPDF(session *Session, chatID int64, message *tgbotapi.Message) {
	switch {
	case message.Text == BtnBackToTopics:
		b.showCourseTopics(session, chatID)
	case message.Text == BtnSkipPDF:
		b.sendKeyboard(chatID,
			"Ок, PDF пропускаем.\n\n"+
				"Пришли ссылку на код (Google Colab) или нажми «⏭ Пропустить ссылку».",
			skipCodeRows)
		session.State = StateAwaitingCodeOptional
	case message.Document != nil:
		b.takeOptionalPDF(session, chatID, message)
	default:
		b.send(chatID, "Отправь один PDF или нажми «⏭ Пропустить PDF».")
	}
}

func (b *Bot) takeOptionalPDF(session *Session, chatID int64, message *tgbotapi.Message) {
	if !strings.HasSuffix(strings.ToLower(message.Document.FileName), ".pdf") {
		b.send(chatID, "На этом шаге принимаю только PDF или «⏭ Пропустить PDF».")
		return
	}

	files, ok := b.downloadFiles(chatID, []albumItem{{
		FileID:   message.Document.FileID,
		FileName: message.Document.FileName,
	}})
	if !ok {
		return
	}

	task, err := b.taskRepo.GetByID(session.TaskID)
	if err != nil {
		log.Printf("Failed to load task %s: %v", session.TaskID, err)
		b.send(chatID, "Технические неполадки, попробуй еще раз")
		return
	}

	prefix, err := b.submissions.UploadFiles(context.Background(), session.StudentID, task, files)
	if err != nil {
		log.Printf("Failed to upload PDF for task %s: %v", session.TaskID, err)
		b.send(chatID, "Не удалось загрузить PDF. Попробуй ещё раз или пропусти.")
		return
	}

	session.PendingPrefix = prefix
	b.sendKeyboard(chatID,
		"PDF принят ✅\n\n"+
			"Теперь пришли ссылку на код (Google Colab) или нажми «⏭ Пропустить ссылку».",
		skipCodeRows)
	session.State = StateAwaitingCodeOptional
}

// handleOptionalCode — второй шаг приема задания с кодом: ссылка на код
// или пропуск. Пропуск обоих шагов означает, что сдавать нечего, —
// работа не сохраняется и диалог возвращается к выбору темы.
func (b *Bot) handleOptionalCode(session *Session, chatID int64, message *tgbotapi.Message) {
	switch {
	case message.Text == BtnBackToTopics:
		b.showCourseTopics(session, chatID)
	case message.Text == BtnSkipCode:
		if session.PendingPrefix == "" && session.CodeURL == "" {
			b.send(chatID,
				"Ты пропустил и PDF, и ссылку — значит ничего не отправил.\n"+
					"Работа не сдана. Возвращаю к темам.")
			b.showCourseTopics(session, chatID)
			return
		}
		b.finalizeSubmission(session, chatID)
	case message.Text != "":
		url := strings.TrimSpace(message.Text)
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			b.send(chatID, "Пришли ссылку (http/https) или нажми «⏭ Пропустить ссылку».")
			return
		}
		session.CodeURL = url
		b.finalizeSubmission(session, chatID)
	default:
		b.send(chatID, "Пришли ссылку текстом или нажми «⏭ Пропустить ссылку».")
	}
}

// finalizeSubmission сохраняет сдачу из накопленного в сессии буфера
func (b *Bot) finalizeSubmission(session *Session, chatID int64) {
	_, err := b.submissions.SaveSubmission(session.StudentID, session.TaskID, session.PendingPrefix, session.CodeURL)
	if errors.Is(err, services.ErrNothingSubmitted) {
		b.send(chatID, "Работа не сдана. Возвращаю к темам.")
		b.showCourseTopics(session, chatID)
		return
	}
	if err != nil {
		log.Printf("Failed to save submission for task %s: %v", session.TaskID, err)
		b.send(chatID, "Технические неполадки, попробуй еще раз")
		return
	}

	b.sendLastWork(session, chatID)
	b.sendKeyboard(chatID, "Готово ✅ Что дальше?", afterTopicRows)
	session.State = StateAfterTopic
}

// allowedFile проверяет расширение файла: всегда .pdf, для гробов
// дополнительно .py
func (b *Bot) allowedFile(session *Session, filename string) bool {
	switch strings.ToLower(path.Ext(filename)) {
	case ".pdf":
		return true
	case ".py":
		return session.Kind == models.TaskKindGraves
	default:
		return false
	}
}
