package telegram

import (
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot представляет Telegram бота
type Bot struct {
	api     *tgbotapi.BotAPI
	webhook string
}

// Document представляет документ для отправки группой
type Document struct {
	Name    string
	Content []byte
}

// NewBot создает новый экземпляр бота
func NewBot(token, webhook string) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	bot.Debug = false

	return &Bot{
		api:     bot,
		webhook: webhook,
	}, nil
}

// SetWebhook устанавливает webhook для бота
func (b *Bot) SetWebhook() error {
	webhookConfig, err := tgbotapi.NewWebhook(b.webhook)
	if err != nil {
		return fmt.Errorf("failed to create webhook config: %w", err)
	}
	if _, err := b.api.Request(webhookConfig); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	return nil
}

// SetCommands устанавливает команды бота
func (b *Bot) SetCommands() error {
	commands := []tgbotapi.BotCommand{
		{
			Command:     "start",
			Description: "🚀 Начать работу с ботом",
		},
		{
			Command:     "help",
			Description: "ℹ️ Получить помощь по использованию",
		},
		{
			Command:     "choose_course",
			Description: "📚 Выбрать курс",
		},
		{
			Command:     "get_lesson",
			Description: "📝 Темы домашних заданий",
		},
		{
			Command:     "get_graves",
			Description: "⚰️ Темы гробов",
		},
	}

	setCommands := tgbotapi.NewSetMyCommands(commands...)
	if _, err := b.api.Request(setCommands); err != nil {
		return fmt.Errorf("failed to set commands: %w", err)
	}
	return nil
}

// SendMessage отправляет текстовое сообщение пользователю
func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SendKeyboard отправляет сообщение с reply-клавиатурой из строк кнопок
func (b *Bot) SendKeyboard(chatID int64, text string, rows [][]string) error {
	keyboardRows := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		keyboardRows = append(keyboardRows, buttons)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(keyboardRows...)

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send keyboard: %w", err)
	}
	return nil
}

// SendMessageRemoveKeyboard отправляет сообщение и убирает reply-клавиатуру
func (b *Bot) SendMessageRemoveKeyboard(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SendDocuments отправляет подпись и группу документов одним альбомом
func (b *Bot) SendDocuments(chatID int64, caption string, documents []Document) error {
	if err := b.SendMessage(chatID, caption); err != nil {
		return err
	}

	media := make([]interface{}, 0, len(documents))
	for _, doc := range documents {
		media = append(media, tgbotapi.NewInputMediaDocument(tgbotapi.FileBytes{
			Name:  doc.Name,
			Bytes: doc.Content,
		}))
	}

	group := tgbotapi.NewMediaGroup(chatID, media)
	if _, err := b.api.SendMediaGroup(group); err != nil {
		return fmt.Errorf("failed to send media group: %w", err)
	}
	return nil
}

// DownloadDocument скачивает присланный пользователем документ в память
func (b *Bot) DownloadDocument(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	resp, err := http.Get(file.Link(b.api.Token))
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file body: %w", err)
	}
	return content, nil
}

// GetUpdates получает канал обновлений через long polling
func (b *Bot) GetUpdates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	return b.api.GetUpdatesChan(u)
}
