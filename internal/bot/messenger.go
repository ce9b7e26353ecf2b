package bot

import "github.com/TiredBeer/tgBot/pkg/telegram"

// Messenger — слой доставки сообщений, который нужен машине состояний.
// Реальная реализация — pkg/telegram.Bot, в тестах подменяется на фейк.
type Messenger interface {
	SendMessage(chatID int64, text string) error
	SendMessageRemoveKeyboard(chatID int64, text string) error
	SendKeyboard(chatID int64, text string, rows [][]string) error
	SendDocuments(chatID int64, caption string, documents []telegram.Document) error
	DownloadDocument(fileID string) ([]byte, error)
}
