package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/TiredBeer/tgBot/internal/bot"
)

// WebhookHandler принимает обновления Telegram в режиме webhook
type WebhookHandler struct {
	bot *bot.Bot
}

// NewWebhookHandler создает новый обработчик webhook
func NewWebhookHandler(b *bot.Bot) *WebhookHandler {
	return &WebhookHandler{bot: b}
}

// Handle разбирает обновление и передает его машине состояний
func (h *WebhookHandler) Handle(c *gin.Context) {
	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.bot.HandleUpdate(update)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
