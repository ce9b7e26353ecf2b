package bot

// Тексты кнопок reply-клавиатур. Выбор пользователя приходит обычным
// текстовым сообщением и сверяется с этими константами.
const (
	BtnChooseCourse  = "📚 Выбрать курс"
	BtnLessonTopics  = "📝 Темы домашних заданий"
	BtnHelp          = "ℹ️ Помощь"
	BtnGoHome        = "🏠 В главное меню"
	BtnReselectTopic = "Выбрать другую тему"
	BtnSubmitTask    = "Отправить задание"
	BtnBackToTopics  = "⬅️ К темам"
	BtnSkipPDF       = "⏭ Пропустить PDF"
	BtnSkipCode      = "⏭ Пропустить ссылку"
)

var mainMenuRows = [][]string{
	{BtnChooseCourse},
	{BtnLessonTopics},
	{BtnHelp},
}

var afterTopicRows = [][]string{
	{BtnReselectTopic},
	{BtnSubmitTask},
	{BtnGoHome},
}

var backToTopicsRows = [][]string{
	{BtnBackToTopics},
}

var skipPDFRows = [][]string{
	{BtnSkipPDF},
	{BtnBackToTopics},
}

var skipCodeRows = [][]string{
	{BtnSkipCode},
	{BtnBackToTopics},
}

// topicRows строит клавиатуру тем: по одной теме в строке плюс выход
// в главное меню
func topicRows(topics []string) [][]string {
	rows := make([][]string, 0, len(topics)+1)
	for _, topic := range topics {
		rows = append(rows, []string{topic})
	}
	rows = append(rows, []string{BtnGoHome})
	return rows
}

// courseRows строит клавиатуру курсов
func courseRows(names []string) [][]string {
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name})
	}
	return rows
}
