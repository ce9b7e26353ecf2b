package bot

import (
	"fmt"
	"log"

	"github.com/google/uuid"
)

// offerCourses предлагает студенту его курсы. Предлагается ровно то,
// на что студент записан, — по курсу не из списка выбрать нельзя.
func (b *Bot) offerCourses(session *Session, chatID int64) {
	courses, err := b.studentRepo.ListCoursesByTelegramID(session.TelegramID)
	if err != nil {
		log.Printf("Failed to list courses for %d: %v", session.TelegramID, err)
		b.send(chatID, "Технические неполадки, попробуй еще раз")
		return
	}

	if len(courses) == 0 {
		b.send(chatID, "У тебя нет доступных курсов. Обратись к преподавателю.")
		return
	}

	session.CourseMap = make(map[string]uuid.UUID, len(courses))
	names := make([]string, 0, len(courses))
	for _, course := range courses {
		session.CourseMap[course.Name] = course.ID
		names = append(names, course.Name)
	}

	b.sendKeyboard(chatID, "Вот твои доступные курсы", courseRows(names))
	session.State = StateSelectingCourse
}

// handleCourseChoice проверяет выбор курса по закэшированной карте
// имя → id. Точное совпадение текста обязательно, иначе повторный
// запрос без смены состояния.
func (b *Bot) handleCourseChoice(session *Session, chatID int64, text string) {
	courseID, ok := session.CourseMap[text]
	if !ok {
		b.send(chatID, "Выбери курс из списка.")
		return
	}

	session.CourseID = courseID
	session.CourseName = text
	session.HasCourse = true

	if err := b.messenger.SendMessageRemoveKeyboard(chatID, fmt.Sprintf("Курс «%s» выбран", text)); err != nil {
		log.Printf("Failed to send message to %d: %v", chatID, err)
	}

	b.showCourseTopics(session, chatID)
}

// showCourseTopics показывает темы выбранного курса по текущему треку
// и переводит диалог в выбор темы
func (b *Bot) showCourseTopics(session *Session, chatID int64) {
	tasks, err := b.taskRepo.ListByCourse(session.CourseID, session.Kind)
	if err != nil {
		log.Printf("Failed to list tasks for course %s: %v", session.CourseID, err)
		b.send(chatID, "Технические неполадки, попробуй еще раз")
		return
	}

	if len(tasks) == 0 {
		b.send(chatID, "Тем по этому курсу пока нет.")
		return
	}

	session.TopicMap = make(map[string]uuid.UUID, len(tasks))
	topics := make([]string, 0, len(tasks))
	for _, task := range tasks {
		session.TopicMap[task.Topic] = task.ID
		topics = append(topics, task.Topic)
	}

	b.sendKeyboard(chatID, "Вот доступные темы:", topicRows(topics))
	session.State = StateSelectingTopic
}
