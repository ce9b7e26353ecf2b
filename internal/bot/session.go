package bot

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TiredBeer/tgBot/internal/models"
)

// State определяет текущее состояние диалога со студентом
type State string

const (
	StateIdle                 State = ""
	StateSelectingCourse      State = "selecting_course"
	StateSelectingTopic       State = "selecting_topic"
	StateAfterTopic           State = "after_topic"
	StateAwaitingFiles        State = "awaiting_files"
	StateAwaitingPDFOptional  State = "awaiting_pdf_optional"
	StateAwaitingCodeOptional State = "awaiting_code_optional"
)

// albumItem — один документ из альбома, еще не скачанный
type albumItem struct {
	FileID   string
	FileName string
}

// albumBuffer копит документы одного альбома до истечения паузы ожидания.
// Буфер живет внутри сессии конкретного диалога, а не в общей на всех
// пользователей карте: чужие альбомы сюда попасть не могут.
type albumBuffer struct {
	GroupID       string
	Items         []albumItem
	LastMessageID int
}

// Session хранит эфемерное состояние одного диалога. Поля заполняются
// по мере прохождения машины состояний и перетираются при следующем
// успешном допуске — срок жизни записи не ограничен.
type Session struct {
	mu sync.Mutex

	TelegramID int64
	StudentID  uuid.UUID
	HasStudent bool

	State State

	// Выбор курса и темы
	CourseID   uuid.UUID
	CourseName string
	HasCourse  bool
	CourseMap  map[string]uuid.UUID
	TopicMap   map[string]uuid.UUID
	Kind       models.TaskKind
	TaskID     uuid.UUID
	TopicName  string

	// Промежуточный прием работы
	PendingPrefix string
	CodeURL       string

	Album *albumBuffer
}

// Lock захватывает сессию: сообщения одного диалога обрабатываются
// строго по одному
func (s *Session) Lock() { s.mu.Lock() }

// Unlock отпускает сессию
func (s *Session) Unlock() { s.mu.Unlock() }

// ResetIntake сбрасывает буфер приема работы перед новой отправкой
func (s *Session) ResetIntake() {
	s.PendingPrefix = ""
	s.CodeURL = ""
	s.Album = nil
}

// SessionManager выдает сессию по telegram id, создавая ее при первом
// обращении. Карта сессий — единственное разделяемое между диалогами
// состояние процесса.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewSessionManager создает менеджер сессий
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[int64]*Session)}
}

// Get возвращает сессию пользователя, создавая новую при необходимости
func (m *SessionManager) Get(telegramID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[telegramID]
	if !ok {
		session = &Session{
			TelegramID: telegramID,
			Kind:       models.TaskKindHomework,
		}
		m.sessions[telegramID] = session
	}
	return session
}

// AlbumDebounce — пауза, по истечении которой альбом считается собранным.
// Это эвристика, а не гарантия: медленная доставка может разрезать
// большой альбом на два захода (см. flushAlbum).
const AlbumDebounce = time.Second
