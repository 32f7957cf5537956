package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Stage identifies where a session is in the guided consultation flow.
type Stage string

const (
	StageAskLanguage  Stage = "ask_language"
	StageAskSymptoms  Stage = "ask_symptoms"
	StageAskAllergies Stage = "ask_allergies"
	StageGeneralQnA   Stage = "general_qna"
)

// Session holds the conversational state for one user. It is persisted as JSON
// in the key-value store and expires with the session TTL.
type Session struct {
	ID               uuid.UUID `json:"id"`
	Stage            Stage     `json:"stage"`
	Language         string    `json:"language,omitempty"`
	LangCode         string    `json:"lang_code,omitempty"`
	SymptomsUserLang string    `json:"symptoms_user_lang,omitempty"`
	SymptomsEN       string    `json:"symptoms_en,omitempty"`
	AllergiesUserLang string   `json:"allergies_user_lang,omitempty"`
	AllergiesEN      string    `json:"allergies_en,omitempty"`
	AssessmentEN     string    `json:"assessment_en,omitempty"`
	StartedAt        time.Time `json:"started_at"`
}

// NewSession creates a fresh session at the language-selection stage.
func NewSession() *Session {
	return &Session{
		ID:        uuid.New(),
		Stage:     StageAskLanguage,
		StartedAt: time.Now().UTC(),
	}
}

// Identity is the opaque caller identifier used for rate-limit accounting.
func (s *Session) Identity() string { return s.ID.String() }

// TurnRequest describes a single generation request flowing through the
// admission and caching layer.
type TurnRequest struct {
	Identity           string
	Text               string
	TargetLanguage     string
	SourceLanguageHint string
	Temperature        float64
	// Composed marks system-built prompts whose embedded user input was
	// already length-checked; the orchestrator skips input validation for
	// them.
	Composed bool
}

// TurnResult carries the generated (or cached) reply plus admission metadata.
type TurnResult struct {
	Text            string `json:"text"`
	CacheHit        bool   `json:"cache_hit"`
	RemainingMinute int    `json:"remaining_minute"`
	RemainingHour   int    `json:"remaining_hour"`
}

// MessageReply is what the chat surface renders for one processed message.
type MessageReply struct {
	Reply             string `json:"reply"`
	Stage             Stage  `json:"stage"`
	EnglishSummary    string `json:"english_summary,omitempty"`
	TranslatedSummary string `json:"translated_summary,omitempty"`
}

// SupportedLanguages maps display names to ISO codes, mirroring the languages
// the assistant can run a consultation in.
var SupportedLanguages = map[string]string{
	"English": "en", "Arabic": "ar", "German": "de", "Spanish": "es", "French": "fr",
	"Hindi": "hi", "Italian": "it", "Japanese": "ja", "Korean": "ko", "Portuguese": "pt",
	"Russian": "ru", "Chinese": "zh", "Bengali": "bn", "Tamil": "ta", "Telugu": "te",
	"Thai": "th", "Ukrainian": "uk", "Turkish": "tr", "Vietnamese": "vi", "Kannada": "kn",
}

// LanguageName resolves an ISO code back to its display name; falls back to the
// code itself for unknown values.
func LanguageName(code string) string {
	for name, c := range SupportedLanguages {
		if c == code {
			return name
		}
	}
	return code
}

// IsSupportedLanguageCode reports whether code is one of the known ISO codes.
func IsSupportedLanguageCode(code string) bool {
	for _, c := range SupportedLanguages {
		if c == code {
			return true
		}
	}
	return false
}

// Sanitize trims surrounding whitespace from user input. Length enforcement is
// a rejection, not a truncation, and lives in the turn orchestrator.
func Sanitize(text string) string {
	return strings.TrimSpace(text)
}
