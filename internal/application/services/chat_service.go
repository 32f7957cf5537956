package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pharmagen/pharmagen/internal/core/domain/chat"
	"github.com/pharmagen/pharmagen/internal/core/domain/report"
	"github.com/pharmagen/pharmagen/internal/core/ports"
)

const diagnosisPromptTemplate = `Based on the symptoms and allergies below, provide a concise medical assessment.

Symptoms: %s
Allergies: %s

Provide your response in this EXACT format with brief, clear information:

Diagnosis:
[2-3 sentences about the likely condition]

Proposed New Drug:
[2-3 sentences about a hypothetical drug name and how it works]

Hypothetical Dosage/Instructions:
[2-3 sentences about dosage, frequency, and how to take it]

Allergy/Safety Note:
[2-3 sentences about safety considerations given the patient's allergies]

Keep each section brief and direct. No extra explanations or bullet point breakdowns.`

// ChatService drives the guided consultation: language selection, symptom and
// allergy intake, assessment generation, then open Q&A. Every upstream-bound
// operation goes through the turn orchestrator; small canned strings and
// section titles use the free cache-backed translator.
type ChatService struct {
	sessions         ports.SessionRepository
	turns            ports.TurnOrchestrator
	translator       ports.Translator
	maxMessageLength int
	logger           *logrus.Logger
}

func NewChatService(sessions ports.SessionRepository, turns ports.TurnOrchestrator, translator ports.Translator, maxMessageLength int, logger *logrus.Logger) *ChatService {
	if maxMessageLength <= 0 {
		maxMessageLength = 1000
	}
	return &ChatService{
		sessions:         sessions,
		turns:            turns,
		translator:       translator,
		maxMessageLength: maxMessageLength,
		logger:           logger,
	}
}

// StartSession implements ports.ChatService.StartSession.
func (s *ChatService) StartSession(ctx context.Context) (*chat.Session, string, error) {
	session := chat.NewSession()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"session_id": session.ID}).Info("chat session started")
	}
	greeting := "Welcome to PharmaGEN! Please start by typing your language: " + supportedLanguageList() + "."
	return session, greeting, nil
}

// GetSession implements ports.ChatService.GetSession.
func (s *ChatService) GetSession(ctx context.Context, sessionID uuid.UUID) (*chat.Session, error) {
	return s.sessions.Get(ctx, sessionID)
}

// ProcessMessage advances the session state machine with one user message.
// RateLimitedError, ErrInputTooLong and UpstreamError propagate to the caller;
// everything else is answered in-band.
func (s *ChatService) ProcessMessage(ctx context.Context, sessionID uuid.UUID, message string) (*chat.MessageReply, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	message = chat.Sanitize(message)
	if message == "" {
		reply := s.translateReply(ctx, "Please type a message so I can assist you.", session.LangCode)
		return &chat.MessageReply{Reply: reply, Stage: session.Stage}, nil
	}
	// Cheap rejection before any store or upstream work.
	if len([]rune(message)) > s.maxMessageLength {
		return nil, chat.ErrInputTooLong
	}

	var reply *chat.MessageReply
	switch session.Stage {
	case chat.StageAskLanguage:
		reply, err = s.handleLanguageSelection(ctx, session, message)
	case chat.StageAskSymptoms:
		reply, err = s.handleSymptoms(ctx, session, message)
	case chat.StageAskAllergies:
		reply, err = s.handleAllergies(ctx, session, message)
	case chat.StageGeneralQnA:
		reply, err = s.handleQnA(ctx, session, message)
	default:
		return nil, fmt.Errorf("session %s is in unknown stage %q", session.ID, session.Stage)
	}
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return reply, nil
}

func (s *ChatService) handleLanguageSelection(ctx context.Context, session *chat.Session, message string) (*chat.MessageReply, error) {
	selected := titleCase(message)
	code, ok := chat.SupportedLanguages[selected]
	if !ok {
		reply := fmt.Sprintf("Sorry, %q is not supported. Please select from:\n%s", message, supportedLanguageList())
		return &chat.MessageReply{Reply: reply, Stage: session.Stage}, nil
	}

	session.Language = selected
	session.LangCode = code
	session.Stage = chat.StageAskSymptoms

	replyEN := fmt.Sprintf("Thank you! Your selected language is %s.\n\nPlease describe your symptoms in detail.", selected)
	return &chat.MessageReply{
		Reply: s.translateReply(ctx, replyEN, code),
		Stage: session.Stage,
	}, nil
}

func (s *ChatService) handleSymptoms(ctx context.Context, session *chat.Session, message string) (*chat.MessageReply, error) {
	symptomsEN, err := s.toEnglish(ctx, session, message)
	if err != nil {
		return nil, err
	}
	session.SymptomsUserLang = message
	session.SymptomsEN = symptomsEN
	session.Stage = chat.StageAskAllergies

	replyEN := "Thank you for sharing your symptoms. Do you have any known allergies? If none, please say 'None'."
	return &chat.MessageReply{
		Reply: s.translateReply(ctx, replyEN, session.LangCode),
		Stage: session.Stage,
	}, nil
}

func (s *ChatService) handleAllergies(ctx context.Context, session *chat.Session, message string) (*chat.MessageReply, error) {
	allergiesEN, err := s.toEnglish(ctx, session, message)
	if err != nil {
		return nil, err
	}
	session.AllergiesUserLang = message
	session.AllergiesEN = allergiesEN

	prompt := fmt.Sprintf(diagnosisPromptTemplate, session.SymptomsEN, session.AllergiesEN)
	result, err := s.turns.HandleTurn(ctx, chat.TurnRequest{
		Identity:       session.Identity(),
		Text:           prompt,
		TargetLanguage: "en",
		Composed:       true,
	})
	if err != nil {
		return nil, err
	}

	session.AssessmentEN = result.Text
	session.Stage = chat.StageGeneralQnA

	assessment := report.ParseAssessment(result.Text)
	translated := s.translateReply(ctx, result.Text, session.LangCode)
	return &chat.MessageReply{
		Reply:             translated,
		Stage:             session.Stage,
		EnglishSummary:    s.englishSummary(session, assessment),
		TranslatedSummary: s.translatedSummary(ctx, session, assessment),
	}, nil
}

func (s *ChatService) handleQnA(ctx context.Context, session *chat.Session, message string) (*chat.MessageReply, error) {
	questionEN, err := s.toEnglish(ctx, session, message)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Previous symptoms: %s
Previous allergies: %s
Previous diagnosis and drug concept: %s

User question: %s

Respond in a clear, concise way.`,
		orNone(session.SymptomsEN), orNone(session.AllergiesEN), orNone(session.AssessmentEN), questionEN)

	result, err := s.turns.HandleTurn(ctx, chat.TurnRequest{
		Identity:       session.Identity(),
		Text:           prompt,
		TargetLanguage: "en",
		Composed:       true,
	})
	if err != nil {
		return nil, err
	}

	reply := &chat.MessageReply{
		Reply: s.translateReply(ctx, result.Text, session.LangCode),
		Stage: session.Stage,
	}
	if session.AssessmentEN != "" {
		assessment := report.ParseAssessment(session.AssessmentEN)
		reply.EnglishSummary = s.englishSummary(session, assessment)
		reply.TranslatedSummary = s.translatedSummary(ctx, session, assessment)
	}
	return reply, nil
}

// toEnglish routes a user message through the metered turn path when the
// session language is not English. The translation consumes admission budget
// exactly like any other upstream call — unless it is already cached.
func (s *ChatService) toEnglish(ctx context.Context, session *chat.Session, message string) (string, error) {
	if session.LangCode == "" || session.LangCode == "en" {
		return message, nil
	}
	result, err := s.turns.HandleTurn(ctx, chat.TurnRequest{
		Identity:           session.Identity(),
		Text:               message,
		TargetLanguage:     "en",
		SourceLanguageHint: session.LangCode,
	})
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// translateReply converts an English reply to the session language via the
// free translator; failures degrade to the English text.
func (s *ChatService) translateReply(ctx context.Context, textEN, langCode string) string {
	if langCode == "" || langCode == "en" {
		return textEN
	}
	translated, err := s.translator.Translate(ctx, textEN, "en", langCode)
	if err != nil || translated == "" {
		return textEN
	}
	return translated
}

func (s *ChatService) englishSummary(session *chat.Session, a report.Assessment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Symptoms:** %s\n\n", session.SymptomsEN)
	fmt.Fprintf(&b, "**Allergies:** %s\n\n", session.AllergiesEN)
	fmt.Fprintf(&b, "**Diagnosis:** %s\n\n", a.Diagnosis)
	fmt.Fprintf(&b, "**Medicine:** %s\n\n", a.Drug)
	fmt.Fprintf(&b, "**Dosage:** %s\n\n", a.Dosage)
	fmt.Fprintf(&b, "**Safety Notes:** %s\n\n", a.Safety)
	return b.String()
}

func (s *ChatService) translatedSummary(ctx context.Context, session *chat.Session, a report.Assessment) string {
	lang := session.LangCode
	title := func(en string) string { return s.translateReply(ctx, en, lang) }
	body := func(en string) string {
		if !report.Found(en) {
			return en
		}
		return s.translateReply(ctx, en, lang)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "### %s:\n%s\n\n", title("Symptoms"), session.SymptomsUserLang)
	fmt.Fprintf(&b, "### %s:\n%s\n\n", title("Allergies"), session.AllergiesUserLang)
	fmt.Fprintf(&b, "### %s:\n%s\n\n", title("Diagnosis"), body(a.Diagnosis))
	fmt.Fprintf(&b, "### %s:\n%s\n\n", title("Medicine"), body(a.Drug))
	fmt.Fprintf(&b, "### %s:\n%s\n\n", title("Dosage"), body(a.Dosage))
	fmt.Fprintf(&b, "### %s:\n%s\n\n", title("Safety Notes"), body(a.Safety))
	return b.String()
}

func supportedLanguageList() string {
	names := make([]string, 0, len(chat.SupportedLanguages))
	for name := range chat.SupportedLanguages {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
