package models

import "time"

// Stage identifies one of the five fixed phases of a debate.
type Stage string

const (
	StageSetup    Stage = "setup"
	StageOpening  Stage = "opening"
	StageRebuttal Stage = "rebuttal"
	StageClosing  Stage = "closing"
	StageSummary  Stage = "summary"
)

// Speaker identifies which side of the debate is talking.
type Speaker string

const (
	SpeakerPro Speaker = "pro"
	SpeakerCon Speaker = "con"
)

// Opponent returns the other side.
func (s Speaker) Opponent() Speaker {
	if s == SpeakerPro {
		return SpeakerCon
	}
	return SpeakerPro
}

// Winner is the recorded outcome of a finished debate.
type Winner string

const (
	WinnerPro  Winner = "pro"
	WinnerCon  Winner = "con"
	WinnerDraw Winner = "draw"
)

// AIModel describes a generation backend identity bound to one side of a debate.
type AIModel struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Provider    string `json:"provider" db:"provider"`
	Description string `json:"description" db:"description"`
	Avatar      string `json:"avatar" db:"avatar"`
}

// DebateTopic is a debatable subject from the topic catalog.
type DebateTopic struct {
	ID          string `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"`
	Trending    bool   `json:"trending" db:"trending"`
}

// TrendingTopic is an entry from the external trends feed.
type TrendingTopic struct {
	Keyword      string    `json:"keyword"`
	Trend        string    `json:"trend"`
	Source       string    `json:"source"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	LastUpdated  time.Time `json:"last_updated"`
	SearchVolume int       `json:"search_volume,omitempty"`
	NewsCount    int       `json:"news_count,omitempty"`
}

// Evidence is a scored citation attached to a single debate message.
type Evidence struct {
	ID          string `json:"id" db:"id"`
	URL         string `json:"url" db:"url"`
	Title       string `json:"title" db:"title"`
	Source      string `json:"source" db:"source"`
	Snippet     string `json:"snippet" db:"snippet"`
	Credibility int    `json:"credibility" db:"credibility"`
}

// DebateMessage is one agent's contribution within a stage. Immutable after
// creation except for the reaction counter, which the UI increments.
type DebateMessage struct {
	ID        string     `json:"id" db:"id"`
	Speaker   Speaker    `json:"speaker" db:"speaker"`
	Model     AIModel    `json:"model" db:"model"`
	Content   string     `json:"content" db:"content"`
	Timestamp time.Time  `json:"timestamp" db:"timestamp"`
	Stage     Stage      `json:"stage" db:"stage"`
	Evidence  []Evidence `json:"evidence" db:"evidence"`
	Reactions int        `json:"reactions" db:"reactions"`
}

// AudienceQuestion is a free-text note from the audience. Votes and the
// answered flag are set externally and never drive the turn loop.
type AudienceQuestion struct {
	ID        string    `json:"id" db:"id"`
	Question  string    `json:"question" db:"question"`
	Author    string    `json:"author" db:"author"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Votes     int       `json:"votes" db:"votes"`
	Answered  bool      `json:"answered" db:"answered"`
}

// DebateConfig is the immutable configuration a session is created with.
// Duration is minutes per stage and is advisory only.
type DebateConfig struct {
	Topic    DebateTopic `json:"topic"`
	ProModel AIModel     `json:"pro_model"`
	ConModel AIModel     `json:"con_model"`
	Duration int         `json:"duration"`
}

// ModelFor returns the model bound to the given speaker.
func (c DebateConfig) ModelFor(speaker Speaker) AIModel {
	if speaker == SpeakerPro {
		return c.ProModel
	}
	return c.ConModel
}

// DebateState is a point-in-time view of a session, and the shape persisted
// when a debate finishes.
type DebateState struct {
	ID                string             `json:"id" db:"id"`
	Config            DebateConfig       `json:"config"`
	Stage             Stage              `json:"stage" db:"stage"`
	Messages          []DebateMessage    `json:"messages"`
	AudienceQuestions []AudienceQuestion `json:"audience_questions"`
	StartTime         time.Time          `json:"start_time" db:"start_time"`
	CurrentSpeaker    Speaker            `json:"current_speaker" db:"current_speaker"`
	Winner            Winner             `json:"winner,omitempty" db:"winner"`
	Summary           string             `json:"summary,omitempty" db:"summary"`
}

// TranscriptEntry is one role/content pair of the prior-turn transcript sent
// to generation backends.
type TranscriptEntry struct {
	Role    Speaker `json:"role"`
	Content string  `json:"content"`
}

// GenerationRequest is the uniform request shape for all generation backends.
type GenerationRequest struct {
	Model            AIModel           `json:"model"`
	Stage            Stage             `json:"stage"`
	Position         Speaker           `json:"position"`
	Topic            string            `json:"topic"`
	PreviousMessages []TranscriptEntry `json:"previous_messages"`
}

// GenerationResponse is the uniform response shape for all generation backends.
type GenerationResponse struct {
	Content string `json:"content"`
}

// EvidenceQuery is the request shape for the evidence search collaborator.
type EvidenceQuery struct {
	Query string `json:"query"`
	Topic string `json:"topic"`
}

// DebateSummary is the condensed listing row for finished debates.
type DebateSummary struct {
	ID        string    `json:"id" db:"id"`
	Topic     string    `json:"topic" db:"topic"`
	ProModel  string    `json:"pro_model" db:"pro_model"`
	ConModel  string    `json:"con_model" db:"con_model"`
	Winner    Winner    `json:"winner" db:"winner"`
	Duration  int       `json:"duration" db:"duration"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
