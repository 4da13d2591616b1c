package debate

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"dev.helix.debate/internal/metrics"
	"dev.helix.debate/internal/models"
)

// Session owns one debate end to end: the ordered turn log, the audience
// question log, the stage/speaker state, and the final outcome. A single
// logical loop advances it; concurrent turn triggers are rejected with
// ErrTurnInProgress and concurrent readers get consistent snapshots.
type Session struct {
	mu        sync.Mutex
	state     models.DebateState
	policy    StagePolicy
	generator *MessageGenerator
	attacher  *EvidenceAttacher
	logger    *logrus.Logger

	inFlight bool
	haltErr  *HaltError

	now func() time.Time
}

// NewSession creates a session in the setup stage with the pro side speaking
// first once the debate starts.
func NewSession(
	config models.DebateConfig,
	generator *MessageGenerator,
	attacher *EvidenceAttacher,
	policy StagePolicy,
	logger *logrus.Logger,
) *Session {
	if logger == nil {
		logger = logrus.New()
	}
	return &Session{
		state: models.DebateState{
			ID:             uuid.New().String(),
			Config:         config,
			Stage:          models.StageSetup,
			StartTime:      time.Now(),
			CurrentSpeaker: models.SpeakerPro,
		},
		policy:    policy,
		generator: generator,
		attacher:  attacher,
		logger:    logger,
		now:       time.Now,
	}
}

// ID returns the session's identifier.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ID
}

// Start moves the session from setup into the opening stage.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Stage != models.StageSetup {
		return fmt.Errorf("cannot start debate from stage %q", s.state.Stage)
	}
	s.state.Stage = models.StageOpening
	s.state.CurrentSpeaker = models.SpeakerPro

	s.logger.WithFields(logrus.Fields{
		"session": s.state.ID,
		"topic":   s.state.Config.Topic.Title,
	}).Info("Debate started")
	return nil
}

// AdvanceTurn runs one step of the per-turn loop: generate content for the
// current speaker, attach evidence, append the turn, flip the speaker, and
// transition the stage when it completes. It returns the appended turn, or
// nil when the call only performed a stage transition.
func (s *Session) AdvanceTurn(ctx context.Context) (*models.DebateMessage, error) {
	s.mu.Lock()

	if s.haltErr != nil {
		s.mu.Unlock()
		return nil, ErrSessionHalted
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrTurnInProgress
	}
	switch s.state.Stage {
	case models.StageSetup:
		s.mu.Unlock()
		return nil, ErrNotStarted
	case models.StageSummary:
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}

	// Stage already at its limit: transition instead of generating.
	if s.policy.IsStageComplete(s.state.Stage, s.turnsInStageLocked(s.state.Stage)) {
		s.transitionLocked()
		s.mu.Unlock()
		return nil, nil
	}

	stage := s.state.Stage
	speaker := s.state.CurrentSpeaker
	config := s.state.Config
	prior := make([]models.DebateMessage, len(s.state.Messages))
	copy(prior, s.state.Messages)

	s.inFlight = true
	s.mu.Unlock()

	// Both awaits happen outside the lock so readers stay unblocked. The
	// inFlight guard keeps a second trigger from interleaving.
	outcome, err := s.generator.Generate(ctx, config, stage, speaker, prior)
	if err != nil {
		s.handleGenerationFailure(ctx, err)
		return nil, err
	}

	evidence := s.attacher.Attach(ctx, outcome.Content, config.Topic.Title)

	msg := models.DebateMessage{
		ID:        fmt.Sprintf("msg-%s", uuid.New().String()),
		Speaker:   speaker,
		Model:     config.ModelFor(speaker),
		Content:   outcome.Content,
		Timestamp: s.now(),
		Stage:     stage,
		Evidence:  evidence,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	// Vote may have closed the session while the call was outstanding; the
	// completed turn is still appended (no torn writes) unless the log is
	// already terminal.
	if s.state.Stage == models.StageSummary {
		return nil, ErrSessionClosed
	}

	s.state.Messages = append(s.state.Messages, msg)
	s.state.CurrentSpeaker = speaker.Opponent()

	metrics.RecordTurn(string(stage), string(speaker))
	if outcome.Fallback {
		metrics.RecordFallbackTurn()
	}

	s.logger.WithFields(logrus.Fields{
		"session":  s.state.ID,
		"stage":    stage,
		"speaker":  speaker,
		"fallback": outcome.Fallback,
		"attempts": outcome.Attempts,
		"evidence": len(evidence),
	}).Debug("Turn appended")

	if s.policy.IsStageComplete(s.state.Stage, s.turnsInStageLocked(s.state.Stage)) {
		s.transitionLocked()
	}

	return &msg, nil
}

// handleGenerationFailure halts the automatic loop on an unexpected generator
// error. Context cancellation is a normal stop signal, not a fault.
func (s *Session) handleGenerationFailure(ctx context.Context, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if ctx.Err() != nil {
		return
	}

	s.haltErr = &HaltError{Category: ClassifyFailure(err), Err: err}
	s.logger.WithError(err).WithFields(logrus.Fields{
		"session":  s.state.ID,
		"category": s.haltErr.Category,
	}).Error("Debate loop halted")
}

// Halted reports whether the loop is stopped and, if so, why.
func (s *Session) Halted() (bool, *HaltError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.haltErr != nil, s.haltErr
}

// Resume clears a halt so the operator can restart the loop manually.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.haltErr != nil {
		s.logger.WithField("session", s.state.ID).Info("Debate loop resumed")
		s.haltErr = nil
	}
}

// Vote finalizes the debate outcome. Voting before the session naturally
// reaches the summary stage is accepted as a manual override: the session
// jumps straight to summary and stops accepting turns, skipping whatever
// stage turns were still pending. Calling Vote again overwrites the previous
// outcome (last write wins).
func (s *Session) Vote(winner models.Winner) error {
	switch winner {
	case models.WinnerPro, models.WinnerCon, models.WinnerDraw:
	default:
		return ErrInvalidWinner
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Winner = winner
	s.state.Stage = models.StageSummary
	if s.state.Summary == "" {
		s.state.Summary = s.summaryLocked()
	}

	s.logger.WithFields(logrus.Fields{
		"session": s.state.ID,
		"winner":  winner,
	}).Info("Debate finalized")
	return nil
}

// AddAudienceQuestion appends an audience note. Notes are accepted at any
// stage, including after the debate is finalized.
func (s *Session) AddAudienceQuestion(question, author string) models.AudienceQuestion {
	if author == "" {
		author = "Anonymous"
	}
	q := models.AudienceQuestion{
		ID:        uuid.New().String(),
		Question:  question,
		Author:    author,
		Timestamp: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AudienceQuestions = append(s.state.AudienceQuestions, q)
	return q
}

// AddReaction increments the reaction counter of the given turn. The counter
// is externally driven and never read by the turn loop.
func (s *Session) AddReaction(messageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Messages {
		if s.state.Messages[i].ID == messageID {
			s.state.Messages[i].Reactions++
			return true
		}
	}
	return false
}

// UpvoteQuestion increments the vote counter of an audience question.
func (s *Session) UpvoteQuestion(questionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.AudienceQuestions {
		if s.state.AudienceQuestions[i].ID == questionID {
			s.state.AudienceQuestions[i].Votes++
			return true
		}
	}
	return false
}

// Snapshot returns a consistent copy of the session state for readers. No
// partially constructed turn is ever visible.
func (s *Session) Snapshot() models.DebateState {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.state
	snap.Messages = make([]models.DebateMessage, len(s.state.Messages))
	for i, msg := range s.state.Messages {
		snap.Messages[i] = msg
		if msg.Evidence != nil {
			snap.Messages[i].Evidence = make([]models.Evidence, len(msg.Evidence))
			copy(snap.Messages[i].Evidence, msg.Evidence)
		}
	}
	snap.AudienceQuestions = make([]models.AudienceQuestion, len(s.state.AudienceQuestions))
	copy(snap.AudienceQuestions, s.state.AudienceQuestions)
	return snap
}

// Stage returns the current stage.
func (s *Session) Stage() models.Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Stage
}

// transitionLocked advances to the next stage, resetting the speaker to pro
// on entering a non-terminal stage and producing the closing summary when the
// terminal stage is reached. Callers must hold the lock.
func (s *Session) transitionLocked() {
	next := Advance(s.state.Stage)
	if next == s.state.Stage {
		return
	}

	s.state.Stage = next
	if next == models.StageSummary {
		if s.state.Summary == "" {
			s.state.Summary = s.summaryLocked()
		}
	} else {
		s.state.CurrentSpeaker = models.SpeakerPro
	}

	s.logger.WithFields(logrus.Fields{
		"session": s.state.ID,
		"stage":   next,
	}).Info("Debate stage advanced")
}

func (s *Session) turnsInStageLocked(stage models.Stage) int {
	count := 0
	for _, msg := range s.state.Messages {
		if msg.Stage == stage {
			count++
		}
	}
	return count
}

// summaryLocked picks the closing summary deterministically from a fixed
// template set keyed by the session ID. It is a cosmetic wrap-up and does not
// reflect the actual turn content.
func (s *Session) summaryLocked() string {
	topic := s.state.Config.Topic.Title
	proName := s.state.Config.ProModel.Name
	conName := s.state.Config.ConModel.Name

	summaries := []string{
		fmt.Sprintf("「%s」について、%sと%sによる白熱した議論が繰り広げられました。両者とも説得力のある論証を展開し、この複雑な問題の多面性が浮き彫りになりました。", topic, proName, conName),
		fmt.Sprintf("今回のディベートでは、「%s」という重要な議題について深い洞察が得られました。%sの積極的なアプローチと%sの慎重な分析により、バランスの取れた議論となりました。", topic, proName, conName),
		fmt.Sprintf("「%s」に関する本日の議論は、現代社会が直面する重要な課題について考える良い機会となりました。%sと%sそれぞれの視点から、問題の核心に迫ることができました。", topic, proName, conName),
	}

	h := fnv.New32a()
	h.Write([]byte(s.state.ID))
	return summaries[h.Sum32()%uint32(len(summaries))]
}
