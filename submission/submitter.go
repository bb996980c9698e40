package submission

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"

	"ctfarena/completion"
	"ctfarena/events"
	"ctfarena/logger"
	"ctfarena/model"
)

// ChallengeSource looks challenges up by id. *catalog.Store satisfies it.
type ChallengeSource interface {
	Get(id int) (model.Challenge, error)
}

// Result is what the UI shows after a submission. Message is meant for a
// transient notification; the user can always retry.
type Result struct {
	ChallengeID int     `json:"challengeId"`
	Verdict     Verdict `json:"verdict,omitempty"`
	Points      int     `json:"points,omitempty"`
	Message     string  `json:"message"`
}

// Submitter is the single flag submission path: shape check, verification,
// completion tracking and notification.
type Submitter struct {
	challenges ChallengeSource
	verifier   Verifier
	tracker    *completion.Tracker
	pub        events.Publisher
	logger     *logger.Logger
}

func NewSubmitter(challenges ChallengeSource, verifier Verifier, tracker *completion.Tracker, pub events.Publisher, log *logger.Logger) *Submitter {
	if log == nil {
		log = logger.Nop()
	}
	return &Submitter{
		challenges: challenges,
		verifier:   verifier,
		tracker:    tracker,
		pub:        pub,
		logger:     log,
	}
}

// Submit never calls the verifier for a malformed flag. A returned error is
// either model.ErrNotFound, a shape error (model.ErrEmptyFlag,
// model.ErrMalformedFlag) or a verifier failure; Result.Message is filled in
// every case.
func (s *Submitter) Submit(ctx context.Context, challengeID int, raw string) (Result, error) {
	traceID := uuid.New().String()
	res := Result{ChallengeID: challengeID}

	challenge, err := s.challenges.Get(challengeID)
	if err != nil {
		res.Message = "Challenge not found."
		s.logger.Log(zapcore.WarnLevel, traceID, "Submission for unknown challenge", map[string]any{
			"method":      "Submit",
			"challengeID": challengeID,
		}, "SUBMISSION", err)
		return res, err
	}

	flag, err := CheckShape(raw)
	if err != nil {
		res.Message = shapeMessage(err)
		s.logger.Log(zapcore.InfoLevel, traceID, "Rejected malformed flag", map[string]any{
			"method":      "Submit",
			"challengeID": challengeID,
		}, "SUBMISSION", err)
		return res, err
	}

	verdict, err := s.verifier.Verify(ctx, challengeID, flag)
	if err != nil {
		res.Message = "Could not verify the flag right now. Try again."
		s.logger.Log(zapcore.ErrorLevel, traceID, "Flag verification failed", map[string]any{
			"method":      "Submit",
			"challengeID": challengeID,
		}, "SUBMISSION", err)
		return res, err
	}

	switch verdict {
	case Accepted:
		if !s.tracker.MarkCompleted(challengeID) {
			res.Verdict = Duplicate
			res.Message = "Already solved."
			break
		}
		res.Verdict = Accepted
		res.Points = challenge.Points
		res.Message = "Correct flag! Points awarded."
		s.publish(ctx, traceID, events.ChallengeSolved(challengeID, challenge.Points))
	default:
		res.Verdict = Rejected
		res.Message = "Incorrect flag. Try again!"
		s.publish(ctx, traceID, events.FlagRejected(challengeID))
	}

	s.logger.Log(zapcore.InfoLevel, traceID, "Flag submitted", map[string]any{
		"method":      "Submit",
		"challengeID": challengeID,
		"verdict":     res.Verdict,
	}, "SUBMISSION", nil)
	return res, nil
}

func (s *Submitter) publish(ctx context.Context, traceID string, e events.Event) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(ctx, e); err != nil {
		s.logger.Log(zapcore.WarnLevel, traceID, "Failed to publish submission event", map[string]any{
			"kind": e.Kind,
		}, "SUBMISSION", err)
	}
}

func shapeMessage(err error) string {
	if errors.Is(err, model.ErrEmptyFlag) {
		return "Please enter a flag"
	}
	return "Invalid flag format. Use flag{...}"
}
