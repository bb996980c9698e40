package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ctfarena/model"
)

// Verdict is the outcome of a submission.
type Verdict string

const (
	Accepted  Verdict = "accepted"
	Rejected  Verdict = "rejected"
	Duplicate Verdict = "duplicate"
)

// Verifier decides whether a well-formed flag is correct for a challenge.
type Verifier interface {
	Verify(ctx context.Context, challengeID int, flag string) (Verdict, error)
}

// DigestVerifier checks flags against bcrypt digests, so the process never
// holds plaintext flags.
type DigestVerifier struct {
	digests map[int][]byte
}

func NewDigestVerifier(digests map[int]string) *DigestVerifier {
	v := &DigestVerifier{digests: make(map[int][]byte, len(digests))}
	for id, d := range digests {
		v.digests[id] = []byte(d)
	}
	return v
}

// HashFlag produces a digest suitable for NewDigestVerifier.
func HashFlag(flag string, cost int) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(flag), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (v *DigestVerifier) Verify(ctx context.Context, challengeID int, flag string) (Verdict, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	digest, ok := v.digests[challengeID]
	if !ok {
		return "", fmt.Errorf("no flag digest for challenge %d: %w", challengeID, model.ErrNotFound)
	}
	err := bcrypt.CompareHashAndPassword(digest, []byte(flag))
	switch {
	case err == nil:
		return Accepted, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return Rejected, nil
	default:
		return "", fmt.Errorf("compare flag digest: %w", err)
	}
}

// VerifySubject is where flag checks are requested when verification runs
// in another service.
const VerifySubject = "flags.verify.request"

// Requester is the subset of natsclient.NatsClient used for remote checks.
type Requester interface {
	RequestJSON(ctx context.Context, subject string, req, resp any) error
}

type verifyRequest struct {
	ChallengeID int    `json:"challengeId"`
	Flag        string `json:"flag"`
}

type verifyReply struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NatsVerifier asks a remote checker over NATS request/reply.
type NatsVerifier struct {
	client  Requester
	timeout time.Duration
}

func NewNatsVerifier(client Requester, timeout time.Duration) *NatsVerifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NatsVerifier{client: client, timeout: timeout}
}

func (v *NatsVerifier) Verify(ctx context.Context, challengeID int, flag string) (Verdict, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	var reply verifyReply
	if err := v.client.RequestJSON(ctx, VerifySubject, verifyRequest{ChallengeID: challengeID, Flag: flag}, &reply); err != nil {
		return "", err
	}
	switch Verdict(reply.Status) {
	case Accepted:
		return Accepted, nil
	case Rejected:
		return Rejected, nil
	default:
		return "", fmt.Errorf("verifier replied %q: %s", reply.Status, reply.Message)
	}
}
