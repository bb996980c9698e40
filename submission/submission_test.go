package submission

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ctfarena/catalog"
	"ctfarena/completion"
	"ctfarena/events"
	"ctfarena/model"
)

type countingVerifier struct {
	calls   int
	verdict Verdict
	err     error
}

func (v *countingVerifier) Verify(context.Context, int, string) (Verdict, error) {
	v.calls++
	return v.verdict, v.err
}

func TestCheckShape(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"flag{abc}", "flag{abc}", nil},
		{"  flag{abc}\n", "flag{abc}", nil},
		{"flag{}", "flag{}", nil},
		{"", "", model.ErrEmptyFlag},
		{"   ", "", model.ErrEmptyFlag},
		{"flag(abc)", "", model.ErrMalformedFlag},
		{"FLAG{abc}", "", model.ErrMalformedFlag},
		{"flag{abc", "", model.ErrMalformedFlag},
		{"flag}", "", model.ErrMalformedFlag},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CheckShape(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newSubmitter(t *testing.T, v Verifier) (*Submitter, *completion.Tracker, *[]events.Event) {
	t.Helper()
	store, err := catalog.New(catalog.SampleChallenges())
	require.NoError(t, err)
	tracker := completion.New(store)
	var seen []events.Event
	pub := events.PublisherFunc(func(_ context.Context, e events.Event) error {
		seen = append(seen, e)
		return nil
	})
	return NewSubmitter(store, v, tracker, pub, nil), tracker, &seen
}

func TestMalformedFlagSkipsVerifier(t *testing.T) {
	v := &countingVerifier{verdict: Accepted}
	s, tracker, seen := newSubmitter(t, v)

	res, err := s.Submit(context.Background(), 1, "flag(abc)")

	assert.ErrorIs(t, err, model.ErrMalformedFlag)
	assert.Equal(t, "Invalid flag format. Use flag{...}", res.Message)
	assert.Zero(t, v.calls)
	assert.False(t, tracker.IsCompleted(1))
	assert.Empty(t, *seen)
}

func TestEmptyFlag(t *testing.T) {
	v := &countingVerifier{verdict: Accepted}
	s, _, _ := newSubmitter(t, v)

	res, err := s.Submit(context.Background(), 1, " ")
	assert.ErrorIs(t, err, model.ErrEmptyFlag)
	assert.Equal(t, "Please enter a flag", res.Message)
	assert.Zero(t, v.calls)
}

func TestUnknownChallenge(t *testing.T) {
	v := &countingVerifier{verdict: Accepted}
	s, _, _ := newSubmitter(t, v)

	_, err := s.Submit(context.Background(), 77, "flag{x}")
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Zero(t, v.calls)
}

func TestAcceptedMarksCompletedOnce(t *testing.T) {
	v := &countingVerifier{verdict: Accepted}
	s, tracker, seen := newSubmitter(t, v)

	res, err := s.Submit(context.Background(), 1, "flag{hello}")
	require.NoError(t, err)
	assert.Equal(t, Accepted, res.Verdict)
	assert.Equal(t, 150, res.Points)
	assert.True(t, tracker.IsCompleted(1))

	res, err = s.Submit(context.Background(), 1, "flag{hello}")
	require.NoError(t, err)
	assert.Equal(t, Duplicate, res.Verdict)
	assert.Zero(t, res.Points)

	stats, _ := tracker.Stats()
	assert.Equal(t, model.CompletionStats{Count: 1, TotalPoints: 150, Total: 6}, stats)

	require.Len(t, *seen, 1)
	assert.Equal(t, events.KindChallengeSolved, (*seen)[0].Kind)
	assert.Equal(t, 150, (*seen)[0].Points)
}

func TestRejectedAllowsRetry(t *testing.T) {
	v := &countingVerifier{verdict: Rejected}
	s, tracker, seen := newSubmitter(t, v)

	res, err := s.Submit(context.Background(), 2, "flag{nope}")
	require.NoError(t, err)
	assert.Equal(t, Rejected, res.Verdict)
	assert.Equal(t, "Incorrect flag. Try again!", res.Message)
	assert.False(t, tracker.IsCompleted(2))
	require.Len(t, *seen, 1)
	assert.Equal(t, events.KindFlagRejected, (*seen)[0].Kind)

	v.verdict = Accepted
	res, err = s.Submit(context.Background(), 2, "flag{yes}")
	require.NoError(t, err)
	assert.Equal(t, Accepted, res.Verdict)
}

func TestVerifierFailureIsReported(t *testing.T) {
	boom := errors.New("checker down")
	s, tracker, _ := newSubmitter(t, &countingVerifier{err: boom})

	res, err := s.Submit(context.Background(), 3, "flag{x}")
	assert.ErrorIs(t, err, boom)
	assert.NotEmpty(t, res.Message)
	assert.False(t, tracker.IsCompleted(3))
}

func TestDigestVerifier(t *testing.T) {
	digest, err := HashFlag("flag{hello}", bcrypt.MinCost)
	require.NoError(t, err)
	v := NewDigestVerifier(map[int]string{1: digest})
	ctx := context.Background()

	verdict, err := v.Verify(ctx, 1, "flag{hello}")
	require.NoError(t, err)
	assert.Equal(t, Accepted, verdict)

	verdict, err = v.Verify(ctx, 1, "flag{world}")
	require.NoError(t, err)
	assert.Equal(t, Rejected, verdict)

	_, err = v.Verify(ctx, 2, "flag{hello}")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

type fakeRequester struct {
	subject string
	req     any
	reply   verifyReply
	err     error
}

func (f *fakeRequester) RequestJSON(_ context.Context, subject string, req, resp any) error {
	f.subject = subject
	f.req = req
	if f.err != nil {
		return f.err
	}
	*(resp.(*verifyReply)) = f.reply
	return nil
}

func TestNatsVerifier(t *testing.T) {
	client := &fakeRequester{reply: verifyReply{Status: "accepted"}}
	v := NewNatsVerifier(client, 0)

	verdict, err := v.Verify(context.Background(), 5, "flag{stego}")
	require.NoError(t, err)
	assert.Equal(t, Accepted, verdict)
	assert.Equal(t, VerifySubject, client.subject)
	assert.Equal(t, verifyRequest{ChallengeID: 5, Flag: "flag{stego}"}, client.req)

	client.reply = verifyReply{Status: "rejected"}
	verdict, err = v.Verify(context.Background(), 5, "flag{no}")
	require.NoError(t, err)
	assert.Equal(t, Rejected, verdict)

	client.reply = verifyReply{Status: "teapot", Message: "?"}
	_, err = v.Verify(context.Background(), 5, "flag{no}")
	assert.Error(t, err)

	client.err = context.DeadlineExceeded
	_, err = v.Verify(context.Background(), 5, "flag{no}")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
