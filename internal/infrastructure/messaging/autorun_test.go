package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satire-press-api/internal/application/pipeline"
	apperrors "satire-press-api/pkg/errors"
)

type fakeRunner struct {
	calls    []string
	editedBy string
	outcomes []*pipeline.Outcome
	err      error
}

func (f *fakeRunner) RunAll(_ context.Context, bookID, editedBy string) ([]*pipeline.Outcome, error) {
	f.calls = append(f.calls, bookID)
	f.editedBy = editedBy
	return f.outcomes, f.err
}

func autorunMessage(t *testing.T, job *AutorunJob) *Message {
	t.Helper()
	msg, err := NewMessage(job.JobID, TypeBookAutorun, job.BookID, job)
	require.NoError(t, err)
	return msg
}

func TestAutorunHandlerRunsBook(t *testing.T) {
	runner := &fakeRunner{outcomes: []*pipeline.Outcome{{ChapterNumber: 1}, {ChapterNumber: 2}}}
	handler := NewAutorunHandler(runner)

	err := handler(context.Background(), autorunMessage(t, &AutorunJob{JobID: "j1", BookID: "b1"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"b1"}, runner.calls)
	assert.Equal(t, "autorun", runner.editedBy)
}

func TestAutorunHandlerErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantErr   bool
		permanent bool
	}{
		{name: "completed book is a no-op", err: apperrors.ErrBookCompleted},
		{name: "missing book", err: apperrors.ErrBookNotFound, wantErr: true, permanent: true},
		{name: "no outline", err: apperrors.ErrInvalidParam.WithDetail("book has no chapter outline"), wantErr: true, permanent: true},
		{name: "upstream failure retries", err: apperrors.ErrGenerationFailed.WithError(errors.New("timeout")), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAutorunHandler(&fakeRunner{err: tt.err})
			err := handler(context.Background(), autorunMessage(t, &AutorunJob{JobID: "j", BookID: "b", RequestedBy: "ops"}))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.permanent, errors.Is(err, ErrPermanent))
		})
	}
}

func TestAutorunHandlerRejectsEmptyJob(t *testing.T) {
	runner := &fakeRunner{}
	err := NewAutorunHandler(runner)(context.Background(), autorunMessage(t, &AutorunJob{JobID: "j"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPermanent)
	assert.Empty(t, runner.calls)
}
