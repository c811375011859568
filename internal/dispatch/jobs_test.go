package dispatch

import (
	"testing"
	"time"

	pkgmodels "event-checkin/pkg/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobRunnerCompletesInBackground(t *testing.T) {
	sender := &recordingSender{}
	runner := NewJobRunner(newTestBroadcaster(sender, &mockFetcher{}), zerolog.Nop())

	done := make(chan Job, 1)
	runner.SetNotify(func(j Job) { done <- j })

	id := runner.Start([]pkgmodels.BroadcastRow{
		{Name: "A", Phone: "1111111111"},
		{Name: "B", Phone: "2222222222"},
	}, "")
	require.NotEmpty(t, id)

	select {
	case job := <-done:
		assert.Equal(t, JobCompleted, job.State)
		assert.Equal(t, 2, job.Report.Total)
		assert.Equal(t, 2, job.Report.Sent)
		assert.NotNil(t, job.FinishedAt)
	case <-time.After(2 * time.Second):
		t.Fatal("job never finished")
	}

	job, ok := runner.Get(id)
	require.True(t, ok)
	assert.Equal(t, JobCompleted, job.State)
}

func TestJobRunnerGetUnknown(t *testing.T) {
	runner := NewJobRunner(newTestBroadcaster(&recordingSender{}, &mockFetcher{}), zerolog.Nop())

	_, ok := runner.Get("nope")
	assert.False(t, ok)
	assert.False(t, runner.Cancel("nope"))
}

func TestJobRunnerCancel(t *testing.T) {
	sender := &recordingSender{}
	b := NewBroadcaster(sender, &mockFetcher{}, "91", 10*time.Millisecond, zerolog.Nop())
	runner := NewJobRunner(b, zerolog.Nop())

	done := make(chan Job, 1)
	runner.SetNotify(func(j Job) { done <- j })

	rows := make([]pkgmodels.BroadcastRow, 100)
	for i := range rows {
		rows[i] = pkgmodels.BroadcastRow{Name: "G", Phone: "1234567890"}
	}
	id := runner.Start(rows, "")

	time.Sleep(25 * time.Millisecond)
	require.True(t, runner.Cancel(id))

	select {
	case job := <-done:
		assert.Equal(t, JobCancelled, job.State)
		assert.Less(t, job.Report.Total, 100)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled job never finished")
	}

	// Cancelling a finished job is a no-op.
	assert.False(t, runner.Cancel(id))
}
