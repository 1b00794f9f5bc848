package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceRegistration(t *testing.T) {
	svc, err := NewService()
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Stop() })

	_, err = svc.AddJob("", "0 * * * *", func() {})
	assert.ErrorIs(t, err, ErrEmptyJobName)

	_, err = svc.AddJob("hourly", " ", func() {})
	assert.ErrorIs(t, err, ErrEmptyCronExpr)

	_, err = svc.AddIntervalJob("fast", 0, func() {})
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = svc.AddJob("hourly", "not a cron", func() {})
	assert.Error(t, err)

	_, err = svc.AddJob("hourly", "0 * * * *", func() {})
	require.NoError(t, err)
	_, err = svc.AddIntervalJob("fast", time.Minute, func() {})
	require.NoError(t, err)

	names := map[string]bool{}
	for _, j := range svc.Jobs() {
		names[j.Name()] = true
	}
	assert.True(t, names["hourly"])
	assert.True(t, names["fast"])
}

func TestIntervalJobRuns(t *testing.T) {
	svc, err := NewService()
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Stop() })

	ran := make(chan struct{}, 1)
	_, err = svc.AddIntervalJob("tick", 20*time.Millisecond, func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	svc.Start()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("interval job did not run")
	}
}

func TestNilServiceNotInitialized(t *testing.T) {
	var svc *Service
	_, err := svc.AddJob("x", "0 * * * *", func() {})
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, svc.Stop(), ErrNotInitialized)
}
