package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var transitions []string
	cb := NewCircuitBreaker(Settings{
		Name:             "test",
		Timeout:          time.Hour,
		FailureThreshold: 3,
		OnStateChange: func(_ string, from, to string) {
			transitions = append(transitions, from+"->"+to)
		},
	})

	boom := errors.New("boom")
	calls := 0
	fail := func() error { calls++; return boom }

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(fail), boom)
	}
	assert.Equal(t, "open", cb.State())

	assert.ErrorIs(t, cb.Execute(fail), ErrOpen)
	assert.Equal(t, 3, calls, "open breaker must not call fn")
	assert.Equal(t, []string{"closed->open"}, transitions)
}

func TestBreakerSuccessResetsCount(t *testing.T) {
	cb := NewCircuitBreaker(Settings{Name: "test", Timeout: time.Hour, FailureThreshold: 2})
	boom := errors.New("boom")

	assert.Error(t, cb.Execute(func() error { return boom }))
	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.Error(t, cb.Execute(func() error { return boom }))
	assert.Equal(t, "closed", cb.State())
}
