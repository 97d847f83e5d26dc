package browser

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAcquireRetriesThreeTimes(t *testing.T) {
	attempts := 0
	var gaps []time.Duration
	var last time.Time

	m := &Manager{}
	m.launch = func() (*Session, error) {
		now := time.Now()
		if attempts > 0 {
			gaps = append(gaps, now.Sub(last))
		}
		last = now
		attempts++
		return nil, errors.New("no chrome here")
	}

	_, err := m.Acquire(context.Background())

	if err == nil {
		t.Fatal("Expected error when every launch attempt fails")
	}
	if !errors.Is(err, ErrLaunchFailed) {
		t.Errorf("Expected ErrLaunchFailed, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected exactly 3 launch attempts, got %d", attempts)
	}
	for i, gap := range gaps {
		if gap < launchRetryDelay {
			t.Errorf("Attempt gap %d was %v, expected at least %v", i+1, gap, launchRetryDelay)
		}
	}
}

func TestAcquireSucceedsAfterFailure(t *testing.T) {
	attempts := 0
	want := &Session{}

	m := &Manager{}
	m.launch = func() (*Session, error) {
		attempts++
		if attempts < 2 {
			return nil, errors.New("transient failure")
		}
		return want, nil
	}

	session, err := m.Acquire(context.Background())

	if err != nil {
		t.Fatalf("Expected recovery on second attempt, got error: %v", err)
	}
	if session != want {
		t.Error("Expected the session from the successful attempt")
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts)
	}
}

func TestAcquireStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	m := &Manager{}
	m.launch = func() (*Session, error) {
		attempts++
		cancel()
		return nil, errors.New("failure")
	}

	_, err := m.Acquire(ctx)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected retry loop to stop after cancellation, got %d attempts", attempts)
	}
}

func TestCloseOnEmptySession(t *testing.T) {
	s := &Session{}
	s.Close()
	s.Close() // must stay safe on repeat calls
}
