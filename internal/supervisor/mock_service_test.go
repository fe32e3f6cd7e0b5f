// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package supervisor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// mockService is a suture.Service whose behaviour the test controls.
type mockService struct {
	name       string
	startCount atomic.Int32
	stopCount  atomic.Int32
	failCount  atomic.Int32
	started    chan struct{}

	mu       sync.Mutex
	maxFails int32
	result   error
}

func newMockService(name string) *mockService {
	return &mockService{name: name, started: make(chan struct{}, 16)}
}

func (m *mockService) Serve(ctx context.Context) error {
	m.startCount.Add(1)
	defer m.stopCount.Add(1)
	select {
	case m.started <- struct{}{}:
	default:
	}

	m.mu.Lock()
	result, maxFails := m.result, m.maxFails
	m.mu.Unlock()

	if maxFails > 0 && m.failCount.Add(1) <= maxFails {
		return errors.New("simulated failure")
	}
	if result != nil {
		return result
	}

	<-ctx.Done()
	return ctx.Err()
}

// returnImmediately makes Serve return err without waiting for ctx.
func (m *mockService) returnImmediately(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.result = err
}

// failTimes makes the first n calls to Serve fail.
func (m *mockService) failTimes(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxFails = int32(n)
}

func (m *mockService) running() bool {
	return m.startCount.Load() > m.stopCount.Load()
}

func (m *mockService) String() string {
	return m.name
}
