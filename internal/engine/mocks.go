package engine

import (
	"context"
	"sync"
	"time"

	"github.com/orderpilot/orderpilot/internal/model"
)

// MockPlatformStore is a test implementation of service.PlatformStore
// backed by an in-memory profile map.
type MockPlatformStore struct {
	profiles map[model.Platform]*model.PlatformProfile
	mu       sync.Mutex
}

// NewMockPlatformStore creates an empty mock store.
func NewMockPlatformStore() *MockPlatformStore {
	return &MockPlatformStore{
		profiles: make(map[model.Platform]*model.PlatformProfile),
	}
}

// SetProfile installs a profile for a platform.
func (m *MockPlatformStore) SetProfile(profile *model.PlatformProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.Platform] = profile
}

// GetProfile returns the installed profile, or nil when absent.
func (m *MockPlatformStore) GetProfile(_ context.Context, platform model.Platform) (*model.PlatformProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[platform], nil
}

// MockActuator records every activation it is asked to perform.
type MockActuator struct {
	calls  []*model.UINode
	result bool
	err    error
	mu     sync.Mutex
}

// NewMockActuator creates an actuator that reports success.
func NewMockActuator() *MockActuator {
	return &MockActuator{result: true}
}

// Fail makes subsequent activations report failure.
func (m *MockActuator) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.result = false
	m.err = err
}

// Activate records the call and returns the configured result.
func (m *MockActuator) Activate(_ context.Context, node *model.UINode) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, node)
	return m.result, m.err
}

// Calls returns a copy of the recorded activations.
func (m *MockActuator) Calls() []*model.UINode {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.UINode, len(m.calls))
	copy(out, m.calls)
	return out
}

// MockLauncher records foreground launches.
type MockLauncher struct {
	platforms []model.Platform
	mu        sync.Mutex
}

// Launch records the call and reports success.
func (m *MockLauncher) Launch(_ context.Context, platform model.Platform) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.platforms = append(m.platforms, platform)
	return true, nil
}

// Launches returns the platforms launched so far.
func (m *MockLauncher) Launches() []model.Platform {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Platform, len(m.platforms))
	copy(out, m.platforms)
	return out
}

// AcceptedOrder is one recorded analytics entry.
type AcceptedOrder struct {
	ObservedAt time.Time
	Platform   model.Platform
	Amount     float64
}

// MockAnalytics records accepted orders in memory.
type MockAnalytics struct {
	orders []AcceptedOrder
	mu     sync.Mutex
}

// RecordAcceptedOrder appends the order.
func (m *MockAnalytics) RecordAcceptedOrder(_ context.Context, platform model.Platform, amount float64, observedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, AcceptedOrder{Platform: platform, Amount: amount, ObservedAt: observedAt})
	return nil
}

// Orders returns the recorded entries.
func (m *MockAnalytics) Orders() []AcceptedOrder {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AcceptedOrder, len(m.orders))
	copy(out, m.orders)
	return out
}

// MockWakeLock counts acquire/release pairs to verify scoped holding.
type MockWakeLock struct {
	acquired int
	released int
	mu       sync.Mutex
}

// Acquire increments the acquire count.
func (m *MockWakeLock) Acquire() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acquired++
}

// Release increments the release count.
func (m *MockWakeLock) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released++
}

// Balanced reports whether every acquire has a matching release.
func (m *MockWakeLock) Balanced() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acquired == m.released
}
