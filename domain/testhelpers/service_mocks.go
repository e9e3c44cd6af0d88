package testhelpers

import (
	"context"

	"prizepool/domain/entities"
	"prizepool/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockStrategy is a mock implementation of Strategy
type MockStrategy struct {
	mock.Mock
}

func (m *MockStrategy) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockStrategy) Owner() entities.AccountID {
	args := m.Called()
	return args.Get(0).(entities.AccountID)
}

func (m *MockStrategy) Invest(ctx context.Context, caller entities.AccountID, amount uint64) error {
	args := m.Called(ctx, caller, amount)
	return args.Error(0)
}

func (m *MockStrategy) Withdraw(ctx context.Context, caller entities.AccountID, amount uint64) (uint64, error) {
	args := m.Called(ctx, caller, amount)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockStrategy) Balance(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockStrategy) TransferOwnership(ctx context.Context, caller, newOwner entities.AccountID) error {
	args := m.Called(ctx, caller, newOwner)
	return args.Error(0)
}

// MockRandomnessSource is a mock implementation of RandomnessSource
type MockRandomnessSource struct {
	mock.Mock
}

func (m *MockRandomnessSource) Sample(ctx context.Context, n int) (int, error) {
	args := m.Called(ctx, n)
	return args.Int(0), args.Error(1)
}

// FixedRandomness always samples the same index, clamped to the candidate count
type FixedRandomness int

func (f FixedRandomness) Sample(ctx context.Context, n int) (int, error) {
	return min(int(f), n-1), nil
}

// RecordingPublisher collects published events
type RecordingPublisher struct {
	Events []events.Event
}

func (p *RecordingPublisher) Publish(event events.Event) error {
	p.Events = append(p.Events, event)
	return nil
}

// Types returns the types of the recorded events in order
func (p *RecordingPublisher) Types() []events.EventType {
	types := make([]events.EventType, 0, len(p.Events))
	for _, e := range p.Events {
		types = append(types, e.Type())
	}
	return types
}
