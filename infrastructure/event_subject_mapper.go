package infrastructure

import (
	"fmt"
	"sort"

	"prizepool/domain/events"
)

// DomainEventStream is the JetStream stream carrying lottery events
const DomainEventStream = "lottery_events"

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

var subjectsByType = map[events.EventType]string{
	events.EventTypeBalanceChange:      "accounts.balance_changed",
	events.EventTypeAccountCreated:     "accounts.created",
	events.EventTypeTicketPurchased:    "lottery.tickets.purchased",
	events.EventTypeTicketRefunded:     "lottery.tickets.refunded",
	events.EventTypeDrawCompleted:      "lottery.draws.completed",
	events.EventTypeWinningsClaimed:    "lottery.winnings.claimed",
	events.EventTypeTreasuryWithdrawal: "treasury.withdrawals",
	events.EventTypeStrategyChanged:    "treasury.strategy_changed",
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := subjectsByType[event.Type()]; ok {
		return subject
	}
	return fmt.Sprintf("unknown.%s", event.Type())
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	for eventType, s := range subjectsByType {
		if s == subject {
			return eventType
		}
	}
	return events.EventType(subject)
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	subjects := make([]string, 0, len(subjectsByType))
	for _, s := range subjectsByType {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)
	return subjects
}
