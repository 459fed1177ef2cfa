package app

import (
	"filesight/internal/model"
)

const defaultActivityLimit = 50

type EventStore interface {
	ListByUserID(userID uint, limit int) ([]model.ActivityEvent, error)
}

// ActivityService reads back the audit trail persisted by the event worker.
type ActivityService struct {
	events EventStore
}

func NewActivityService(events EventStore) *ActivityService {
	return &ActivityService{events: events}
}

// Recent returns the caller's newest activity events, at most limit rows.
func (s *ActivityService) Recent(requesterID uint, limit int) ([]model.ActivityEvent, error) {
	if requesterID == 0 {
		return nil, ErrInvalidInput
	}
	if limit <= 0 || limit > defaultActivityLimit {
		limit = defaultActivityLimit
	}

	events, err := s.events.ListByUserID(requesterID, limit)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.ActivityEvent{}
	}
	return events, nil
}
