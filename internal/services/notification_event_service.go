package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/ncst-capstone/evaluation-service/internal/events"
)

type notificationEventService struct {
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewNotificationEventService(publisher events.EventPublisher, logger *slog.Logger) NotificationEventService {
	return &notificationEventService{
		publisher: publisher,
		logger:    logger,
	}
}

func (s *notificationEventService) EvaluationSubmitted(ctx context.Context, evaluationID uint, studentID string, teacherID uint) {
	s.publish(ctx, events.EventEvaluationSubmitted, map[string]interface{}{
		"evaluation_id": evaluationID,
		"student_id":    studentID,
		"teacher_id":    teacherID,
		"submitted_at":  time.Now().UTC(),
	})
}

func (s *notificationEventService) StudentApproved(ctx context.Context, schoolID string) {
	s.publish(ctx, events.EventStudentApproved, map[string]interface{}{
		"school_id":   schoolID,
		"approved_at": time.Now().UTC(),
	})
}

func (s *notificationEventService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}

	event := events.NewEvent(eventType, data)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", eventType, "error", err)
	}
}
