package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	errs "estatedesk/internal/errors"
	"estatedesk/internal/mailer"
	"estatedesk/internal/model"
	"estatedesk/internal/repository"
)

// NotificationService records in-system notifications and delivers outbound
// mail. Mail is fire-and-forget: a delivery failure never fails the operation
// that triggered it. Notification rows, by contrast, are written with the
// state change they document.
type NotificationService interface {
	Record(ctx context.Context, n *model.Notification) error
	RecordTx(ctx context.Context, tx *repository.Repositories, n *model.Notification) error
	Email(to, subject, body string)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type mailJob struct {
	to      string
	subject string
	body    string
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	mail             mailer.Mailer
	log              *zap.Logger
	mailCh           chan mailJob
}

// NewNotificationService creates the emitter and starts its async mail worker.
func NewNotificationService(notificationRepo repository.NotificationRepository, mail mailer.Mailer, log *zap.Logger) NotificationService {
	s := &notificationService{
		notificationRepo: notificationRepo,
		mail:             mail,
		log:              log,
		mailCh:           make(chan mailJob, 100),
	}

	go s.mailWorker()

	return s
}

// mailWorker drains queued mail. Failures are logged and dropped.
func (s *notificationService) mailWorker() {
	for job := range s.mailCh {
		if err := s.mail.Send(job.to, job.subject, job.body); err != nil {
			s.log.Warn("mail delivery failed",
				zap.String("to", job.to),
				zap.String("subject", job.subject),
				zap.Error(err))
		}
	}
}

// Record persists a notification row outside any caller transaction.
func (s *notificationService) Record(ctx context.Context, n *model.Notification) error {
	return s.notificationRepo.Create(ctx, n)
}

// RecordTx persists a notification row inside the caller's transaction so it
// commits or rolls back with the state change it documents.
func (s *notificationService) RecordTx(ctx context.Context, tx *repository.Repositories, n *model.Notification) error {
	return tx.Notifications.Create(ctx, n)
}

// Email queues a message for async delivery. When the queue is full the
// message is dropped with a log line; mail must never block a request.
func (s *notificationService) Email(to, subject, body string) {
	if to == "" {
		return
	}
	select {
	case s.mailCh <- mailJob{to: to, subject: subject, body: body}:
	default:
		s.log.Warn("mail queue full, dropping message", zap.String("to", to), zap.String("subject", subject))
	}
}

// ListForUser returns the recipient's notifications.
func (s *notificationService) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID)
}

// MarkRead marks one notification read for its recipient.
func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if err := s.notificationRepo.MarkRead(ctx, notificationID, userID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.ErrNotFound
		}
		return err
	}
	return nil
}

// MarkAllRead marks every unread notification read for the recipient.
func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
