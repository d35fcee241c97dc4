package notification

import (
	"context"
	"fmt"
	"log"

	"billshare/internal/event"
	"billshare/pkg/apperror"
)

// Common errors
var (
	ErrNotificationNotFound = apperror.New(apperror.NotFound, "notification not found")
)

// Store is the persistence surface the service needs
type Store interface {
	Create(ctx context.Context, n *Notification) (*Notification, error)
	ListByUser(ctx context.Context, userID int64, unreadOnly bool) ([]*Notification, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
}

// Service handles notification business logic
type Service struct {
	repo Store
}

// NewService creates a new notification service
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// List retrieves the user's notifications
func (s *Service) List(ctx context.Context, userID int64, unreadOnly bool) ([]*Notification, error) {
	return s.repo.ListByUser(ctx, userID, unreadOnly)
}

// UnreadCount counts the user's unread notifications
func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// MarkRead marks one of the user's notifications as read
func (s *Service) MarkRead(ctx context.Context, id, userID int64) error {
	return s.repo.MarkRead(ctx, id, userID)
}

// MarkAllRead marks every notification of the user as read
func (s *Service) MarkAllRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// Subscribe wires the service to the event bus: every domain event
// fans out to rows for the users it concerns. Write failures are
// logged, never propagated; a lost notification must not fail the
// operation that caused it.
func (s *Service) Subscribe(bus *event.Bus) {
	bus.Subscribe(s.handle,
		event.TypeBillCreated, event.TypeObligationPaid,
		event.TypeDebtPaid, event.TypeBillOverdue)
}

func (s *Service) handle(ctx context.Context, e event.Event) {
	switch e.Type {
	case event.TypeBillCreated:
		for _, owerID := range e.OwerIDs {
			if owerID == e.CreatorID {
				continue
			}
			s.write(ctx, &Notification{
				UserID:  owerID,
				Kind:    KindBillCreated,
				Message: fmt.Sprintf("You were added to the bill %q of %s", e.Description, e.Amount),
				RefID:   refID(e.BillID),
			})
		}
	case event.TypeObligationPaid:
		if e.CreatorID != e.ActorID {
			s.write(ctx, &Notification{
				UserID:  e.CreatorID,
				Kind:    KindObligationPaid,
				Message: fmt.Sprintf("A share of %s was paid on the bill %q", e.Amount, e.Description),
				RefID:   refID(e.BillID),
			})
		}
	case event.TypeDebtPaid:
		// tell the party who did not record the settlement
		for _, id := range e.UserIDs() {
			if id == e.ActorID {
				continue
			}
			s.write(ctx, &Notification{
				UserID:  id,
				Kind:    KindDebtPaid,
				Message: fmt.Sprintf("The debt %q of %s was settled", e.Description, e.Amount),
				RefID:   refID(e.DebtID),
			})
		}
	case event.TypeBillOverdue:
		for _, owerID := range e.OwerIDs {
			s.write(ctx, &Notification{
				UserID:  owerID,
				Kind:    KindBillOverdue,
				Message: fmt.Sprintf("The bill %q is overdue, your share is still unpaid", e.Description),
				RefID:   refID(e.BillID),
			})
		}
	}
}

func (s *Service) write(ctx context.Context, n *Notification) {
	if _, err := s.repo.Create(ctx, n); err != nil {
		log.Printf("notification write failed for user %d: %v", n.UserID, err)
	}
}

func refID(id int64) *int64 {
	return &id
}
