package app

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/intray-live/internal/colors"
	"github.com/cristianoliveira/intray-live/internal/dispatch"
	"github.com/cristianoliveira/intray-live/internal/domain"
)

// MarkReadClient defines dependencies required to mark notifications read.
type MarkReadClient interface {
	MarkRead(ctx context.Context, id string) (bool, error)
}

// MarkReadUseCase coordinates mark-read behavior.
type MarkReadUseCase struct {
	client MarkReadClient
}

// NewMarkReadUseCase creates a new mark-read use-case.
func NewMarkReadUseCase(client MarkReadClient) *MarkReadUseCase {
	if client == nil {
		panic("NewMarkReadUseCase: client dependency cannot be nil")
	}
	return &MarkReadUseCase{client: client}
}

// Execute marks id read through the HTTP API.
func (u *MarkReadUseCase) Execute(ctx context.Context, id string) error {
	if err := domain.ValidateID(id); err != nil {
		return fmt.Errorf("mark-read: %w", err)
	}
	ok, err := u.client.MarkRead(ctx, id)
	if err != nil {
		return fmt.Errorf("mark-read: %w", err)
	}
	if !ok {
		return fmt.Errorf("mark-read: %w", dispatch.ErrNotAcknowledged)
	}

	colors.Success(fmt.Sprintf("Notification %s marked as read", id))
	return nil
}

// MarkAllReadClient defines dependencies required to mark everything read.
type MarkAllReadClient interface {
	MarkAllRead(ctx context.Context) (bool, error)
}

// MarkAllReadUseCase coordinates mark-all-read behavior.
type MarkAllReadUseCase struct {
	client MarkAllReadClient
}

// NewMarkAllReadUseCase creates a new mark-all-read use-case.
func NewMarkAllReadUseCase(client MarkAllReadClient) *MarkAllReadUseCase {
	if client == nil {
		panic("NewMarkAllReadUseCase: client dependency cannot be nil")
	}
	return &MarkAllReadUseCase{client: client}
}

// Execute marks every notification read through the HTTP API.
func (u *MarkAllReadUseCase) Execute(ctx context.Context) error {
	ok, err := u.client.MarkAllRead(ctx)
	if err != nil {
		return fmt.Errorf("mark-all-read: %w", err)
	}
	if !ok {
		return fmt.Errorf("mark-all-read: %w", dispatch.ErrNotAcknowledged)
	}

	colors.Success("All notifications marked as read")
	return nil
}
