package app

import (
	"context"
	"fmt"
	"io"
)

// CountClient defines dependencies required to read the unread count.
type CountClient interface {
	Count(ctx context.Context) (int, error)
}

// CountUseCase prints the unread notification count.
type CountUseCase struct {
	client CountClient
}

// NewCountUseCase creates a new count use-case.
func NewCountUseCase(client CountClient) *CountUseCase {
	if client == nil {
		panic("NewCountUseCase: client dependency cannot be nil")
	}
	return &CountUseCase{client: client}
}

// Execute writes the count as a bare number so scripts can consume it.
func (u *CountUseCase) Execute(ctx context.Context, w io.Writer) error {
	n, err := u.client.Count(ctx)
	if err != nil {
		return fmt.Errorf("count: %w", err)
	}
	_, err = fmt.Fprintln(w, n)
	return err
}
