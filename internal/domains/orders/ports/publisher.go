package ports

import "context"

// Publisher emits notifications to other bounded contexts.
type Publisher interface {
	Publish(ctx context.Context, destination, routingKey string, payload any) error
}

// UnitOfWork runs fn so that every repository call made with the ctx it
// receives commits or rolls back together.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
