package usecase

import (
	"context"
	"fmt"
	"log"
)

// Transaction runs a sequence of operations with best-effort
// compensation. The booking flow uses it to keep the bookings row and
// its funnel lead row consistent without a cross-table DB transaction.
type Transaction struct {
	operations    []operation
	compensations []operation
}

type operation struct {
	Name string
	Fn   func(context.Context) error
}

func NewTransaction() *Transaction {
	return &Transaction{}
}

func (t *Transaction) AddOperation(name string, fn func(context.Context) error) {
	t.operations = append(t.operations, operation{name, fn})
}

func (t *Transaction) AddCompensation(name string, fn func(context.Context) error) {
	t.compensations = append(t.compensations, operation{name, fn})
}

// Execute runs operations in order. On failure it runs the
// compensations registered for the already-completed operations, in
// reverse, then returns the original error.
func (t *Transaction) Execute(ctx context.Context) error {
	for i, op := range t.operations {
		if err := op.Fn(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("operation '%s' failed: %w (rolled back %d operations)", op.Name, err, i)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAtIndex int) {
	for i := failedAtIndex - 1; i >= 0; i-- {
		if i < len(t.compensations) {
			comp := t.compensations[i]
			if err := comp.Fn(ctx); err != nil {
				log.Printf("⚠️ compensation '%s' failed: %v (inconsistency risk)", comp.Name, err)
			}
		}
	}
}
