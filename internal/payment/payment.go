// Package payment is the boundary to the external payment processor. The
// order service only ever consumes a Receipt; how funds actually move is the
// provider's business.
package payment

import (
	"context"

	"github.com/kritsada65/storefront-backend/internal/apperr"
)

var (
	ErrUnavailable   = apperr.ExternalDependency("payment provider unavailable")
	ErrNotCompleted  = apperr.ExternalDependency("payment capture not completed")
	ErrUnknownRemote = apperr.ExternalDependency("unknown remote payment order")
)

// Receipt is the provider's record of a captured payment.
type Receipt struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

// Verifier confirms that a remote payment order was actually captured before
// the storefront marks an order paid.
type Verifier interface {
	VerifyCapture(ctx context.Context, remoteOrderID string) (Receipt, error)
}
