// repository/ledger/repo.go
//
// The ledger is the shared append-mostly record of everything the kiosk
// sells and lends. Rentals get one row each, written once at checkout and
// updated exactly once at return.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/FuseKota/omen-manage/model"
)

var (
	// ErrDuplicateNumber means another writer took the rental number
	// between allocation and append. Callers re-allocate and retry once.
	ErrDuplicateNumber = errors.New("rental number already taken")

	ErrNotFound      = errors.New("rental not found")
	ErrAlreadyClosed = errors.New("rental already closed")
)

// SaleRow is one line of the sales ledger.
type SaleRow struct {
	Date        string
	Time        string
	Category    model.Category
	ProductName string
	Quantity    int
	UnitPrice   int
	Subtotal    int
	Staff       string
	Note        string
}

type Repo interface {
	// AppendRental writes a new open rental row. Fails with
	// ErrDuplicateNumber when the number is already taken.
	AppendRental(ctx context.Context, rec *model.RentalRecord) error

	// MaxRentalNumber returns the highest assigned rental number, 0 when
	// the ledger holds none. Malformed stored numbers are ignored, not
	// fatal.
	MaxRentalNumber(ctx context.Context) (int64, error)

	// FindOpenByNumber returns the open rental with that number.
	// ErrAlreadyClosed when the number exists but the rental is closed,
	// ErrNotFound when the number was never assigned.
	FindOpenByNumber(ctx context.Context, no int64) (*model.RentalRecord, error)

	// FindOpenByName returns open rentals whose customer name contains
	// the substring (case-sensitive), in ledger row order.
	FindOpenByName(ctx context.Context, substr string) ([]model.RentalRecord, error)

	// CloseRental fills the return-side columns, conditioned on the row
	// still being open. Fails with ErrNotFound or ErrAlreadyClosed;
	// a concurrent closer loses with ErrAlreadyClosed.
	CloseRental(ctx context.Context, no int64, endTime time.Time, usedMinutes int, plan string, fee, refund int, returnable model.Returnable) error

	AppendSales(ctx context.Context, rows []SaleRow) error
}
