// repository/ledger/memory.go
package ledger

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/FuseKota/omen-manage/model"
	"github.com/FuseKota/omen-manage/util/clock"
)

// Spreadsheet-era column layouts. The in-memory ledger keeps the positional
// string rows of the original sheet so the festival crew can dump them back
// into one; all (de)serialization stays inside this file.
//
// Rentals: RentalNo, Name, ProductName, Category, Date, StartTime, EndTime,
// UsedMinutes, Plan, Amount, Deposit, Refund, Returnable, Staff, Note.
// Sales: Date, Time, Category, ProductName, Quantity, UnitPrice, Subtotal,
// Staff, Note.
const (
	colRentalNo = iota
	colName
	colProductName
	colCategory
	colDate
	colStartTime
	colEndTime
	colUsedMinutes
	colPlan
	colAmount
	colDeposit
	colRefund
	colReturnable
	colStaff
	colNote
	rentalColumnCount
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

type memoryRepo struct {
	mu      sync.Mutex
	rentals [][]string
	sales   [][]string
}

// NewMemory returns a ledger that lives in process memory, used when no
// DATABASE_URL is configured and in tests.
func NewMemory() Repo { return &memoryRepo{} }

func (r *memoryRepo) AppendRental(_ context.Context, rec *model.RentalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	no := strconv.FormatInt(rec.RentalNo, 10)
	for _, row := range r.rentals {
		if row[colRentalNo] == no {
			return ErrDuplicateNumber
		}
	}

	row := make([]string, rentalColumnCount)
	row[colRentalNo] = no
	row[colName] = rec.CustomerName
	row[colProductName] = rec.ItemName
	row[colCategory] = string(rec.Category)
	row[colDate] = rec.StartTime.Format(dateLayout)
	row[colStartTime] = rec.StartTime.Format(timeLayout)
	row[colDeposit] = strconv.Itoa(rec.Deposit)
	row[colStaff] = rec.Staff
	row[colNote] = rec.Note
	r.rentals = append(r.rentals, row)
	return nil
}

func (r *memoryRepo) MaxRentalNumber(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var max int64
	for _, row := range r.rentals {
		// Hand-edited sheets held stray text in the number column;
		// skip anything that does not parse.
		n, err := strconv.ParseInt(row[colRentalNo], 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max, nil
}

func (r *memoryRepo) FindOpenByNumber(_ context.Context, no int64) (*model.RentalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := strconv.FormatInt(no, 10)
	for _, row := range r.rentals {
		if row[colRentalNo] != want {
			continue
		}
		if row[colEndTime] != "" {
			return nil, ErrAlreadyClosed
		}
		return decodeRental(row), nil
	}
	return nil, ErrNotFound
}

func (r *memoryRepo) FindOpenByName(_ context.Context, substr string) ([]model.RentalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.RentalRecord
	for _, row := range r.rentals {
		if row[colEndTime] != "" {
			continue
		}
		if !strings.Contains(row[colName], substr) {
			continue
		}
		out = append(out, *decodeRental(row))
	}
	return out, nil
}

func (r *memoryRepo) CloseRental(_ context.Context, no int64, endTime time.Time, usedMinutes int, plan string, fee, refund int, returnable model.Returnable) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := strconv.FormatInt(no, 10)
	found := false
	for _, row := range r.rentals {
		if row[colRentalNo] != want {
			continue
		}
		found = true
		if row[colEndTime] != "" {
			continue
		}
		row[colEndTime] = endTime.Format(timeLayout)
		row[colUsedMinutes] = strconv.Itoa(usedMinutes)
		row[colPlan] = plan
		row[colAmount] = strconv.Itoa(fee)
		row[colRefund] = strconv.Itoa(refund)
		row[colReturnable] = string(returnable)
		return nil
	}
	if found {
		return ErrAlreadyClosed
	}
	return ErrNotFound
}

func (r *memoryRepo) AppendSales(_ context.Context, rows []SaleRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range rows {
		r.sales = append(r.sales, []string{
			s.Date, s.Time, string(s.Category), s.ProductName,
			strconv.Itoa(s.Quantity), strconv.Itoa(s.UnitPrice), strconv.Itoa(s.Subtotal),
			s.Staff, s.Note,
		})
	}
	return nil
}

func decodeRental(row []string) *model.RentalRecord {
	rec := &model.RentalRecord{
		CustomerName: row[colName],
		ItemName:     row[colProductName],
		Category:     model.Category(row[colCategory]),
		Staff:        row[colStaff],
		Note:         row[colNote],
		Returnable:   model.Returnable(row[colReturnable]),
	}
	rec.RentalNo, _ = strconv.ParseInt(row[colRentalNo], 10, 64)
	rec.Deposit, _ = strconv.Atoi(row[colDeposit])

	if t, err := time.ParseInLocation(dateLayout+" "+timeLayout, row[colDate]+" "+row[colStartTime], clock.JST); err == nil {
		rec.StartTime = t
	}
	if row[colEndTime] != "" {
		// Same-day festival: the end time shares the row's date.
		if t, err := time.ParseInLocation(dateLayout+" "+timeLayout, row[colDate]+" "+row[colEndTime], clock.JST); err == nil {
			rec.EndTime = &t
		}
		if m, err := strconv.Atoi(row[colUsedMinutes]); err == nil {
			rec.UsedMinutes = &m
		}
		if row[colPlan] != "" {
			p := model.Plan(row[colPlan])
			rec.Plan = &p
		}
		if f, err := strconv.Atoi(row[colAmount]); err == nil {
			rec.Fee = &f
		}
		if rf, err := strconv.Atoi(row[colRefund]); err == nil {
			rec.Refund = &rf
		}
	}
	return rec
}
