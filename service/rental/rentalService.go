package rental

import (
	"context"
	"errors"
	"time"

	"github.com/FuseKota/omen-manage/model"
	"github.com/FuseKota/omen-manage/pricing"
	ledgerrepo "github.com/FuseKota/omen-manage/repository/ledger"
	"github.com/FuseKota/omen-manage/util/clock"
)

// errors used by controllers

type ErrCode string

const (
	ErrValidation   ErrCode = "VALIDATION"
	ErrInvalidState ErrCode = "INVALID_STATE"
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrStore        ErrCode = "STORE"
)

type codedError struct {
	code ErrCode
	err  error
}

func (e codedError) Error() string {
	if e.err != nil {
		return string(e.code) + ": " + e.err.Error()
	}
	return string(e.code)
}
func (e codedError) Code() ErrCode { return e.code }
func (e codedError) Unwrap() error { return e.err }

func makeErr(c ErrCode) error { return codedError{code: c} }

func wrapErr(c ErrCode, err error) error { return codedError{code: c, err: err} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// dto

type OpenReq struct {
	ItemName     string
	Category     model.Category
	CustomerName string
	Deposit      int
	StartTime    time.Time // zero means "now"
	Staff        string
	Note         string
}

// Ticket is what gets printed and handed over with the mask.
type Ticket struct {
	RentalNo     int64    `json:"rental_no"`
	CustomerName string   `json:"customer_name"`
	ItemName     string   `json:"item_name"`
	StartTime    string   `json:"start_time"`
	Instructions []string `json:"instructions"`
}

type CloseResult struct {
	RentalNo    int64  `json:"rental_no"`
	UsedMinutes int    `json:"used_minutes"`
	Plan        string `json:"plan"`
	Fee         int    `json:"fee"`
	Deposit     int    `json:"deposit"`
	Refund      int    `json:"refund"`
}

type Repo interface {
	AppendRental(ctx context.Context, rec *model.RentalRecord) error
	MaxRentalNumber(ctx context.Context) (int64, error)
	FindOpenByNumber(ctx context.Context, no int64) (*model.RentalRecord, error)
	FindOpenByName(ctx context.Context, substr string) ([]model.RentalRecord, error)
	CloseRental(ctx context.Context, no int64, endTime time.Time, usedMinutes int, plan string, fee, refund int, returnable model.Returnable) error
}

type Service interface {
	// Open: allocate the next rental number and write the open record.
	Open(ctx context.Context, req OpenReq) (*model.RentalRecord, *Ticket, error)

	// Close: settle an open rental and record the return.
	Close(ctx context.Context, rentalNo int64, endTime time.Time, returnable model.Returnable) (*CloseResult, error)

	// SearchByNumber / SearchByName: look up open rentals for the
	// return counter.
	SearchByNumber(ctx context.Context, no int64) ([]model.RentalRecord, error)
	SearchByName(ctx context.Context, name string) ([]model.RentalRecord, error)
}

// ----- Service implementation -----

type service struct {
	r   Repo
	clk clock.Clock
}

func New(r Repo, clk clock.Clock) Service { return &service{r: r, clk: clk} }

var ticketInstructions = []string{
	"返却時にこの番号をお伝えください",
	"お面は大切に扱ってください",
	"破損・紛失の場合は実費をいただきます",
	"営業終了30分前までに返却してください",
}

// Open writes a new open rental. Number allocation reads max+1 and relies
// on the ledger's uniqueness guarantee to catch a race with another kiosk;
// a duplicate append is retried exactly once with a fresh number.
func (s *service) Open(ctx context.Context, req OpenReq) (*model.RentalRecord, *Ticket, error) {
	if req.ItemName == "" || req.Category == "" {
		return nil, nil, makeErr(ErrValidation)
	}
	if req.Deposit < 0 {
		return nil, nil, makeErr(ErrValidation)
	}

	start := req.StartTime
	if start.IsZero() {
		start = s.clk.Now()
	}

	rec := &model.RentalRecord{
		CustomerName: req.CustomerName,
		ItemName:     req.ItemName,
		Category:     req.Category,
		Deposit:      req.Deposit,
		StartTime:    start,
		Staff:        req.Staff,
		Note:         req.Note,
	}

	for attempt := 0; ; attempt++ {
		max, err := s.r.MaxRentalNumber(ctx)
		if err != nil {
			return nil, nil, wrapErr(ErrStore, err)
		}
		rec.RentalNo = max + 1

		err = s.r.AppendRental(ctx, rec)
		if err == nil {
			break
		}
		if errors.Is(err, ledgerrepo.ErrDuplicateNumber) && attempt == 0 {
			continue
		}
		return nil, nil, wrapErr(ErrStore, err)
	}

	return rec, buildTicket(rec), nil
}

func buildTicket(rec *model.RentalRecord) *Ticket {
	name := rec.CustomerName
	if name == "" {
		name = "（お名前なし）"
	}
	return &Ticket{
		RentalNo:     rec.RentalNo,
		CustomerName: name,
		ItemName:     rec.ItemName,
		StartTime:    rec.StartTime.Format("2006-01-02 15:04:05"),
		Instructions: ticketInstructions,
	}
}

// Close settles the fee and records the return. Used minutes are floored
// to whole minutes, so a return just under a grace boundary stays in the
// cheaper plan. When the mask comes back NG the fee and plan are still
// recorded for the till count, but nothing is refunded. The refund is not
// clamped at zero: if a fee ever exceeds the deposit the difference is
// owed, and hiding that in the ledger would be worse than a negative
// number.
func (s *service) Close(ctx context.Context, rentalNo int64, endTime time.Time, returnable model.Returnable) (*CloseResult, error) {
	if rentalNo <= 0 {
		return nil, makeErr(ErrValidation)
	}
	if returnable != model.ReturnableOK && returnable != model.ReturnableNG {
		return nil, makeErr(ErrValidation)
	}
	if endTime.IsZero() {
		endTime = s.clk.Now()
	}

	rec, err := s.r.FindOpenByNumber(ctx, rentalNo)
	if err != nil {
		switch {
		case errors.Is(err, ledgerrepo.ErrNotFound):
			return nil, makeErr(ErrNotFound)
		case errors.Is(err, ledgerrepo.ErrAlreadyClosed):
			// closing is terminal; surface "already returned"
			return nil, makeErr(ErrInvalidState)
		default:
			return nil, wrapErr(ErrStore, err)
		}
	}

	if endTime.Before(rec.StartTime) {
		return nil, makeErr(ErrValidation)
	}

	usedMinutes := int(endTime.Sub(rec.StartTime) / time.Minute)
	plan, fee := pricing.Compute(rec.Category, usedMinutes)

	refund := 0
	if returnable == model.ReturnableOK {
		refund = rec.Deposit - fee
	}

	err = s.r.CloseRental(ctx, rentalNo, endTime, usedMinutes, string(plan), fee, refund, returnable)
	if err != nil {
		switch {
		case errors.Is(err, ledgerrepo.ErrAlreadyClosed):
			// lost a race with a concurrent return
			return nil, makeErr(ErrInvalidState)
		case errors.Is(err, ledgerrepo.ErrNotFound):
			return nil, makeErr(ErrNotFound)
		default:
			return nil, wrapErr(ErrStore, err)
		}
	}

	return &CloseResult{
		RentalNo:    rentalNo,
		UsedMinutes: usedMinutes,
		Plan:        string(plan),
		Fee:         fee,
		Deposit:     rec.Deposit,
		Refund:      refund,
	}, nil
}

func (s *service) SearchByNumber(ctx context.Context, no int64) ([]model.RentalRecord, error) {
	if no <= 0 {
		return nil, makeErr(ErrValidation)
	}
	rec, err := s.r.FindOpenByNumber(ctx, no)
	if err != nil {
		// a returned rental is simply not there for the return counter
		if errors.Is(err, ledgerrepo.ErrNotFound) || errors.Is(err, ledgerrepo.ErrAlreadyClosed) {
			return nil, nil
		}
		return nil, wrapErr(ErrStore, err)
	}
	return []model.RentalRecord{*rec}, nil
}

func (s *service) SearchByName(ctx context.Context, name string) ([]model.RentalRecord, error) {
	if name == "" {
		return nil, makeErr(ErrValidation)
	}
	rows, err := s.r.FindOpenByName(ctx, name)
	if err != nil {
		return nil, wrapErr(ErrStore, err)
	}
	return rows, nil
}
