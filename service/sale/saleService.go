package sale

import (
	"context"
	"errors"

	"github.com/FuseKota/omen-manage/model"
	ledgerrepo "github.com/FuseKota/omen-manage/repository/ledger"
	"github.com/FuseKota/omen-manage/util/clock"
)

type ErrCode string

const (
	ErrValidation      ErrCode = "VALIDATION"
	ErrProductNotFound ErrCode = "PRODUCT_NOT_FOUND"
	ErrStore           ErrCode = "STORE"
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
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Receipt summarises one cash sale.
type Receipt struct {
	Lines []ReceiptLine `json:"lines"`
	Total int           `json:"total"`
}

type ReceiptLine struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int    `json:"unit_price"`
	Subtotal    int    `json:"subtotal"`
}

type Catalog interface {
	ByID(id string) (*model.Product, bool)
}

type Ledger interface {
	AppendSales(ctx context.Context, rows []ledgerrepo.SaleRow) error
}

type Service interface {
	// Checkout prices the cart lines against the catalog and appends
	// them to the sales ledger in one batch.
	Checkout(ctx context.Context, lines []model.SaleLine, staff, note string) (*Receipt, error)
}

type service struct {
	cat Catalog
	l   Ledger
	clk clock.Clock
}

func New(cat Catalog, l Ledger, clk clock.Clock) Service {
	return &service{cat: cat, l: l, clk: clk}
}

func (s *service) Checkout(ctx context.Context, lines []model.SaleLine, staff, note string) (*Receipt, error) {
	if len(lines) == 0 {
		return nil, makeErr(ErrValidation)
	}

	now := s.clk.Now()
	date := now.Format("2006-01-02")
	tm := now.Format("15:04:05")

	receipt := &Receipt{}
	rows := make([]ledgerrepo.SaleRow, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, makeErr(ErrValidation)
		}
		p, ok := s.cat.ByID(line.ProductID)
		if !ok {
			return nil, makeErr(ErrProductNotFound)
		}
		subtotal := p.SalePrice * line.Quantity
		rows = append(rows, ledgerrepo.SaleRow{
			Date:        date,
			Time:        tm,
			Category:    p.Category,
			ProductName: p.Name,
			Quantity:    line.Quantity,
			UnitPrice:   p.SalePrice,
			Subtotal:    subtotal,
			Staff:       staff,
			Note:        note,
		})
		receipt.Lines = append(receipt.Lines, ReceiptLine{
			ProductName: p.Name,
			Quantity:    line.Quantity,
			UnitPrice:   p.SalePrice,
			Subtotal:    subtotal,
		})
		receipt.Total += subtotal
	}

	if err := s.l.AppendSales(ctx, rows); err != nil {
		return nil, codedError{code: ErrStore, err: err}
	}
	return receipt, nil
}
