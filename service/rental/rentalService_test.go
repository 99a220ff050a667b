// service/rental/rental_service_test.go
package rental_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/FuseKota/omen-manage/model"
	ledgerrepo "github.com/FuseKota/omen-manage/repository/ledger"
	rentalsvc "github.com/FuseKota/omen-manage/service/rental"
	"github.com/FuseKota/omen-manage/util/clock"
)

type repoMock struct {
	appendFn       func(ctx context.Context, rec *model.RentalRecord) error
	maxFn          func(ctx context.Context) (int64, error)
	findByNumberFn func(ctx context.Context, no int64) (*model.RentalRecord, error)
	findByNameFn   func(ctx context.Context, substr string) ([]model.RentalRecord, error)
	closeFn        func(ctx context.Context, no int64, endTime time.Time, usedMinutes int, plan string, fee, refund int, returnable model.Returnable) error
}

var _ rentalsvc.Repo = (*repoMock)(nil)

func (m *repoMock) AppendRental(ctx context.Context, rec *model.RentalRecord) error {
	return m.appendFn(ctx, rec)
}
func (m *repoMock) MaxRentalNumber(ctx context.Context) (int64, error) { return m.maxFn(ctx) }
func (m *repoMock) FindOpenByNumber(ctx context.Context, no int64) (*model.RentalRecord, error) {
	return m.findByNumberFn(ctx, no)
}
func (m *repoMock) FindOpenByName(ctx context.Context, substr string) ([]model.RentalRecord, error) {
	return m.findByNameFn(ctx, substr)
}
func (m *repoMock) CloseRental(ctx context.Context, no int64, endTime time.Time, usedMinutes int, plan string, fee, refund int, returnable model.Returnable) error {
	return m.closeFn(ctx, no, endTime, usedMinutes, plan, fee, refund, returnable)
}

func jst(hour, min int) time.Time {
	return time.Date(2025, 8, 16, hour, min, 0, 0, clock.JST)
}

// --- Open ---

func TestOpen_AllocatesNextNumber(t *testing.T) {
	ctx := context.Background()
	var appended *model.RentalRecord
	m := &repoMock{
		maxFn: func(ctx context.Context) (int64, error) { return 41, nil },
		appendFn: func(ctx context.Context, rec *model.RentalRecord) error {
			appended = rec
			return nil
		},
	}
	s := rentalsvc.New(m, clock.Fixed(jst(10, 0)))

	rec, ticket, err := s.Open(ctx, rentalsvc.OpenReq{
		ItemName: "狐面ホワイト",
		Category: model.CategoryOmen,
		Deposit:  500,
		Staff:    "staffA",
	})
	require.NoError(t, err)
	require.EqualValues(t, 42, rec.RentalNo)
	require.Same(t, rec, appended)
	require.True(t, rec.Open())
	require.Equal(t, jst(10, 0), rec.StartTime)

	require.EqualValues(t, 42, ticket.RentalNo)
	require.Equal(t, "（お名前なし）", ticket.CustomerName)
	require.NotEmpty(t, ticket.Instructions)
}

func TestOpen_EmptyLedgerStartsAtOne(t *testing.T) {
	m := &repoMock{
		maxFn:    func(ctx context.Context) (int64, error) { return 0, nil },
		appendFn: func(ctx context.Context, rec *model.RentalRecord) error { return nil },
	}
	s := rentalsvc.New(m, clock.Fixed(jst(10, 0)))

	rec, _, err := s.Open(context.Background(), rentalsvc.OpenReq{
		ItemName: "天狗面", Category: model.CategoryOmen, Deposit: 500,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, rec.RentalNo)
}

func TestOpen_RetriesOnceOnDuplicateNumber(t *testing.T) {
	max := int64(7)
	var attempts []int64
	m := &repoMock{
		maxFn: func(ctx context.Context) (int64, error) { return max, nil },
		appendFn: func(ctx context.Context, rec *model.RentalRecord) error {
			attempts = append(attempts, rec.RentalNo)
			if len(attempts) == 1 {
				max = 8 // the racing kiosk committed 8 first
				return ledgerrepo.ErrDuplicateNumber
			}
			return nil
		},
	}
	s := rentalsvc.New(m, clock.Fixed(jst(10, 0)))

	rec, _, err := s.Open(context.Background(), rentalsvc.OpenReq{
		ItemName: "般若面", Category: model.CategoryOmen, Deposit: 500,
	})
	require.NoError(t, err)
	require.Equal(t, []int64{8, 9}, attempts)
	require.EqualValues(t, 9, rec.RentalNo)
}

func TestOpen_SecondDuplicateIsStoreError(t *testing.T) {
	m := &repoMock{
		maxFn: func(ctx context.Context) (int64, error) { return 1, nil },
		appendFn: func(ctx context.Context, rec *model.RentalRecord) error {
			return ledgerrepo.ErrDuplicateNumber
		},
	}
	s := rentalsvc.New(m, clock.Fixed(jst(10, 0)))

	_, _, err := s.Open(context.Background(), rentalsvc.OpenReq{
		ItemName: "猫面", Category: model.CategoryOmen, Deposit: 500,
	})
	require.Equal(t, rentalsvc.ErrStore, rentalsvc.Code(err))
}

func TestOpen_Validation(t *testing.T) {
	s := rentalsvc.New(&repoMock{}, clock.Fixed(jst(10, 0)))
	ctx := context.Background()

	_, _, err := s.Open(ctx, rentalsvc.OpenReq{Category: model.CategoryOmen, Deposit: 500})
	require.Equal(t, rentalsvc.ErrValidation, rentalsvc.Code(err))

	_, _, err = s.Open(ctx, rentalsvc.OpenReq{ItemName: "狐面", Deposit: 500})
	require.Equal(t, rentalsvc.ErrValidation, rentalsvc.Code(err))

	_, _, err = s.Open(ctx, rentalsvc.OpenReq{ItemName: "狐面", Category: model.CategoryOmen, Deposit: -1})
	require.Equal(t, rentalsvc.ErrValidation, rentalsvc.Code(err))
}

// --- Close ---

func openAt(no int64, deposit int, start time.Time) *model.RentalRecord {
	return &model.RentalRecord{
		RentalNo:  no,
		ItemName:  "狐面ホワイト",
		Category:  model.CategoryOmen,
		Deposit:   deposit,
		StartTime: start,
	}
}

func closeService(rec *model.RentalRecord) (*repoMock, rentalsvc.Service) {
	m := &repoMock{
		findByNumberFn: func(ctx context.Context, no int64) (*model.RentalRecord, error) {
			if rec != nil && rec.RentalNo == no {
				return rec, nil
			}
			return nil, ledgerrepo.ErrNotFound
		},
		closeFn: func(ctx context.Context, no int64, endTime time.Time, usedMinutes int, plan string, fee, refund int, returnable model.Returnable) error {
			return nil
		},
	}
	return m, rentalsvc.New(m, clock.Fixed(jst(12, 0)))
}

func TestClose_ZeroElapsed(t *testing.T) {
	start := jst(10, 0)
	_, s := closeService(openAt(1, 500, start))

	res, err := s.Close(context.Background(), 1, start, model.ReturnableOK)
	require.NoError(t, err)
	require.Equal(t, 0, res.UsedMinutes)
	require.Equal(t, "1h", res.Plan)
	require.Equal(t, 100, res.Fee)
	require.Equal(t, 400, res.Refund)
}

func TestClose_OmenSeventyMinutes(t *testing.T) {
	// rental #7, deposit 500, 10:00 -> 11:10
	_, s := closeService(openAt(7, 500, jst(10, 0)))

	res, err := s.Close(context.Background(), 7, jst(11, 10), model.ReturnableOK)
	require.NoError(t, err)
	require.Equal(t, 70, res.UsedMinutes)
	require.Equal(t, "1h", res.Plan)
	require.Equal(t, 100, res.Fee)
	require.Equal(t, 400, res.Refund)
}

func TestClose_AllDay(t *testing.T) {
	// rental #8, deposit 1000, 09:00 -> 16:00
	_, s := closeService(openAt(8, 1000, jst(9, 0)))

	res, err := s.Close(context.Background(), 8, jst(16, 0), model.ReturnableOK)
	require.NoError(t, err)
	require.Equal(t, 420, res.UsedMinutes)
	require.Equal(t, "allday", res.Plan)
	require.Equal(t, 400, res.Fee)
	require.Equal(t, 600, res.Refund)
}

func TestClose_NGKeepsFeeButRefundsNothing(t *testing.T) {
	// rental #9: fee still computed for the till count, refund zero
	var recorded struct {
		fee, refund int
		returnable  model.Returnable
	}
	m, _ := closeService(nil)
	rec := openAt(9, 500, jst(9, 0))
	m.findByNumberFn = func(ctx context.Context, no int64) (*model.RentalRecord, error) { return rec, nil }
	m.closeFn = func(ctx context.Context, no int64, endTime time.Time, usedMinutes int, plan string, fee, refund int, returnable model.Returnable) error {
		recorded.fee, recorded.refund, recorded.returnable = fee, refund, returnable
		return nil
	}
	s := rentalsvc.New(m, clock.Fixed(jst(12, 0)))

	res, err := s.Close(context.Background(), 9, jst(13, 0), model.ReturnableNG)
	require.NoError(t, err)
	require.Equal(t, 300, res.Fee) // 4h -> 6h plan
	require.Equal(t, 0, res.Refund)
	require.Equal(t, 300, recorded.fee)
	require.Equal(t, 0, recorded.refund)
	require.Equal(t, model.ReturnableNG, recorded.returnable)
}

func TestClose_MinutesAreFloored(t *testing.T) {
	// 75m59s still floors to 75 and stays on the 1h plan
	_, s := closeService(openAt(2, 500, jst(10, 0)))

	res, err := s.Close(context.Background(), 2, jst(10, 0).Add(75*time.Minute+59*time.Second), model.ReturnableOK)
	require.NoError(t, err)
	require.Equal(t, 75, res.UsedMinutes)
	require.Equal(t, "1h", res.Plan)
}

func TestClose_RefundMayGoNegative(t *testing.T) {
	// deposit below the fee is not clamped
	_, s := closeService(openAt(3, 50, jst(9, 0)))

	res, err := s.Close(context.Background(), 3, jst(17, 0), model.ReturnableOK)
	require.NoError(t, err)
	require.Equal(t, 400, res.Fee)
	require.Equal(t, -350, res.Refund)
}

func TestClose_Validation(t *testing.T) {
	rec := openAt(1, 500, jst(10, 0))
	_, s := closeService(rec)
	ctx := context.Background()

	_, err := s.Close(ctx, 0, jst(11, 0), model.ReturnableOK)
	require.Equal(t, rentalsvc.ErrValidation, rentalsvc.Code(err))

	_, err = s.Close(ctx, 1, jst(11, 0), model.Returnable("MAYBE"))
	require.Equal(t, rentalsvc.ErrValidation, rentalsvc.Code(err))

	// end before start
	_, err = s.Close(ctx, 1, jst(9, 59), model.ReturnableOK)
	require.Equal(t, rentalsvc.ErrValidation, rentalsvc.Code(err))
}

func TestClose_NotFound(t *testing.T) {
	_, s := closeService(nil)
	_, err := s.Close(context.Background(), 12, jst(11, 0), model.ReturnableOK)
	require.Equal(t, rentalsvc.ErrNotFound, rentalsvc.Code(err))
}

func TestClose_LosingConcurrentCloserGetsInvalidState(t *testing.T) {
	rec := openAt(5, 500, jst(10, 0))
	m, _ := closeService(nil)
	m.findByNumberFn = func(ctx context.Context, no int64) (*model.RentalRecord, error) { return rec, nil }
	m.closeFn = func(ctx context.Context, no int64, endTime time.Time, usedMinutes int, plan string, fee, refund int, returnable model.Returnable) error {
		return ledgerrepo.ErrAlreadyClosed
	}
	s := rentalsvc.New(m, clock.Fixed(jst(12, 0)))

	_, err := s.Close(context.Background(), 5, jst(11, 0), model.ReturnableOK)
	require.Equal(t, rentalsvc.ErrInvalidState, rentalsvc.Code(err))
}

// --- end to end against the in-memory ledger ---

func TestLifecycle_OpenCloseSearch(t *testing.T) {
	ctx := context.Background()
	r := ledgerrepo.NewMemory()
	s := rentalsvc.New(r, clock.Fixed(jst(10, 0)))

	rec, _, err := s.Open(ctx, rentalsvc.OpenReq{
		ItemName:     "狐面ホワイト",
		Category:     model.CategoryOmen,
		CustomerName: "佐藤太郎",
		Deposit:      500,
		Staff:        "staffA",
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, rec.RentalNo)

	// open record is findable both ways
	byNo, err := s.SearchByNumber(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byNo, 1)
	byName, err := s.SearchByName(ctx, "佐藤")
	require.NoError(t, err)
	require.Len(t, byName, 1)

	res, err := s.Close(ctx, 1, jst(11, 10), model.ReturnableOK)
	require.NoError(t, err)
	require.Equal(t, 70, res.UsedMinutes)
	require.Equal(t, 400, res.Refund)

	// terminal: a second close fails, the record is gone from search
	_, err = s.Close(ctx, 1, jst(11, 20), model.ReturnableOK)
	require.Equal(t, rentalsvc.ErrInvalidState, rentalsvc.Code(err))

	byNo, err = s.SearchByNumber(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, byNo)

	// numbers keep climbing past closed records
	rec2, _, err := s.Open(ctx, rentalsvc.OpenReq{
		ItemName: "天狗面", Category: model.CategoryOmen, Deposit: 500,
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, rec2.RentalNo)
}
