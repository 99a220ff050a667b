package rental

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/FuseKota/omen-manage/model"
	catalogrepo "github.com/FuseKota/omen-manage/repository/catalog"
	rs "github.com/FuseKota/omen-manage/service/rental"
	"github.com/FuseKota/omen-manage/util/clock"
)

type Controller struct {
	Svc rs.Service
	Cat catalogrepo.Repo
	Clk clock.Clock
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/rentals
func (h *Controller) Open(c echo.Context) error {
	var req OpenRentalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	p, ok := h.Cat.ByID(req.ProductID)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "product not found"})
	}
	if !p.RentalAllowed {
		return c.JSON(http.StatusConflict, echo.Map{"message": "product is sale-only"})
	}

	staff, _ := c.Get("staff").(string)

	// deposit equals the sale price; it comes back minus the fee
	rec, ticket, err := h.Svc.Open(c.Request().Context(), rs.OpenReq{
		ItemName:     p.Name,
		Category:     p.Category,
		CustomerName: req.CustomerName,
		Deposit:      p.SalePrice,
		Staff:        staff,
		Note:         req.Note,
	})
	if err != nil {
		h.Log.Error("rental open", "err", err)
		switch rs.Code(err) {
		case rs.ErrValidation:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid rental request"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"rental_no": rec.RentalNo,
		"deposit":   rec.Deposit,
		"ticket":    ticket,
	})
}

// GET /v1/rentals/search?no=7 or ?name=佐藤
func (h *Controller) Search(c echo.Context) error {
	noParam := strings.TrimSpace(c.QueryParam("no"))
	name := strings.TrimSpace(c.QueryParam("name"))

	var (
		rows []model.RentalRecord
		err  error
	)
	switch {
	case noParam != "":
		no, perr := strconv.ParseInt(noParam, 10, 64)
		if perr != nil || no <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid rental number"})
		}
		rows, err = h.Svc.SearchByNumber(c.Request().Context(), no)
	case name != "":
		rows, err = h.Svc.SearchByName(c.Request().Context(), name)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "no or name is required"})
	}

	if err != nil {
		h.Log.Error("rental search", "err", err)
		switch rs.Code(err) {
		case rs.ErrValidation:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid search"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	if rows == nil {
		rows = []model.RentalRecord{}
	}
	return c.JSON(http.StatusOK, echo.Map{"rows": rows, "count": len(rows)})
}

// POST /v1/rentals/:no/return
func (h *Controller) Return(c echo.Context) error {
	no, err := strconv.ParseInt(c.Param("no"), 10, 64)
	if err != nil || no <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid rental number"})
	}

	var req ReturnRentalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	endTime, perr := h.parseEndTime(req.EndTime)
	if perr != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid end_time"})
	}

	res, err := h.Svc.Close(c.Request().Context(), no, endTime, model.Returnable(req.Returnable))
	if err != nil {
		h.Log.Error("rental return", "err", err, "rental_no", no)
		switch rs.Code(err) {
		case rs.ErrValidation:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid return request"})
		case rs.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "rental not found"})
		case rs.ErrInvalidState:
			return c.JSON(http.StatusConflict, echo.Map{"message": "already returned"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, res)
}

// parseEndTime accepts the return counter's time-only input as well as a
// full timestamp. A bare clock time is pinned to today's date at the
// kiosk; the festival never crosses midnight.
func (h *Controller) parseEndTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return h.Clk.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(clock.JST), nil
	}
	layout := "15:04:05"
	if strings.Count(raw, ":") == 1 {
		layout = "15:04"
	}
	t, err := time.ParseInLocation(layout, raw, clock.JST)
	if err != nil {
		return time.Time{}, err
	}
	now := h.Clk.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), t.Second(), 0, clock.JST), nil
}
