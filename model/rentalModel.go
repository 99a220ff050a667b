// model/rental.go
package model

import "time"

// Returnable records whether the mask came back in rentable condition.
type Returnable string

const (
	ReturnableUnset Returnable = ""
	ReturnableOK    Returnable = "OK"
	ReturnableNG    Returnable = "NG"
)

// Plan is the settled rental tier. The fee table lives in the pricing
// package.
type Plan string

const (
	Plan1H     Plan = "1h"
	Plan3H     Plan = "3h"
	Plan6H     Plan = "6h"
	PlanAllDay Plan = "allday"
)

var planLabels = map[Plan]string{
	Plan1H:     "1時間",
	Plan3H:     "3時間",
	Plan6H:     "6時間",
	PlanAllDay: "終日",
}

// Label returns the display name shown on receipts.
func (p Plan) Label() string { return planLabels[p] }

// RentalRecord is one physical mask lent out. The return-side fields stay
// nil while the rental is open and are all set together when it closes;
// a record is never reopened.
type RentalRecord struct {
	RentalNo     int64      `json:"rental_no"`
	CustomerName string     `json:"customer_name"`
	ItemName     string     `json:"item_name"`
	Category     Category   `json:"category"`
	Deposit      int        `json:"deposit"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	UsedMinutes  *int       `json:"used_minutes,omitempty"`
	Plan         *Plan      `json:"plan,omitempty"`
	Fee          *int       `json:"fee,omitempty"`
	Refund       *int       `json:"refund,omitempty"`
	Returnable   Returnable `json:"returnable,omitempty"`
	Staff        string     `json:"staff"`
	Note         string     `json:"note,omitempty"`
}

// Open reports whether the mask is still out.
func (r *RentalRecord) Open() bool { return r.EndTime == nil }
