package rental

type OpenRentalReq struct {
	ProductID    string `json:"product_id" validate:"required"`
	CustomerName string `json:"customer_name"`
	Note         string `json:"note"`
}

type ReturnRentalReq struct {
	// EndTime is "HH:mm:ss", "HH:mm" or RFC3339; empty means now.
	EndTime    string `json:"end_time"`
	Returnable string `json:"returnable" validate:"required,oneof=OK NG"`
}
