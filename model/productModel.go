// model/product.go
package model

type Category string

const (
	CategoryOmen   Category = "OMEN"
	CategoryMingei Category = "MINGEI"
	CategoryVinyl  Category = "VINYL"
)

type Product struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Category      Category `json:"category" yaml:"category"`
	SalePrice     int      `json:"sale_price" yaml:"salePrice"`
	RentalAllowed bool     `json:"rental_allowed" yaml:"rentalAllowed"`
}

// SaleLine is one purchased cart line at checkout.
type SaleLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
