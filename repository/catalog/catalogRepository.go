// repository/catalog/repo.go
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/FuseKota/omen-manage/model"
)

// Repo is the read-only product catalog. The stall's lineup is fixed for
// the day, so it loads once at boot from a YAML file.
type Repo interface {
	List() []model.Product
	ByID(id string) (*model.Product, bool)
}

type repo struct {
	products []model.Product
	byID     map[string]*model.Product
}

type catalogFile struct {
	Products []model.Product `yaml:"products"`
}

// LoadFile reads the catalog YAML.
func LoadFile(path string) (Repo, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Load(raw)
}

func Load(raw []byte) (Repo, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Products) == 0 {
		return nil, fmt.Errorf("catalog has no products")
	}

	r := &repo{
		products: f.Products,
		byID:     make(map[string]*model.Product, len(f.Products)),
	}
	for i := range r.products {
		p := &r.products[i]
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("catalog entry %d missing id or name", i)
		}
		if p.SalePrice < 0 {
			return nil, fmt.Errorf("catalog entry %q has negative price", p.ID)
		}
		if _, dup := r.byID[p.ID]; dup {
			return nil, fmt.Errorf("catalog has duplicate id %q", p.ID)
		}
		r.byID[p.ID] = p
	}
	return r, nil
}

func (r *repo) List() []model.Product { return r.products }

func (r *repo) ByID(id string) (*model.Product, bool) {
	p, ok := r.byID[id]
	return p, ok
}
