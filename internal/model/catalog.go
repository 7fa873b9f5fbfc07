package model

import (
	"math"
	"slices"
	"strconv"
)

// Catalog is the store document: two independent collections persisted
// together.
type Catalog struct {
	Products []Product `json:"products"`
	Brands   []Brand   `json:"brands"`
}

// ProductIndex returns the position of the product with the given id, or -1.
func (c Catalog) ProductIndex(id string) int {
	return slices.IndexFunc(c.Products, func(p Product) bool {
		return p.ID == id
	})
}

// MaxProductID returns the largest numeric product id. ok is false when no
// product carries a numeric id; non-numeric ids are skipped.
func (c Catalog) MaxProductID() (maxID int64, ok bool) {
	maxID = math.MinInt64
	for _, p := range c.Products {
		n, err := strconv.ParseInt(p.ID, 10, 64)
		if err != nil {
			continue
		}
		if n > maxID {
			maxID = n
		}
		ok = true
	}
	if !ok {
		return 0, false
	}
	return maxID, true
}
