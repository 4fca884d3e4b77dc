package rental

import (
	"fmt"
	"strconv"
)

// Initial stock for every car is rolled in [minSeedStock, maxSeedStock]
// when the inventory ledger has no persisted count for it yet.
const (
	minSeedStock = 4
	maxSeedStock = 10
)

// Catalog returns the static list of rentable cars. Prices are whole
// pesos per day. IDs are stable; rental records reference them.
func Catalog() []Car {
	return []Car{
		{ID: "1", Name: "Toyota Vios", DailyPrice: 2500, ImageRef: "images/toyota.png"},
		{ID: "2", Name: "Honda Civic", DailyPrice: 3200, ImageRef: "images/honda_civic.jpg"},
		{ID: "3", Name: "Ford Ranger", DailyPrice: 4500, ImageRef: "images/ford_ranger.jpg"},
		{ID: "4", Name: "Suzuki Ertiga", DailyPrice: 2800, ImageRef: "images/suzuki.jpg"},
	}
}

// CarByID looks up a catalog entry. Returns ErrNotFound for unknown ids.
func CarByID(id string) (*Car, error) {
	for _, c := range Catalog() {
		if c.ID == id {
			car := c
			return &car, nil
		}
	}
	return nil, fmt.Errorf("car %s: %w", id, ErrNotFound)
}

// FormatPrice renders a peso amount with thousands separators, e.g. "₱2,500".
func FormatPrice(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, d := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	if neg {
		return "₱-" + string(out)
	}
	return "₱" + string(out)
}

// PrettyCar formats a catalog entry with its current stock for lists.
func PrettyCar(c Car, stock int) string {
	return fmt.Sprintf("%-5s %-20s %-12s %-5d", c.ID, c.Name, FormatPrice(c.DailyPrice)+"/day", stock)
}
