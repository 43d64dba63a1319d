package domain

const (
	DefaultCountry = "España"
	// DefaultMaxAmount - "очень большое" значение для верхних границ по умолчанию.
	DefaultMaxAmount = 1e12
)

// ListingFilter - набор необязательных условий поиска. Пустая строка означает,
// что условие не задано и в запрос не попадает.
type ListingFilter struct {
	Province   string
	Country    string
	Activity   string
	Sector     string
	MinRevenue float64
	MaxRevenue float64
	MaxPrice   float64
}

// NewListingFilter возвращает фильтр со значениями по умолчанию.
func NewListingFilter() ListingFilter {
	return ListingFilter{
		Country:    DefaultCountry,
		MinRevenue: 0,
		MaxRevenue: DefaultMaxAmount,
		MaxPrice:   DefaultMaxAmount,
	}
}

// Matches - эталонная проверка объявления в памяти. SQL-построитель обязан давать тот же результат.
func (f ListingFilter) Matches(l Listing) bool {
	if l.Revenue < f.MinRevenue || l.Revenue > f.MaxRevenue {
		return false
	}
	if l.SalePrice > f.MaxPrice {
		return false
	}
	if f.Province != "" && l.Location != f.Province {
		return false
	}
	if f.Country != "" && l.Country != f.Country {
		return false
	}
	if f.Activity != "" && l.Activity != f.Activity {
		return false
	}
	if f.Sector != "" && l.Sector != f.Sector {
		return false
	}
	return true
}
