package rest

import (
	"listings-service/internal/core/domain"
	"net/url"
	"strings"
)

// ListingResponse - объявление в ответах API
type ListingResponse struct {
	ID              int64    `json:"id"`
	Name            string   `json:"nombre"`
	ContactEmail    string   `json:"email_contacto"`
	Activity        string   `json:"actividad"`
	Sector          string   `json:"sector"`
	Country         string   `json:"pais"`
	Location        string   `json:"ubicacion"`
	Description     string   `json:"descripcion"`
	Revenue         float64  `json:"facturacion"`
	Employees       *int     `json:"num_empleados"`
	PropertyStatus  string   `json:"local_propiedad"`
	ProfitBeforeTax *float64 `json:"resultado_antes_impuestos"`
	Debt            *float64 `json:"deuda"`
	SalePrice       float64  `json:"precio_venta"`
	Image           string   `json:"imagen"`
}

func toListingResponse(l domain.Listing) ListingResponse {
	return ListingResponse{
		ID:              l.ID,
		Name:            l.Name,
		ContactEmail:    l.ContactEmail,
		Activity:        l.Activity,
		Sector:          l.Sector,
		Country:         l.Country,
		Location:        l.Location,
		Description:     l.Description,
		Revenue:         l.Revenue,
		Employees:       l.Employees,
		PropertyStatus:  string(l.PropertyStatus),
		ProfitBeforeTax: l.ProfitBeforeTax,
		Debt:            l.Debt,
		SalePrice:       l.SalePrice,
		Image:           l.Image,
	}
}

// DraftResponse - значения формы как их ввел пользователь, для повторного показа
type DraftResponse struct {
	Name            string `json:"nombre"`
	ContactEmail    string `json:"email_contacto"`
	Activity        string `json:"actividad"`
	Sector          string `json:"sector"`
	Country         string `json:"pais"`
	Location        string `json:"ubicacion"`
	Description     string `json:"descripcion"`
	Revenue         string `json:"facturacion"`
	Employees       string `json:"num_empleados"`
	PropertyStatus  string `json:"local_propiedad"`
	ProfitBeforeTax string `json:"resultado_antes_impuestos"`
	Debt            string `json:"deuda"`
	SalePrice       string `json:"precio_venta"`
}

func toDraftResponse(d domain.ListingDraft) DraftResponse {
	return DraftResponse(d)
}

// FilterResponse - примененный фильтр, чтобы клиент мог заполнить форму поиска
type FilterResponse struct {
	Province   string  `json:"provincia"`
	Country    string  `json:"pais"`
	Activity   string  `json:"actividad"`
	Sector     string  `json:"sector"`
	MinRevenue float64 `json:"min_facturacion"`
	MaxRevenue float64 `json:"max_facturacion"`
	MaxPrice   float64 `json:"max_precio"`
}

type IndexResponse struct {
	Listings []ListingResponse      `json:"empresas"`
	Taxonomy []domain.TaxonomyEntry `json:"taxonomia"`
	Filter   FilterResponse         `json:"filtros"`
	Messages []Flash                `json:"mensajes"`
}

// FormResponse - форма публикации или редактирования, в том числе с ошибкой валидации
type FormResponse struct {
	Error    string                 `json:"error,omitempty"`
	Field    string                 `json:"campo,omitempty"`
	Values   *DraftResponse         `json:"valores,omitempty"`
	Listing  *ListingResponse       `json:"empresa,omitempty"`
	Taxonomy []domain.TaxonomyEntry `json:"taxonomia"`
	Messages []Flash                `json:"mensajes"`
}

// draftFromForm читает поля формы. Ожидается, что форма уже разобрана.
func draftFromForm(form url.Values) domain.ListingDraft {
	return domain.ListingDraft{
		Name:            form.Get(domain.FieldName),
		ContactEmail:    form.Get(domain.FieldContactEmail),
		Activity:        form.Get(domain.FieldActivity),
		Sector:          form.Get(domain.FieldSector),
		Country:         form.Get(domain.FieldCountry),
		Location:        form.Get(domain.FieldLocation),
		Description:     form.Get(domain.FieldDescription),
		Revenue:         form.Get(domain.FieldRevenue),
		Employees:       form.Get(domain.FieldEmployees),
		PropertyStatus:  form.Get(domain.FieldPropertyStatus),
		ProfitBeforeTax: form.Get(domain.FieldProfitBeforeTax),
		Debt:            form.Get(domain.FieldDebt),
		SalePrice:       form.Get(domain.FieldSalePrice),
	}
}

// Параметры строки запроса на главной странице
const (
	queryProvince   = "provincia"
	queryCountry    = "pais"
	queryActivity   = "actividad"
	querySector     = "sector"
	queryMinRevenue = "min_facturacion"
	queryMaxRevenue = "max_facturacion"
	queryMaxPrice   = "max_precio"
)

// filterFromQuery строит фильтр. Пустой параметр означает "не фильтровать"; исключение -
// pais: без параметра действует España, с пустым значением страна не проверяется.
func filterFromQuery(q url.Values) (domain.ListingFilter, error) {
	f := domain.NewListingFilter()
	f.Province = strings.TrimSpace(q.Get(queryProvince))
	f.Activity = strings.TrimSpace(q.Get(queryActivity))
	f.Sector = strings.TrimSpace(q.Get(querySector))
	if _, present := q[queryCountry]; present {
		f.Country = strings.TrimSpace(q.Get(queryCountry))
	}

	amounts := []struct {
		param string
		dst   *float64
	}{
		{queryMinRevenue, &f.MinRevenue},
		{queryMaxRevenue, &f.MaxRevenue},
		{queryMaxPrice, &f.MaxPrice},
	}
	for _, a := range amounts {
		raw := strings.TrimSpace(q.Get(a.param))
		if raw == "" {
			continue
		}
		v, err := domain.ParseAmount(raw)
		if err != nil {
			return f, domain.NewValidationError(a.param, "debe ser un número")
		}
		*a.dst = v
	}
	return f, nil
}

func toFilterResponse(f domain.ListingFilter) FilterResponse {
	return FilterResponse(f)
}
