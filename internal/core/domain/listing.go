package domain

import (
	"errors"
	"math"
	"net/mail"
	"strconv"
	"strings"
)

// MaxStoredAmount - наибольшая сумма, которая помещается в колонку NUMERIC(16,2).
const MaxStoredAmount = 99999999999999.99

var errNotFinite = errors.New("amount is not a finite number")

// Имена полей формы. Используются и в ответах об ошибках валидации.
const (
	FieldName            = "nombre"
	FieldContactEmail    = "email_contacto"
	FieldActivity        = "actividad"
	FieldSector          = "sector"
	FieldCountry         = "pais"
	FieldLocation        = "ubicacion"
	FieldDescription     = "descripcion"
	FieldRevenue         = "facturacion"
	FieldEmployees       = "num_empleados"
	FieldPropertyStatus  = "local_propiedad"
	FieldProfitBeforeTax = "resultado_antes_impuestos"
	FieldDebt            = "deuda"
	FieldSalePrice       = "precio_venta"
	FieldImage           = "imagen"
)

// PropertyStatus - статус помещения, в котором работает бизнес.
type PropertyStatus string

const (
	PropertyOwned  PropertyStatus = "propiedad"
	PropertyLeased PropertyStatus = "alquiler"
)

func (s PropertyStatus) Valid() bool {
	return s == PropertyOwned || s == PropertyLeased
}

// ListingFields - все редактируемые поля объявления, уже прошедшие проверку.
type ListingFields struct {
	Name            string
	ContactEmail    string
	Activity        string
	Sector          string
	Country         string
	Location        string
	Description     string
	Revenue         float64
	Employees       *int
	PropertyStatus  PropertyStatus
	ProfitBeforeTax *float64
	Debt            *float64
	SalePrice       float64
}

// Listing - объявление о продаже бизнеса в том виде, в каком оно лежит в хранилище.
type Listing struct {
	ID int64
	ListingFields
	// Image - имя файла в хранилище изображений, пустая строка если изображения нет.
	Image string
}

// ListingDraft - сырые значения формы до проверки.
type ListingDraft struct {
	Name            string
	ContactEmail    string
	Activity        string
	Sector          string
	Country         string
	Location        string
	Description     string
	Revenue         string
	Employees       string
	PropertyStatus  string
	ProfitBeforeTax string
	Debt            string
	SalePrice       string
}

// Validate проверяет черновик и приводит значения к типам.
// Первое же нарушение возвращается как *ValidationError с именем поля.
func (d ListingDraft) Validate(taxonomy *Taxonomy) (*ListingFields, error) {
	required := []struct {
		field string
		value string
	}{
		{FieldName, d.Name},
		{FieldContactEmail, d.ContactEmail},
		{FieldActivity, d.Activity},
		{FieldSector, d.Sector},
		{FieldCountry, d.Country},
		{FieldLocation, d.Location},
		{FieldDescription, d.Description},
		{FieldRevenue, d.Revenue},
		{FieldPropertyStatus, d.PropertyStatus},
		{FieldSalePrice, d.SalePrice},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, NewValidationError(r.field, "es obligatorio")
		}
	}

	fields := &ListingFields{
		Name:           strings.TrimSpace(d.Name),
		ContactEmail:   strings.TrimSpace(d.ContactEmail),
		Activity:       strings.TrimSpace(d.Activity),
		Sector:         strings.TrimSpace(d.Sector),
		Country:        strings.TrimSpace(d.Country),
		Location:       strings.TrimSpace(d.Location),
		Description:    strings.TrimSpace(d.Description),
		PropertyStatus: PropertyStatus(strings.ToLower(strings.TrimSpace(d.PropertyStatus))),
	}

	if !validEmail(fields.ContactEmail) {
		return nil, NewValidationError(FieldContactEmail, "no es un email válido")
	}

	if taxonomy != nil {
		if !taxonomy.HasActivity(fields.Activity) {
			return nil, NewValidationError(FieldActivity, "actividad desconocida")
		}
		if !taxonomy.HasSector(fields.Activity, fields.Sector) {
			return nil, NewValidationError(FieldSector, "el sector no corresponde a la actividad")
		}
	}

	if !fields.PropertyStatus.Valid() {
		return nil, NewValidationError(FieldPropertyStatus, "debe ser 'propiedad' o 'alquiler'")
	}

	var err error
	if fields.Revenue, err = parseAmount(FieldRevenue, d.Revenue, true); err != nil {
		return nil, err
	}
	if fields.SalePrice, err = parseAmount(FieldSalePrice, d.SalePrice, true); err != nil {
		return nil, err
	}

	if strings.TrimSpace(d.Employees) != "" {
		// Колонка INTEGER: значения вне int32 не примет хранилище
		n, convErr := strconv.ParseInt(strings.TrimSpace(d.Employees), 10, 32)
		if convErr != nil || n < 0 {
			return nil, NewValidationError(FieldEmployees, "debe ser un entero no negativo")
		}
		employees := int(n)
		fields.Employees = &employees
	}

	// Результат и долг могут быть отрицательными (убыток, переплата)
	if strings.TrimSpace(d.ProfitBeforeTax) != "" {
		v, err := parseAmount(FieldProfitBeforeTax, d.ProfitBeforeTax, false)
		if err != nil {
			return nil, err
		}
		fields.ProfitBeforeTax = &v
	}
	if strings.TrimSpace(d.Debt) != "" {
		v, err := parseAmount(FieldDebt, d.Debt, false)
		if err != nil {
			return nil, err
		}
		fields.Debt = &v
	}

	return fields, nil
}

// DraftFromListing строит черновик из сохраненного объявления, чтобы заполнить форму редактирования.
func DraftFromListing(l Listing) ListingDraft {
	d := ListingDraft{
		Name:           l.Name,
		ContactEmail:   l.ContactEmail,
		Activity:       l.Activity,
		Sector:         l.Sector,
		Country:        l.Country,
		Location:       l.Location,
		Description:    l.Description,
		Revenue:        formatAmount(l.Revenue),
		PropertyStatus: string(l.PropertyStatus),
		SalePrice:      formatAmount(l.SalePrice),
	}
	if l.Employees != nil {
		d.Employees = strconv.Itoa(*l.Employees)
	}
	if l.ProfitBeforeTax != nil {
		d.ProfitBeforeTax = formatAmount(*l.ProfitBeforeTax)
	}
	if l.Debt != nil {
		d.Debt = formatAmount(*l.Debt)
	}
	return d
}

// ParseAmount разбирает денежную сумму. Принимает и десятичную запятую ("1500,50").
// NaN и бесконечности, которые пропускает strconv, считаются ошибкой.
func ParseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

func parseAmount(field, raw string, nonNegative bool) (float64, error) {
	v, err := ParseAmount(raw)
	if err != nil {
		return 0, NewValidationError(field, "debe ser un número")
	}
	if nonNegative && v < 0 {
		return 0, NewValidationError(field, "no puede ser negativo")
	}
	if math.Abs(v) > MaxStoredAmount {
		return 0, NewValidationError(field, "es demasiado grande")
	}
	return v, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	// ParseAddress пропускает "Имя <a@b>", нам нужен голый адрес
	return addr.Address == s
}
