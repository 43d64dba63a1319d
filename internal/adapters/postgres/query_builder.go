package postgres_adapter

import (
	"fmt"
	"listings-service/internal/core/domain"
	"strings"
)

// queryBuilder собирает WHERE из условий с позиционными параметрами $N.
// Значения пользователя никогда не попадают в текст запроса, только в args.
type queryBuilder struct {
	conditions []string
	args       []interface{}
	argID      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{argID: 1, args: make([]interface{}, 0)}
}

// addCondition принимает шаблон вида "%s = $%d"; имя колонки берется только из кода
func (qb *queryBuilder) addCondition(condition string, column string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, column, qb.argID))
	qb.args = append(qb.args, arg)
	qb.argID++
}

// addEquals добавляет точное совпадение, только если значение задано
func (qb *queryBuilder) addEquals(column, value string) {
	if value == "" {
		return
	}
	qb.addCondition("%s = $%d", column, value)
}

func (qb *queryBuilder) addBetween(column string, min, max float64) {
	qb.conditions = append(qb.conditions, fmt.Sprintf("%s BETWEEN $%d AND $%d", column, qb.argID, qb.argID+1))
	qb.args = append(qb.args, min, max)
	qb.argID += 2
}

func (qb *queryBuilder) build() (string, []interface{}) {
	if len(qb.conditions) == 0 {
		return "", qb.args
	}
	return "WHERE " + strings.Join(qb.conditions, " AND "), qb.args
}

// applyFilter переводит фильтр поиска в WHERE-часть запроса к таблице empresas
func applyFilter(f domain.ListingFilter) (string, []interface{}) {
	qb := newQueryBuilder()

	// Диапазоны задаются всегда: у них есть значения по умолчанию
	qb.addBetween("facturacion", f.MinRevenue, f.MaxRevenue)
	qb.addCondition("%s <= $%d", "precio_venta", f.MaxPrice)

	qb.addEquals("ubicacion", f.Province)
	qb.addEquals("pais", f.Country)
	qb.addEquals("actividad", f.Activity)
	qb.addEquals("sector", f.Sector)

	return qb.build()
}
