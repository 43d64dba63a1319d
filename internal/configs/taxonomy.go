package configs

import (
	"encoding/json"
	"fmt"
	"listings-service/internal/core/domain"
	"os"
)

// LoadTaxonomy читает справочник Actividad -> Sectores из JSON-файла вида
// [{"actividad": "...", "sectores": ["..."]}]. Без пути возвращается встроенный справочник.
func LoadTaxonomy(path string) (*domain.Taxonomy, error) {
	if path == "" {
		return domain.DefaultTaxonomy(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file %s: %w", path, err)
	}

	var entries []domain.TaxonomyEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy file %s: %w", path, err)
	}

	taxonomy, err := domain.NewTaxonomy(entries)
	if err != nil {
		return nil, fmt.Errorf("invalid taxonomy file %s: %w", path, err)
	}
	return taxonomy, nil
}
