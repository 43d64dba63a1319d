package domain

import "crypto/subtle"

// AdminGuard проверяет общий секрет администратора.
type AdminGuard struct {
	secret []byte
}

func NewAdminGuard(secret string) *AdminGuard {
	return &AdminGuard{secret: []byte(secret)}
}

// Authorize возвращает ErrAccessDenied при любом несовпадении. Пустой секрет в
// конфигурации отключает административные операции полностью.
func (g *AdminGuard) Authorize(token string) error {
	if g == nil || len(g.secret) == 0 || token == "" {
		return ErrAccessDenied
	}
	if subtle.ConstantTimeCompare([]byte(token), g.secret) != 1 {
		return ErrAccessDenied
	}
	return nil
}
