package rest

import (
	"encoding/json"
	"errors"
	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, map[string]string{"error": message})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(response)
}

// writeUseCaseError сопоставляет ошибки ядра со статусами HTTP. Ошибки валидации
// сюда не попадают: для них форма возвращается с сообщением.
func writeUseCaseError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrAccessDenied):
		WriteJSONError(w, http.StatusForbidden, "Acceso denegado")
	case errors.Is(err, domain.ErrListingNotFound):
		WriteJSONError(w, http.StatusNotFound, "Empresa no encontrada")
	case errors.Is(err, domain.ErrImageStorage):
		contextkeys.LoggerFromContext(r.Context()).Error("Image storage failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "No se pudo guardar la imagen")
	case errors.Is(err, domain.ErrStoreUnavailable):
		contextkeys.LoggerFromContext(r.Context()).Error("Listing store unavailable", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Servicio no disponible, inténtelo más tarde")
	default:
		contextkeys.LoggerFromContext(r.Context()).Error("Unhandled use case error", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Error interno del servidor")
	}
}

// listingIDParam разбирает {listingID} из пути; допускаются только положительные целые
func listingIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "listingID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid listing id")
	}
	return id, nil
}

// redirectHome - ответ после успешной записи (POST-redirect-GET)
func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
