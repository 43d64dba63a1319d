package rest

import (
	"listings-service/internal/contextkeys"
	"listings-service/internal/core/port/usecases_port"
	"net/http"
)

type HealthHandler struct {
	checkUC usecases_port.CheckHealthUseCase
}

func NewHealthHandler(checkUC usecases_port.CheckHealthUseCase) *HealthHandler {
	return &HealthHandler{checkUC: checkUC}
}

// Check - GET /healthz
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.checkUC.Execute(r.Context()); err != nil {
		contextkeys.LoggerFromContext(r.Context()).Error("Health check failed", err, nil)
		RespondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
