package rest

import (
	"errors"
	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
	"listings-service/internal/core/port/usecases_port"
	"net/http"
)

type ListingsHandler struct {
	findUC         usecases_port.FindListingsUseCase
	submitUC       usecases_port.SubmitListingUseCase
	taxonomy       *domain.Taxonomy
	flashes        *FlashStore
	maxUploadBytes int64
}

func NewListingsHandler(
	findUC usecases_port.FindListingsUseCase,
	submitUC usecases_port.SubmitListingUseCase,
	taxonomy *domain.Taxonomy,
	flashes *FlashStore,
	maxUploadBytes int64,
) *ListingsHandler {
	return &ListingsHandler{
		findUC:         findUC,
		submitUC:       submitUC,
		taxonomy:       taxonomy,
		flashes:        flashes,
		maxUploadBytes: maxUploadBytes,
	}
}

// Index - GET /: поиск объявлений по фильтрам из строки запроса
func (h *ListingsHandler) Index(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r.URL.Query())
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			WriteJSONError(w, http.StatusBadRequest, "Parámetro '"+vErr.Field+"' no válido: "+vErr.Reason)
			return
		}
		WriteJSONError(w, http.StatusBadRequest, "Parámetros de búsqueda no válidos")
		return
	}

	listings, err := h.findUC.Execute(r.Context(), filter)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	resp := IndexResponse{
		Listings: make([]ListingResponse, 0, len(listings)),
		Taxonomy: h.taxonomy.Entries(),
		Filter:   toFilterResponse(filter),
		Messages: h.flashes.Pop(w, r),
	}
	for _, l := range listings {
		resp.Listings = append(resp.Listings, toListingResponse(l))
	}

	RespondWithJSON(w, http.StatusOK, resp)
}

// PublishForm - GET /publicar: данные для пустой формы
func (h *ListingsHandler) PublishForm(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, FormResponse{
		Taxonomy: h.taxonomy.Entries(),
		Messages: h.flashes.Pop(w, r),
	})
}

// Publish - POST /publicar
func (h *ListingsHandler) Publish(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	form, err := parseListingForm(w, r, h.maxUploadBytes)
	if err != nil {
		logger.Warn("Failed to parse submission form", port.Fields{"error": err.Error()})
		writeFormError(w, err)
		return
	}
	defer form.Close()

	result, err := h.submitUC.Execute(r.Context(), form.draft, form.image)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			respondValidationError(w, form.draft, err, h.taxonomy)
			return
		}
		writeUseCaseError(w, r, err)
		return
	}

	flashes := []Flash{{Category: FlashSuccess, Message: "Empresa publicada correctamente"}}
	if result.ImageRejected {
		flashes = append(flashes, Flash{Category: FlashWarning, Message: "La imagen no tiene un formato permitido y no se ha guardado"})
	}
	if result.NotificationErr != nil {
		flashes = append(flashes, Flash{Category: FlashWarning, Message: "La empresa se ha publicado, pero no se pudo enviar la notificación"})
	}
	h.flashes.Add(w, r, flashes...)
	redirectHome(w, r)
}

// respondValidationError возвращает форму с введенными значениями и причиной ошибки
func respondValidationError(w http.ResponseWriter, draft domain.ListingDraft, err error, taxonomy *domain.Taxonomy) {
	resp := FormResponse{
		Error:    "Datos no válidos",
		Taxonomy: taxonomy.Entries(),
		Messages: []Flash{},
	}
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		resp.Error = "El campo '" + vErr.Field + "' " + vErr.Reason
		resp.Field = vErr.Field
	}
	values := toDraftResponse(draft)
	resp.Values = &values
	resp.Messages = append(resp.Messages, Flash{Category: FlashError, Message: resp.Error})

	RespondWithJSON(w, http.StatusOK, resp)
}
