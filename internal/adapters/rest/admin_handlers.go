package rest

import (
	"errors"
	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
	"listings-service/internal/core/port/usecases_port"
	"net/http"
)

const adminTokenParam = "admin_token"

type AdminHandler struct {
	getUC          usecases_port.GetListingForEditUseCase
	updateUC       usecases_port.UpdateListingUseCase
	deleteUC       usecases_port.DeleteListingUseCase
	taxonomy       *domain.Taxonomy
	flashes        *FlashStore
	maxUploadBytes int64
}

func NewAdminHandler(
	getUC usecases_port.GetListingForEditUseCase,
	updateUC usecases_port.UpdateListingUseCase,
	deleteUC usecases_port.DeleteListingUseCase,
	taxonomy *domain.Taxonomy,
	flashes *FlashStore,
	maxUploadBytes int64,
) *AdminHandler {
	return &AdminHandler{
		getUC:          getUC,
		updateUC:       updateUC,
		deleteUC:       deleteUC,
		taxonomy:       taxonomy,
		flashes:        flashes,
		maxUploadBytes: maxUploadBytes,
	}
}

// EditForm - GET /editar/{id}?admin_token=...
func (h *AdminHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := listingIDParam(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Identificador de empresa no válido")
		return
	}

	listing, err := h.getUC.Execute(r.Context(), r.URL.Query().Get(adminTokenParam), id)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	listingResp := toListingResponse(*listing)
	values := toDraftResponse(domain.DraftFromListing(*listing))
	RespondWithJSON(w, http.StatusOK, FormResponse{
		Values:   &values,
		Listing:  &listingResp,
		Taxonomy: h.taxonomy.Entries(),
		Messages: h.flashes.Pop(w, r),
	})
}

// Edit - POST /editar/{id}?admin_token=...; поле eliminar превращает запрос в удаление
func (h *AdminHandler) Edit(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())

	id, err := listingIDParam(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Identificador de empresa no válido")
		return
	}
	token := r.URL.Query().Get(adminTokenParam)

	form, err := parseListingForm(w, r, h.maxUploadBytes)
	if err != nil {
		logger.Warn("Failed to parse edit form", port.Fields{"error": err.Error()})
		writeFormError(w, err)
		return
	}
	defer form.Close()

	if form.delete {
		if err := h.deleteUC.Execute(r.Context(), token, id); err != nil {
			writeUseCaseError(w, r, err)
			return
		}
		h.flashes.Add(w, r, Flash{Category: FlashSuccess, Message: "Empresa eliminada"})
		redirectHome(w, r)
		return
	}

	if err := h.updateUC.Execute(r.Context(), token, id, form.draft, form.image); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			respondValidationError(w, form.draft, err, h.taxonomy)
			return
		}
		writeUseCaseError(w, r, err)
		return
	}

	h.flashes.Add(w, r, Flash{Category: FlashSuccess, Message: "Empresa actualizada"})
	redirectHome(w, r)
}
