package rest

import (
	"errors"
	"listings-service/internal/core/domain"
	"mime"
	"mime/multipart"
	"net/http"
)

const (
	defaultMaxUploadBytes = 10 << 20
	imageFormField        = "imagen"
	deleteFormField       = "eliminar"
)

var errBodyTooLarge = errors.New("request body too large")

// parsedForm - разобранное тело POST-запроса с необязательным файлом изображения
type parsedForm struct {
	draft  domain.ListingDraft
	image  *domain.ImageUpload
	delete bool
	file   multipart.File
}

func (p *parsedForm) Close() {
	if p.file != nil {
		p.file.Close()
	}
}

// parseListingForm принимает multipart/form-data и application/x-www-form-urlencoded.
// Размер тела ограничен maxBytes.
func parseListingForm(w http.ResponseWriter, r *http.Request, maxBytes int64) (*parsedForm, error) {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(maxBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}
		return nil, err
	}

	_, del := r.PostForm[deleteFormField]
	p := &parsedForm{
		draft:  draftFromForm(r.PostForm),
		delete: del,
	}

	if r.MultipartForm != nil {
		file, header, err := r.FormFile(imageFormField)
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			return nil, err
		default:
			p.file = file
			p.image = &domain.ImageUpload{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Body:        file,
			}
		}
	}
	return p, nil
}

// writeFormError отвечает на ошибку разбора тела
func writeFormError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		WriteJSONError(w, http.StatusRequestEntityTooLarge, "El archivo es demasiado grande")
		return
	}
	WriteJSONError(w, http.StatusBadRequest, "Formulario no válido")
}
