package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/YANGYUNJIK/my-app/internal/models"
	"github.com/YANGYUNJIK/my-app/internal/service"
	"github.com/go-chi/chi/v5"
)

// multipart parts beyond this size spill to temp files
const multipartMemory = 8 << 20

// ItemHandler handles catalog HTTP requests
type ItemHandler struct {
	service       *service.ItemService
	publicBaseURL string
	log           *slog.Logger
}

// NewItemHandler creates a new item handler. publicBaseURL overrides the
// request-derived host in image URLs when non-empty.
func NewItemHandler(svc *service.ItemService, publicBaseURL string, log *slog.Logger) *ItemHandler {
	return &ItemHandler{
		service:       svc,
		publicBaseURL: publicBaseURL,
		log:           log,
	}
}

// ListItems handles GET /items?type=
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		writeServiceError(w, err, h.log, "failed to list items")
		return
	}

	WriteJSON(w, http.StatusOK, items, h.log)
}

// GetItem handles GET /items/{id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.log, "failed to get item", "item_id", id)
		return
	}

	WriteJSON(w, http.StatusOK, item, h.log)
}

// CreateItem handles POST /items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	form, cleanup, err := h.parseItemForm(r)
	defer cleanup()
	if err != nil {
		h.log.Warn("invalid item request", "error", err)
		writeServiceError(w, err, h.log, "failed to parse item request")
		return
	}

	in := service.CreateItemInput{
		Stock:   form.stock,
		Image:   form.image,
		BaseURL: baseURL(r, h.publicBaseURL),
	}
	if form.name != nil {
		in.Name = *form.name
	}
	if form.itemType != nil {
		in.Type = *form.itemType
	}

	item, err := h.service.CreateItem(r.Context(), in)
	if err != nil {
		writeServiceError(w, err, h.log, "failed to create item")
		return
	}

	h.log.Info("item created", "item_id", item.ID, "type", item.Type)
	WriteSuccess(w, map[string]interface{}{"item": item}, h.log)
}

// UpdateItem handles PATCH /items/{id}
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	form, cleanup, err := h.parseItemForm(r)
	defer cleanup()
	if err != nil {
		h.log.Warn("invalid item request", "item_id", id, "error", err)
		writeServiceError(w, err, h.log, "failed to parse item request")
		return
	}

	item, err := h.service.UpdateItem(r.Context(), id, service.UpdateItemInput{
		Name:    form.name,
		Type:    form.itemType,
		Stock:   form.stock,
		Image:   form.image,
		BaseURL: baseURL(r, h.publicBaseURL),
	})
	if err != nil {
		writeServiceError(w, err, h.log, "failed to update item", "item_id", id)
		return
	}

	h.log.Info("item updated", "item_id", item.ID)
	WriteSuccess(w, map[string]interface{}{"item": item}, h.log)
}

// DeleteItem handles DELETE /items/{id}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteItem(r.Context(), id); err != nil {
		writeServiceError(w, err, h.log, "failed to delete item", "item_id", id)
		return
	}

	h.log.Info("item deleted", "item_id", id)
	WriteSuccess(w, nil, h.log)
}

// itemForm is an item request decoded from JSON, urlencoded or multipart bodies
type itemForm struct {
	name     *string
	itemType *string
	stock    *bool
	image    service.ImageSource
}

// parseItemForm decodes the request body. The returned cleanup must always be called.
func (h *ItemHandler) parseItemForm(r *http.Request) (itemForm, func(), error) {
	noop := func() {}
	contentType := r.Header.Get("Content-Type")

	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		return parseMultipartItem(r)
	case strings.HasPrefix(contentType, "application/x-www-form-urlencoded"):
		if err := r.ParseForm(); err != nil {
			return itemForm{}, noop, bodyError(err)
		}
		form, err := itemFromValues(r.PostForm.Get, r.PostForm.Has)
		return form, noop, err
	default:
		var req models.ItemRequest
		if err := decodeJSON(r, &req); err != nil {
			return itemForm{}, noop, bodyError(err)
		}
		form := itemForm{name: req.Name, itemType: req.Type, stock: req.Stock}
		if req.ImageBase64 != nil {
			form.image.Base64 = *req.ImageBase64
		}
		return form, noop, nil
	}
}

func parseMultipartItem(r *http.Request) (itemForm, func(), error) {
	noop := func() {}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return itemForm{}, noop, bodyError(err)
	}
	cleanup := func() { _ = r.MultipartForm.RemoveAll() }

	form, err := itemFromValues(func(k string) string { return firstValue(r.MultipartForm.Value, k) },
		func(k string) bool { _, ok := r.MultipartForm.Value[k]; return ok })
	if err != nil {
		return itemForm{}, cleanup, err
	}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		form.image.Upload = file
		form.image.Filename = header.Filename
		return form, func() { file.Close(); cleanup() }, nil
	case errors.Is(err, http.ErrMissingFile):
		return form, cleanup, nil
	default:
		return itemForm{}, cleanup, bodyError(err)
	}
}

func itemFromValues(get func(string) string, has func(string) bool) (itemForm, error) {
	var form itemForm
	if has("name") {
		v := get("name")
		form.name = &v
	}
	if has("type") {
		v := get("type")
		form.itemType = &v
	}
	if has("stock") && get("stock") != "" {
		v, err := strconv.ParseBool(get("stock"))
		if err != nil {
			return itemForm{}, fmt.Errorf("%w: stock must be true or false", service.ErrValidation)
		}
		form.stock = &v
	}
	form.image.Base64 = get("imageBase64")
	return form, nil
}

func firstValue(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// bodyError classifies a body decoding failure as too large or malformed
func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.Is(err, errBodyTooLarge) || errors.As(err, &maxErr) {
		return errBodyTooLarge
	}
	return fmt.Errorf("%w: invalid request body", service.ErrValidation)
}
