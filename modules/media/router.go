package media

import (
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sitegrid/sitegrid/pkg/storage"
	"github.com/sitegrid/sitegrid/pkg/tenant"
)

// maxUploadSize bounds a single asset upload.
const maxUploadSize = 32 << 20

// Router exposes the authenticated media API. Object keys are derived from
// the resolved tenant, so a principal can never write into or delete from
// another tenant's namespace.
func Router(repo *Repository, store storage.Storage) chi.Router {
	h := &handlers{repo: repo, store: store}
	r := chi.NewRouter()

	r.Get("/", h.list)
	r.Post("/", h.upload)
	r.Delete("/{id}", h.delete)

	return r
}

type handlers struct {
	repo  *Repository
	store storage.Storage
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	res := tenant.MustFromContext(r.Context())
	out, err := h.repo.List(r.Context(), res.Tenant.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) upload(w http.ResponseWriter, r *http.Request) {
	res := tenant.MustFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing or oversized file field")
		return
	}
	defer func() { _ = file.Close() }()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	id := uuid.New()
	key := storage.ObjectKey(res.Tenant.ID.String(), id.String()+path.Ext(header.Filename))
	url, err := h.store.Upload(r.Context(), key, contentType, file)
	if err != nil {
		writeError(w, http.StatusBadGateway, "upload failed")
		return
	}

	obj := &Object{
		ID:          id,
		TenantID:    res.Tenant.ID,
		Key:         key,
		URL:         url,
		ContentType: contentType,
		Size:        header.Size,
		CreatedAt:   time.Now(),
	}
	if err := h.repo.Create(r.Context(), obj); err != nil {
		// Roll the blob back so storage does not accumulate orphans.
		_ = h.store.Delete(r.Context(), key)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, obj)
}

func (h *handlers) delete(w http.ResponseWriter, r *http.Request) {
	res := tenant.MustFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid object id")
		return
	}

	obj, err := h.repo.Get(r.Context(), res.Tenant.ID, id)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.store.Delete(r.Context(), obj.Key); err != nil {
		writeError(w, http.StatusBadGateway, "delete failed")
		return
	}
	if err := h.repo.Delete(r.Context(), res.Tenant.ID, id); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
