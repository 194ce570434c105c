package pages

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sitegrid/sitegrid/pkg/slug"
	"github.com/sitegrid/sitegrid/pkg/tenant"
)

// Store is the page persistence surface the handlers need; satisfied by
// *Repository and by test fakes.
type Store interface {
	List(ctx context.Context, tenantID uuid.UUID) ([]*Page, error)
	GetBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Page, error)
	GetPublishedBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Page, error)
	Create(ctx context.Context, p *Page) error
	Update(ctx context.Context, p *Page) error
	Delete(ctx context.Context, tenantID uuid.UUID, slug string) error
}

// Router exposes the authenticated page management API. The tenant id comes
// exclusively from the request's resolution context, never from client
// input; mount it behind tenant.Middleware, auth.Middleware and
// authz.RequireTenantAccess.
func Router(store Store) chi.Router {
	h := &handlers{store: store}
	r := chi.NewRouter()

	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{slug}", h.get)
	r.Put("/{slug}", h.update)
	r.Delete("/{slug}", h.delete)

	return r
}

// PublicRouter exposes published pages for anonymous reads by domain. It
// still requires tenant resolution; only authentication is exempt.
func PublicRouter(store Store) chi.Router {
	h := &handlers{store: store}
	r := chi.NewRouter()
	r.Get("/{slug}", h.getPublished)
	return r
}

type handlers struct {
	store Store
}

type pageInput struct {
	Slug           string `json:"slug"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	Language       string `json:"language"`
	SEOTitle       string `json:"seo_title"`
	SEODescription string `json:"seo_description"`
	Published      bool   `json:"published"`
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	res := tenant.MustFromContext(r.Context())
	out, err := h.store.List(r.Context(), res.Tenant.ID)
	if err != nil {
		writePageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) get(w http.ResponseWriter, r *http.Request) {
	res := tenant.MustFromContext(r.Context())
	p, err := h.store.GetBySlug(r.Context(), res.Tenant.ID, chi.URLParam(r, "slug"))
	if err != nil {
		writePageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handlers) getPublished(w http.ResponseWriter, r *http.Request) {
	res := tenant.MustFromContext(r.Context())
	p, err := h.store.GetPublishedBySlug(r.Context(), res.Tenant.ID, chi.URLParam(r, "slug"))
	if err != nil {
		writePageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	res := tenant.MustFromContext(r.Context())

	var in pageInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if in.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	pageSlug := in.Slug
	if pageSlug == "" {
		pageSlug = slug.Make(in.Title)
	}
	if !slug.IsValid(pageSlug) {
		writeError(w, http.StatusBadRequest, "malformed slug")
		return
	}

	language := in.Language
	if language == "" {
		language = res.Tenant.DefaultLanguage
	}

	now := time.Now()
	p := &Page{
		ID:             uuid.New(),
		TenantID:       res.Tenant.ID,
		Slug:           pageSlug,
		Title:          in.Title,
		Body:           in.Body,
		Language:       language,
		SEOTitle:       in.SEOTitle,
		SEODescription: in.SEODescription,
		Published:      in.Published,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := h.store.Create(r.Context(), p); err != nil {
		writePageError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *handlers) update(w http.ResponseWriter, r *http.Request) {
	res := tenant.MustFromContext(r.Context())

	p, err := h.store.GetBySlug(r.Context(), res.Tenant.ID, chi.URLParam(r, "slug"))
	if err != nil {
		writePageError(w, err)
		return
	}

	var in pageInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if in.Title != "" {
		p.Title = in.Title
	}
	if in.Language != "" {
		p.Language = in.Language
	}
	p.Body = in.Body
	p.SEOTitle = in.SEOTitle
	p.SEODescription = in.SEODescription
	p.Published = in.Published
	p.UpdatedAt = time.Now()

	if err := h.store.Update(r.Context(), p); err != nil {
		writePageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handlers) delete(w http.ResponseWriter, r *http.Request) {
	res := tenant.MustFromContext(r.Context())
	if err := h.store.Delete(r.Context(), res.Tenant.ID, chi.URLParam(r, "slug")); err != nil {
		writePageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writePageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPageNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSlugTaken):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
