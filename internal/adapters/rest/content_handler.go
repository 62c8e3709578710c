package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/inkhouse/backend/internal/content/application"
	"github.com/inkhouse/backend/internal/content/domain"
	"github.com/inkhouse/backend/internal/content/ports"
)

// ContentHandler handles HTTP requests for posts, taxonomies and search.
type ContentHandler struct {
	*BaseHandler
	service  *application.ContentService
	renderer *BodyRenderer
}

func NewContentHandler(base *BaseHandler, service *application.ContentService, renderer *BodyRenderer) *ContentHandler {
	return &ContentHandler{
		BaseHandler: base,
		service:     service,
		renderer:    renderer,
	}
}

type authorResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type taxonomyResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

type bodyResponse struct {
	Format string `json:"format"`
	Value  string `json:"value"`
	HTML   string `json:"html"`
}

type postResponse struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	Slug           string             `json:"slug"`
	Excerpt        *string            `json:"excerpt"`
	Body           bodyResponse       `json:"body"`
	Status         string             `json:"status"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      *time.Time         `json:"updatedAt,omitempty"`
	PublishedAt    *time.Time         `json:"publishedAt,omitempty"`
	Author         *authorResponse    `json:"author,omitempty"`
	Category       *taxonomyResponse  `json:"category,omitempty"`
	Tags           []taxonomyResponse `json:"tags"`
	HeroImageURL   string             `json:"heroImageUrl,omitempty"`
	SeoTitle       string             `json:"seoTitle,omitempty"`
	SeoDescription string             `json:"seoDescription,omitempty"`
	AllowComments  bool               `json:"allowComments"`
	Kind           string             `json:"kind"`
	VideoURL       string             `json:"videoUrl,omitempty"`
	AudioURL       string             `json:"audioUrl,omitempty"`
	GalleryURLs    []string           `json:"galleryUrls,omitempty"`
}

type listItemResponse struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Slug         string             `json:"slug"`
	Excerpt      string             `json:"excerpt"`
	Status       string             `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    *time.Time         `json:"updatedAt,omitempty"`
	PublishedAt  *time.Time         `json:"publishedAt,omitempty"`
	Author       *authorResponse    `json:"author,omitempty"`
	Category     *taxonomyResponse  `json:"category,omitempty"`
	Tags         []taxonomyResponse `json:"tags"`
	HeroImageURL string             `json:"heroImageUrl,omitempty"`
	Kind         string             `json:"kind"`
}

type listResponse struct {
	Page    int                `json:"page"`
	Limit   int                `json:"limit"`
	HasNext bool               `json:"hasNext"`
	Items   []listItemResponse `json:"items"`
}

func (h *ContentHandler) toPostResponse(r *http.Request, post *domain.Post) postResponse {
	rendered, err := h.renderer.Render(post.Body)
	if err != nil {
		h.logger.Warn(r.Context(), "body rendering failed", "id", post.ID, "error", err)
	}

	return postResponse{
		ID:      post.ID,
		Title:   post.Title,
		Slug:    post.Slug,
		Excerpt: post.Excerpt,
		Body: bodyResponse{
			Format: string(post.Body.Format),
			Value:  post.Body.Value,
			HTML:   rendered,
		},
		Status:         string(post.Status),
		CreatedAt:      post.CreatedAt,
		UpdatedAt:      post.UpdatedAt,
		PublishedAt:    post.PublishedAt,
		Author:         toAuthorResponse(post.Author),
		Category:       toTaxonomyResponse(post.Category),
		Tags:           toTaxonomyResponses(post.Tags),
		HeroImageURL:   post.HeroImageURL,
		SeoTitle:       post.SeoTitle,
		SeoDescription: post.SeoDescription,
		AllowComments:  post.AllowComments,
		Kind:           string(post.Kind),
		VideoURL:       post.VideoURL,
		AudioURL:       post.AudioURL,
		GalleryURLs:    post.GalleryURLs,
	}
}

func toAuthorResponse(author *domain.Author) *authorResponse {
	if author == nil {
		return nil
	}
	return &authorResponse{ID: author.ID, Name: author.Name}
}

func toTaxonomyResponse(taxonomy *domain.Taxonomy) *taxonomyResponse {
	if taxonomy == nil {
		return nil
	}
	return &taxonomyResponse{ID: taxonomy.ID, Name: taxonomy.Name, Slug: taxonomy.Slug}
}

func toTaxonomyResponses(taxonomies []domain.Taxonomy) []taxonomyResponse {
	out := make([]taxonomyResponse, 0, len(taxonomies))
	for _, taxonomy := range taxonomies {
		out = append(out, taxonomyResponse{ID: taxonomy.ID, Name: taxonomy.Name, Slug: taxonomy.Slug})
	}
	return out
}

func toListResponse(result *ports.ListResult) listResponse {
	items := make([]listItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, listItemResponse{
			ID:           item.ID,
			Title:        item.Title,
			Slug:         item.Slug,
			Excerpt:      item.Excerpt,
			Status:       string(item.Status),
			CreatedAt:    item.CreatedAt,
			UpdatedAt:    item.UpdatedAt,
			PublishedAt:  item.PublishedAt,
			Author:       toAuthorResponse(item.Author),
			Category:     toTaxonomyResponse(item.Category),
			Tags:         toTaxonomyResponses(item.Tags),
			HeroImageURL: item.HeroImageURL,
			Kind:         string(item.Kind),
		})
	}
	return listResponse{
		Page:    result.Page,
		Limit:   result.Limit,
		HasNext: result.HasNext,
		Items:   items,
	}
}

// ListPosts handles GET /posts.
// Query parameters: page, limit, drafts.
func (h *ContentHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	opts := ports.ListOptions{
		Page:          queryInt(r, "page"),
		Limit:         queryInt(r, "limit"),
		IncludeDrafts: queryBool(r, "drafts"),
	}

	result, err := h.service.ListPosts(r.Context(), opts)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, toListResponse(result), http.StatusOK)
}

// GetPostBySlug handles GET /posts/slug/{slug}.
func (h *ContentHandler) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.service.GetPostBySlug(r.Context(), slug, queryBool(r, "drafts"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	if post == nil {
		h.WriteJSONError(w, r, "POST_NOT_FOUND", "post not found", http.StatusNotFound)
		return
	}
	h.WriteJSONResponse(w, r, h.toPostResponse(r, post), http.StatusOK)
}

// GetPost handles GET /posts/{id}.
func (h *ContentHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	post, err := h.service.GetPostByID(r.Context(), id, queryBool(r, "drafts"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	if post == nil {
		h.WriteJSONError(w, r, "POST_NOT_FOUND", "post not found", http.StatusNotFound)
		return
	}
	h.WriteJSONResponse(w, r, h.toPostResponse(r, post), http.StatusOK)
}

// SearchPosts handles GET /posts/search.
// Query parameters: q, tags, categories, authors, sort, page, limit.
// List filters are comma-separated and combine with AND semantics.
func (h *ContentHandler) SearchPosts(w http.ResponseWriter, r *http.Request) {
	opts := ports.SearchOptions{
		Query:      r.URL.Query().Get("q"),
		Tags:       queryList(r, "tags"),
		Categories: queryList(r, "categories"),
		Authors:    queryList(r, "authors"),
		Sort:       ports.SortOrder(r.URL.Query().Get("sort")),
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	}

	result, err := h.service.SearchPosts(r.Context(), opts)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, toListResponse(result), http.StatusOK)
}

// ListCategories handles GET /categories.
func (h *ContentHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, toTaxonomyResponses(categories), http.StatusOK)
}

// ListTags handles GET /tags.
func (h *ContentHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, toTaxonomyResponses(tags), http.StatusOK)
}

type createPostRequest struct {
	AuthorID       string   `json:"authorId"`
	Title          string   `json:"title"`
	Slug           string   `json:"slug"`
	Excerpt        *string  `json:"excerpt"`
	Body           string   `json:"body"`
	Status         string   `json:"status"`
	TagNames       []string `json:"tags"`
	CategoryID     *string  `json:"categoryId"`
	HeroImageURL   string   `json:"heroImageUrl"`
	SeoTitle       string   `json:"seoTitle"`
	SeoDescription string   `json:"seoDescription"`
	AllowComments  bool     `json:"allowComments"`
	Kind           string   `json:"kind"`
	VideoURL       string   `json:"videoUrl"`
	AudioURL       string   `json:"audioUrl"`
	GalleryURLs    []string `json:"galleryUrls"`
}

// CreatePost handles POST /posts.
func (h *ContentHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteJSONError(w, r, "INVALID_FORMAT", "invalid request body", http.StatusBadRequest)
		return
	}

	input := ports.CreateInput{
		AuthorID:       req.AuthorID,
		Title:          req.Title,
		Slug:           req.Slug,
		Excerpt:        req.Excerpt,
		Body:           req.Body,
		Status:         domain.PostStatus(req.Status),
		TagNames:       req.TagNames,
		CategoryID:     req.CategoryID,
		HeroImageURL:   req.HeroImageURL,
		SeoTitle:       req.SeoTitle,
		SeoDescription: req.SeoDescription,
		AllowComments:  req.AllowComments,
		Kind:           domain.PostKind(req.Kind),
		VideoURL:       req.VideoURL,
		AudioURL:       req.AudioURL,
		GalleryURLs:    req.GalleryURLs,
	}

	post, err := h.service.CreatePost(r.Context(), input)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, h.toPostResponse(r, post), http.StatusCreated)
}

type updatePostRequest struct {
	Title          *string   `json:"title"`
	Slug           *string   `json:"slug"`
	Excerpt        *string   `json:"excerpt"`
	Body           *string   `json:"body"`
	Status         *string   `json:"status"`
	TagNames       *[]string `json:"tags"`
	CategoryID     *string   `json:"categoryId"`
	HeroImageURL   *string   `json:"heroImageUrl"`
	SeoTitle       *string   `json:"seoTitle"`
	SeoDescription *string   `json:"seoDescription"`
	AllowComments  *bool     `json:"allowComments"`
	Kind           *string   `json:"kind"`
	VideoURL       *string   `json:"videoUrl"`
	AudioURL       *string   `json:"audioUrl"`
	GalleryURLs    *[]string `json:"galleryUrls"`
}

// UpdatePost handles PUT /posts/{id}. Absent fields are left untouched.
func (h *ContentHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteJSONError(w, r, "INVALID_FORMAT", "invalid request body", http.StatusBadRequest)
		return
	}

	input := ports.UpdateInput{
		Title:          req.Title,
		Slug:           req.Slug,
		Excerpt:        req.Excerpt,
		Body:           req.Body,
		TagNames:       req.TagNames,
		CategoryID:     req.CategoryID,
		HeroImageURL:   req.HeroImageURL,
		SeoTitle:       req.SeoTitle,
		SeoDescription: req.SeoDescription,
		AllowComments:  req.AllowComments,
		VideoURL:       req.VideoURL,
		AudioURL:       req.AudioURL,
		GalleryURLs:    req.GalleryURLs,
	}
	if req.Status != nil {
		status := domain.PostStatus(*req.Status)
		input.Status = &status
	}
	if req.Kind != nil {
		kind := domain.PostKind(*req.Kind)
		input.Kind = &kind
	}

	post, err := h.service.UpdatePost(r.Context(), id, input)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, h.toPostResponse(r, post), http.StatusOK)
}

// DeletePost handles DELETE /posts/{id}.
func (h *ContentHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeletePost(r.Context(), id); err != nil {
		h.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, name string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return value
}

func queryBool(r *http.Request, name string) bool {
	return r.URL.Query().Get(name) == "true"
}

func queryList(r *http.Request, name string) []string {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
