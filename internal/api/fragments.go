package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/sitefrag/internal/checksum"
	"github.com/starford/sitefrag/internal/siteservice"
)

const maxFragmentBytes = 1 << 20

// FragmentHandler reads and replaces the shared header and footer includes.
type FragmentHandler struct {
	svc *siteservice.Service
}

// NewFragmentHandler creates a new FragmentHandler.
func NewFragmentHandler(svc *siteservice.Service) *FragmentHandler {
	return &FragmentHandler{svc: svc}
}

// Get handles GET /api/fragments/{name}. The checksum is also sent as ETag.
//
//	@Summary		Read a shared fragment
//	@Tags			fragments
//	@Produce		json
//	@Param			name	path		string	true	"Fragment name"	Enums(header, footer)
//	@Success		200		{object}	FragmentResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/fragments/{name} [get]
func (h *FragmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	content, err := h.svc.Fragment(name)
	if err != nil {
		writeError(w, "read fragment", err)
		return
	}
	sum := checksum.Sum([]byte(content))
	w.Header().Set("ETag", `"`+sum+`"`)
	writeJSON(w, http.StatusOK, FragmentResponse{Name: name, Content: content, Checksum: sum})
}

// Put handles PUT /api/fragments/{name}. An If-Match header makes the write
// conditional on the current checksum.
//
//	@Summary		Replace a shared fragment
//	@Tags			fragments
//	@Accept			json
//	@Produce		json
//	@Param			name		path		string					true	"Fragment name"	Enums(header, footer)
//	@Param			If-Match	header		string					false	"SHA-256 checksum of the current content"
//	@Param			body		body		UpdateFragmentRequest	true	"New content"
//	@Success		200			{object}	FragmentResponse
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/fragments/{name} [put]
func (h *FragmentHandler) Put(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFragmentBytes)
	name := chi.URLParam(r, "name")

	var req UpdateFragmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("content is required"))
		return
	}

	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)
	err := h.svc.WriteFragment(name, []byte(req.Content), ifMatch)
	if err != nil {
		writeError(w, "write fragment", err)
		return
	}
	sum := checksum.Sum([]byte(req.Content))
	w.Header().Set("ETag", `"`+sum+`"`)
	writeJSON(w, http.StatusOK, FragmentResponse{Name: name, Content: req.Content, Checksum: sum})
}
