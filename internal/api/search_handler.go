package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"vectorchat/internal/embedding"
	apperrors "vectorchat/internal/errors"
	"vectorchat/internal/store"
)

// recordListLimit caps how many record keys the listing proxy returns.
const recordListLimit = 100

// SearchHandler serves the integration proxy routes over the fan-out targets:
// semantic search against the vector index and key listing against the
// record store.
type SearchHandler struct {
	index    store.VectorIndex
	records  store.RecordStore
	embedder *embedding.Embedder
}

func NewSearchHandler(index store.VectorIndex, records store.RecordStore, embedder *embedding.Embedder) *SearchHandler {
	return &SearchHandler{index: index, records: records, embedder: embedder}
}

// SearchRequest is the body for the vector search route.
type SearchRequest struct {
	Query string `json:"query" validate:"required"`
	TopK  int    `json:"topK,omitempty"`
}

// Search godoc
// @Summary      Search indexed messages
// @Description  Embeds the query with the same stand-in used for indexing and returns the top-k cosine matches.
// @Tags         Search
// @Accept       json
// @Produce      json
// @Param        body  body  SearchRequest  true  "Query"
// @Success      200  {object}  APIResponse
// @Failure      400  {object}  APIResponse
// @Router       /search [post]
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", apperrors.ErrValidation))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	matches, err := h.index.Query(r.Context(), h.embedder.Embed(req.Query), req.TopK)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, matches)
}

// ListRecords godoc
// @Summary      List persisted turn record keys
// @Tags         Search
// @Produce      json
// @Success      200  {object}  APIResponse
// @Router       /records [get]
func (h *SearchHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	keys, err := h.records.ListKeys(r.Context(), recordListLimit)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	respondWithData(w, http.StatusOK, map[string]interface{}{"keys": keys})
}
