package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotefault/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotefault/internal/app"
	"github.com/jsamuelsen/quotefault/internal/domain"
)

// LegacyHandler serves the API-key routes used by bots and scripts. Those
// clients expect the JSON string "none" rather than 404 when nothing matched.
// Votes are summed but no caller is a viewer, so direction is always 0.
type LegacyHandler struct {
	quotes *app.QuoteService
}

// NewLegacyHandler creates the legacy route handler.
func NewLegacyHandler(quotes *app.QuoteService) *LegacyHandler {
	return &LegacyHandler{quotes: quotes}
}

// Register mounts the routes on rg, which must already check the API key.
func (h *LegacyHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/all", h.All)
	rg.GET("/random", h.Random)
	rg.GET("/newest", h.Newest)
	rg.GET("/between/:start/:end", h.Between)
	rg.GET("/markov", h.Markov)
	rg.GET("/markov/:count", h.Markov)
	rg.GET("/:id", h.Get)
	rg.PUT("/create", h.Create)
}

// All handles GET /:key/all.
func (h *LegacyHandler) All(c *gin.Context) {
	filter, ok := legacyFilter(c, "", "")
	if !ok {
		return
	}

	views, err := h.quotes.Find(c.Request.Context(), filter, "")
	respondLegacyList(c, views, err)
}

// Between handles GET /:key/between/:start/:end. The window ends where the
// end day begins.
func (h *LegacyHandler) Between(c *gin.Context) {
	filter, ok := legacyFilter(c, c.Param("start"), c.Param("end"))
	if !ok {
		return
	}

	views, err := h.quotes.Find(c.Request.Context(), filter, "")
	respondLegacyList(c, views, err)
}

// Random handles GET /:key/random.
func (h *LegacyHandler) Random(c *gin.Context) {
	filter, ok := legacyFilter(c, "", "")
	if !ok {
		return
	}

	view, err := h.quotes.Random(c.Request.Context(), filter)
	respondLegacyOne(c, view, err)
}

// Newest handles GET /:key/newest.
func (h *LegacyHandler) Newest(c *gin.Context) {
	filter, ok := legacyFilter(c, "", "")
	if !ok {
		return
	}

	view, err := h.quotes.Newest(c.Request.Context(), filter)
	respondLegacyOne(c, view, err)
}

// Get handles GET /:key/:id.
func (h *LegacyHandler) Get(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	view, err := h.quotes.Get(c.Request.Context(), id, "")
	respondLegacyOne(c, view, err)
}

// Create handles PUT /:key/create. The submitter is taken from the body, as
// the key owner often posts on behalf of chat users.
func (h *LegacyHandler) Create(c *gin.Context) {
	var req dto.LegacyCreateRequest

	err := c.ShouldBindJSON(&req)
	if err != nil {
		RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "malformed request body")
		return
	}

	view, err := h.quotes.Create(c.Request.Context(), req.Submitter, req.Speaker, req.Quote)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// Markov handles GET /:key/markov and GET /:key/markov/:count. Without a
// count it returns one sentence as a string, otherwise a list of count.
func (h *LegacyHandler) Markov(c *gin.Context) {
	filter, ok := legacyFilter(c, "", "")
	if !ok {
		return
	}

	count := 1

	raw, hasCount := c.Params.Get("count")
	if hasCount {
		n, err := strconv.Atoi(raw)
		if err != nil {
			RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "count must be a number")
			return
		}

		count = n
	}

	sentences, err := h.quotes.Markov(c.Request.Context(), filter, count)

	switch {
	case domain.IsNotFound(err):
		c.JSON(http.StatusOK, dto.NoneResponse)
	case err != nil:
		RespondWithError(c, err)
	case hasCount:
		c.JSON(http.StatusOK, sentences)
	default:
		c.JSON(http.StatusOK, sentences[0])
	}
}

func legacyFilter(c *gin.Context, start, end string) (domain.QuoteFilter, bool) {
	var q dto.LegacyQuery

	err := c.ShouldBindQuery(&q)
	if err != nil {
		RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "malformed query")
		return domain.QuoteFilter{}, false
	}

	filter, err := q.Filter(start, end)
	if err != nil {
		RespondWithError(c, err)
		return domain.QuoteFilter{}, false
	}

	return filter, true
}

func respondLegacyList(c *gin.Context, views []domain.QuoteView, err error) {
	switch {
	case err != nil:
		RespondWithError(c, err)
	case len(views) == 0:
		c.JSON(http.StatusOK, dto.NoneResponse)
	default:
		c.JSON(http.StatusOK, views)
	}
}

func respondLegacyOne(c *gin.Context, view *domain.QuoteView, err error) {
	switch {
	case domain.IsNotFound(err):
		c.JSON(http.StatusOK, dto.NoneResponse)
	case err != nil:
		RespondWithError(c, err)
	default:
		c.JSON(http.StatusOK, view)
	}
}

// quoteID parses the :id path parameter, answering 400 when it is not a number.
func quoteID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "quote id must be a positive number")
		return 0, false
	}

	return id, true
}
