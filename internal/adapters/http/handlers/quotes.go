package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/jsamuelsen/quotefault/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotefault/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotefault/internal/app"
)

// QuoteHandler serves the session-gated /quotes routes.
type QuoteHandler struct {
	quotes          *app.QuoteService
	defaultPageSize int
}

// NewQuoteHandler creates a quote handler. Listings use defaultPageSize when
// the caller sends no page_size.
func NewQuoteHandler(quotes *app.QuoteService, defaultPageSize int) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, defaultPageSize: defaultPageSize}
}

// Register mounts the routes on rg, which must already require an identity.
func (h *QuoteHandler) Register(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.List)
	quotes.POST("", h.Create)
	quotes.GET("/:id", h.Get)
	quotes.PUT("/:id", h.Update)
	quotes.DELETE("/:id", h.Delete)
	quotes.POST("/:id/votes", h.Vote)
}

// List handles GET /quotes.
func (h *QuoteHandler) List(c *gin.Context) {
	var q dto.ListQuotesQuery

	err := dto.BindQueryAndValidate(c, &q)
	if err != nil {
		respondBindError(c, err)
		return
	}

	page, err := q.Page(h.defaultPageSize)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	views, err := h.quotes.List(c.Request.Context(), q.Filter(), page, viewer(c))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// Create handles POST /quotes. The body may be JSON or a form; rule
// violations are answered with 422.
func (h *QuoteHandler) Create(c *gin.Context) {
	var req dto.CreateQuoteRequest

	var err error

	switch c.ContentType() {
	case binding.MIMEJSON:
		err = c.ShouldBindJSON(&req)
	case binding.MIMEPOSTForm, binding.MIMEMultipartPOSTForm:
		err = c.ShouldBind(&req)
	default:
		RespondWithErrorCode(c, dto.ErrorCodeUnsupportedMediaType,
			"expected application/json or form data")

		return
	}

	if err != nil {
		RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "malformed request body")
		return
	}

	view, err := h.quotes.Create(c.Request.Context(), viewer(c), req.Speaker, req.Quote)
	if err != nil {
		RespondUnprocessable(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// Get handles GET /quotes/:id.
func (h *QuoteHandler) Get(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	view, err := h.quotes.Get(c.Request.Context(), id, viewer(c))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Update handles PUT /quotes/:id. Only the submitter or a privileged member
// may edit; omitted fields keep their value.
func (h *QuoteHandler) Update(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	var req dto.UpdateQuoteRequest

	err := c.ShouldBindJSON(&req)
	if err != nil {
		RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "malformed request body")
		return
	}

	view, err := h.quotes.Update(c.Request.Context(), viewer(c), id, app.QuoteUpdate{
		Quote:   req.Quote,
		Speaker: req.Speaker,
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Delete handles DELETE /quotes/:id.
func (h *QuoteHandler) Delete(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	err := h.quotes.Delete(c.Request.Context(), viewer(c), id)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Status: dto.StatusSuccess})
}

// Vote handles POST /quotes/:id/votes. A later vote replaces the earlier one.
func (h *QuoteHandler) Vote(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	var req dto.VoteRequest

	err := dto.BindAndValidate(c, &req)
	if err != nil {
		respondBindError(c, err)
		return
	}

	view, err := h.quotes.Vote(c.Request.Context(), viewer(c), id, *req.Direction)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// viewer is the username of the session caller.
func viewer(c *gin.Context) string {
	id, _ := middleware.GetIdentity(c)
	return id.Username
}
