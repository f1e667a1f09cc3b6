package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotefault/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotefault/internal/app"
)

// MemberHandler serves the member listings and API key minting.
type MemberHandler struct {
	members *app.MemberService
	auth    *app.AuthService
}

// NewMemberHandler creates a member handler.
func NewMemberHandler(members *app.MemberService, auth *app.AuthService) *MemberHandler {
	return &MemberHandler{members: members, auth: auth}
}

// Register mounts the routes on rg, which must already require an identity.
func (h *MemberHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/members/", h.List)
	rg.GET("/members/cache", h.ListCached)
	rg.DELETE("/members/cache", h.InvalidateCache)
	rg.GET("/generatekey/:reason", h.GenerateKey)
}

// List handles GET /members/ and always asks the directory.
func (h *MemberHandler) List(c *gin.Context) {
	members, err := h.members.ListMembers(c.Request.Context())
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// ListCached handles GET /members/cache.
func (h *MemberHandler) ListCached(c *gin.Context) {
	members, err := h.members.ListMembersCached(c.Request.Context())
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// InvalidateCache handles DELETE /members/cache.
func (h *MemberHandler) InvalidateCache(c *gin.Context) {
	err := h.members.InvalidateCache(c.Request.Context(), viewer(c))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Status: dto.StatusSuccess})
}

// GenerateKey handles GET /generatekey/:reason.
func (h *MemberHandler) GenerateKey(c *gin.Context) {
	key, err := h.auth.GenerateKey(c.Request.Context(), viewer(c), c.Param("reason"))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.KeyResponse{Hash: key.Hash})
}
