package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const indexTemplate = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>quotefault</title></head>
<body>
%s</body></html>
`

// IndexHandler serves the rendered README on GET /.
type IndexHandler struct {
	page []byte
}

// NewIndexHandler renders readme once. Raw HTML in the source is dropped.
func NewIndexHandler(readme []byte) (*IndexHandler, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer

	err := md.Convert(readme, &body)
	if err != nil {
		return nil, fmt.Errorf("rendering readme: %w", err)
	}

	return &IndexHandler{page: fmt.Appendf(nil, indexTemplate, body.String())}, nil
}

// Index handles GET /.
func (h *IndexHandler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", h.page)
}
