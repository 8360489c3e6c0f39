package http

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed pages/*.html
var pagesFS embed.FS

var pageNames = []string{"index", "login", "signup", "account"}

func (h *Handler) registerPages(router *gin.Engine) {
	for _, name := range pageNames {
		router.GET("/"+name+".html", h.servePage(name))
	}
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/index.html")
	})
}

func (h *Handler) servePage(name string) gin.HandlerFunc {
	file := "pages/" + name + ".html"
	return func(c *gin.Context) {
		body, err := pagesFS.ReadFile(file)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", body)
	}
}
