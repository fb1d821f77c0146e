package server

import (
	"embed"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

//go:embed web
var webFS embed.FS

// statusPage serves the embedded status page and its assets.
func statusPage() gin.HandlerFunc {
	return static.Serve("/", static.EmbedFolder(webFS, "web"))
}
