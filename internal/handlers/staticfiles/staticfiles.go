// Package staticfiles serves the uploads kept by the local filestore.
package staticfiles

import (
	"github.com/gin-gonic/gin"
)

const Prefix = "/uploads"

// RegisterHandlers serves dir under /uploads. Directory listing is off, a
// stored blob is only reachable by its key.
func RegisterHandlers(rg *gin.RouterGroup, dir string) {
	rg.StaticFS(Prefix, gin.Dir(dir, false))
}
