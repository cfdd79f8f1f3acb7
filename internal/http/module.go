// Package http wires domain modules into the HTTP server.
package http

import (
	"github.com/gin-gonic/gin"
)

// Module is a bounded context that owns its routes. The router only knows
// this interface, never the endpoints behind it.
type Module interface {
	// Name identifies the module in logs.
	Name() string
	// RegisterRoutes mounts the module's endpoints.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext carries the mount points a module may use.
type RouterContext struct {
	// Engine is the root engine, for routes outside the versioned API.
	Engine *gin.Engine
	// V1 is the /api/v1 group.
	V1 *gin.RouterGroup
}
