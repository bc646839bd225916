// Copyright 2017 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package server

import "github.com/gin-gonic/gin"

// A HandlerFunc is a function that can be used for handling a given request or as a middleware
type HandlerFunc func(*Context)

// RouterGroup is used internally to configure router, a RouterGroup is associated with a prefix
// and an array of handlers (middleware)
type RouterGroup struct {
	gin.RouterGroup
	server *Server
}

// wrapContextFuncs returns a slice of gin.HandlerFunc from a slice of HandlerFunc
func wrapContextFuncs(s *Server, handlers ...HandlerFunc) []gin.HandlerFunc {
	wrappedHandlers := make([]gin.HandlerFunc, len(handlers))
	for i, hf := range handlers {
		// We use here a closure inside a closure to freeze hf
		wrappedHandlers[i] = func(f HandlerFunc) gin.HandlerFunc {
			return func(ctx *gin.Context) {
				f(&Context{Context: ctx, instance: s.instance})
			}
		}(hf)
	}
	return wrappedHandlers
}

// Group creates a new router group. You should add all the routes that have common middlwares or the same path prefix.
func (rg *RouterGroup) Group(relativePath string, handlers ...HandlerFunc) *RouterGroup {
	return &RouterGroup{
		RouterGroup: *rg.RouterGroup.Group(relativePath, wrapContextFuncs(rg.server, handlers...)...),
		server:      rg.server,
	}
}

// POST is a shortcut for router.Handle("POST", path, handle)
func (rg *RouterGroup) POST(relativePath string, handlers ...HandlerFunc) gin.IRoutes {
	return rg.RouterGroup.POST(relativePath, wrapContextFuncs(rg.server, handlers...)...)
}

// GET is a shortcut for router.Handle("GET", path, handle)
func (rg *RouterGroup) GET(relativePath string, handlers ...HandlerFunc) gin.IRoutes {
	return rg.RouterGroup.GET(relativePath, wrapContextFuncs(rg.server, handlers...)...)
}

// DELETE is a shortcut for router.Handle("DELETE", path, handle)
func (rg *RouterGroup) DELETE(relativePath string, handlers ...HandlerFunc) gin.IRoutes {
	return rg.RouterGroup.DELETE(relativePath, wrapContextFuncs(rg.server, handlers...)...)
}

// PATCH is a shortcut for router.Handle("PATCH", path, handle)
func (rg *RouterGroup) PATCH(relativePath string, handlers ...HandlerFunc) gin.IRoutes {
	return rg.RouterGroup.PATCH(relativePath, wrapContextFuncs(rg.server, handlers...)...)
}

// setupRoutes registers the web routes of the server
func (s *Server) setupRoutes() {
	web := s.Group("/web")
	web.GET("/modules", listModules)
	model := web.Group("/model/:model", loadModel)
	model.GET("/fields", fieldsGet)
	model.GET("/views/:type", getView)
	model.GET("/records", searchRead)
	model.POST("/records", createRecord)
	model.GET("/records/:id", readRecord)
	model.PATCH("/records/:id", writeRecord)
	model.DELETE("/records/:id", unlinkRecord)
}
