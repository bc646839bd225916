// Copyright 2016 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hexya-erp/saledeliverydate/src/tools/logging"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout is the time given to running requests when the server stops
const shutdownTimeout = 10 * time.Second

// requestIDHeader is the header carrying the id of each request
const requestIDHeader = "X-Request-ID"

var log logging.Logger

// A Server is the HTTP server of an Instance
type Server struct {
	*gin.Engine
	instance *Instance
}

// NewServer returns a new Server serving the given instance
func NewServer(instance *Instance) *Server {
	if !viper.GetBool("Debug") {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{
		Engine:   gin.New(),
		instance: instance,
	}
	s.Engine.Use(requestID, logging.LogForGin(log), recovery)
	if viper.GetBool("Debug") {
		pprof.Register(s.Engine)
	}
	s.setupRoutes()
	return s
}

// Group creates a new router group on the server
func (s *Server) Group(relativePath string, handlers ...HandlerFunc) *RouterGroup {
	return &RouterGroup{
		RouterGroup: *s.Engine.Group(relativePath, wrapContextFuncs(s, handlers...)...),
		server:      s,
	}
}

// Run starts serving HTTP on addr until ctx is done. Running requests are
// then given some time to complete.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s,
	}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Hexya is up and running HTTP", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("Stopping HTTP server", "address", addr)
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// requestID is a middleware that sets a unique id on each request
func requestID(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.New().String()
	}
	c.Set("RequestID", id)
	c.Header(requestIDHeader, id)
	c.Next()
}

// recovery is a middleware that turns panics into 500 responses
func recovery(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			err := logging.LogPanicData(r)
			c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
				Error: errorDetail{
					Message:   "internal server error",
					RequestID: c.GetString("RequestID"),
				},
			})
		}
	}()
	c.Next()
}

func init() {
	log = logging.GetLogger("server")
}
