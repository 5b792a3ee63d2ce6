// Package api is the HTTP boundary. It resolves the caller identity, hands
// validated parameters to the lookup service and the store, and translates
// their errors into status codes.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/samanvaya/samanvaya/pkg/db/store"
	"github.com/samanvaya/samanvaya/pkg/log"
	"github.com/samanvaya/samanvaya/pkg/lookup"
)

// NewRouter builds the gin engine serving every route. mode is one of
// gin's debug, release or test modes.
func NewRouter(mode string, s store.MetadataStore, lk *lookup.Service, logger log.LoggerService) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(AccessLog(logger))
	router.Use(Identity(s))

	RegisterRoutes(router, NewHandlers(s, lk))
	return router
}
