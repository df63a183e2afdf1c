// Package statshttp exposes a jobsys.System's statistics over HTTP.
//
// It provides:
//   - GET /stats   – counter snapshot (JSON)
//   - GET /healthz – liveness plus busy/shutdown state (JSON)
//
// The router is read-only: it cannot submit work or shut the system down.
// Mount it standalone or attach the routes to an existing gin engine:
//
//	srv := &http.Server{Addr: ":8080", Handler: statshttp.NewRouter(sys)}
//	go srv.ListenAndServe()
package statshttp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tahsin716/jobsys"
)

// NewRouter returns a gin engine serving the stats endpoints for sys.
func NewRouter(sys *jobsys.System) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	Register(r, sys)
	return r
}

// Register attaches the stats endpoints to an existing gin router.
func Register(r gin.IRoutes, sys *jobsys.System) {
	r.GET("/stats", statsHandler(sys))
	r.GET("/healthz", healthHandler(sys))
}

func statsHandler(sys *jobsys.System) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, sys.Stats())
	}
}

func healthHandler(sys *jobsys.System) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		if sys.IsShutdown() {
			status = "shutdown"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  status,
			"pool_id": sys.ID().String(),
			"busy":    sys.IsBusy(),
			"workers": sys.NumWorkers(),
		})
	}
}
