package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/orbitalis/starbooking/api"
	"github.com/orbitalis/starbooking/config"
	"github.com/orbitalis/starbooking/internal/catalog"
	"github.com/orbitalis/starbooking/internal/service/trips"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, cat *catalog.Catalog, tripSvc trips.TripUseCase) error {
	router := newRouter(cfg, cat, tripSvc)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, cat *catalog.Catalog, tripSvc trips.TripUseCase) *gin.Engine {
	router := gin.Default()

	bookingHandler := api.NewBookingHandler(tripSvc)
	catalogHandler := api.NewCatalogHandler(cat)

	bookingHandler.Register(router.Group("/api/bookings"))
	catalogHandler.Register(router.Group("/api/destinations"))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/starbooking.swagger.json"),
		)))
	}

	return router
}
