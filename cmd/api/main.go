package main

import (
	"context"
	"net/http"
	"os"

	"address-search/internal/config"
	_ "address-search/internal/docs"
	"address-search/internal/geocoder"
	"address-search/internal/handler"
	"address-search/internal/location"
	"address-search/internal/repository"
	"address-search/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("level", config.LogLevel).Msg("invalid log level")
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	log.Logger = logger

	// Database connection
	conn, err := pgxpool.New(context.Background(), config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	if err := repository.EnsureSchema(context.Background(), conn); err != nil {
		log.Fatal().Err(err).Msg("cannot prepare schema")
	}

	// Initialize layers
	repo := repository.NewRepository(conn, config.RegionResultLimit)
	nominatim := geocoder.NewNominatim(geocoder.Config{
		BaseURL:       config.NominatimURL,
		UserAgent:     config.NominatimUserAgent,
		Timeout:       config.GeocoderTimeout,
		RatePerSecond: config.GeocoderRatePerSecond,
		Burst:         config.GeocoderBurst,
	}, logger.With().Str("component", "nominatim").Logger())
	deviceLocation := location.NewProvider()

	searchService := service.NewSearchService(service.Sources{
		AddressString: nominatim,
		PostalAddress: nominatim,
		RegionSearch:  repo,
		Location:      deviceLocation,
	},
		service.WithLogger(logger.With().Str("component", "orchestrator").Logger()),
		service.WithPostalVariants(config.PostalVariants),
		service.WithRegionSpan(config.RegionSpanMeters),
	)

	searchHandler := handler.NewSearchHandler(searchService)
	locationHandler := handler.NewLocationHandler(deviceLocation)
	liveSearchHandler := handler.NewLiveSearchHandler(searchService, logger.With().Str("component", "live_search").Logger())

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/search", searchHandler.Search)
	r.GET("/location", locationHandler.GetLocation)
	r.PUT("/location", locationHandler.UpdateLocation)
	r.GET("/ws/search", liveSearchHandler.LiveSearch)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Info().Str("address", config.ServerAddress).Msg("starting server")
	if err := r.Run(config.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
