package routes

import (
	"wanderwise/auth"
	"wanderwise/geo"
	"wanderwise/itinerary"
	"wanderwise/middleware"
	"wanderwise/preview"
	"wanderwise/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", rl.Limit(middleware.Authenticate(auth.RefreshToken)))
	router.GET("/api/auth/session", auth.GetSession)
}

func AddItineraryRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/itinerary", rl.Limit(middleware.OptionalAuth(itinerary.GenerateItinerary)))
	router.GET("/api/itineraries", middleware.Authenticate(itinerary.GetItineraries))
	router.GET("/api/itineraries/:id", middleware.Authenticate(itinerary.GetItinerary))
	router.GET("/api/itineraries/:id/print", rl.Limit(middleware.Authenticate(itinerary.PrintItinerary)))
}

func AddMapRoutes(router *httprouter.Router, _ *ratelim.RateLimiter) {
	router.POST("/api/map/markers", geo.GetMarkers)
}

func AddPreviewRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/preview", rl.Limit(preview.GetPreview))
}

func RoutesWrapper(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	AddAuthRoutes(router, rateLimiter)
	AddItineraryRoutes(router, rateLimiter)
	AddMapRoutes(router, rateLimiter)
	AddPreviewRoutes(router, rateLimiter)
}
