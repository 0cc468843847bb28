package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/http/auth"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/http/export"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/http/files"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/http/parse"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/http/payers"
)

type Options struct {
	CORSOrigins []string
	// AuthSecret enables bearer-token authentication when set.
	AuthSecret string
}

func New(
	opts Options,
	parseV1 *parse.Handler,
	filesV1 *files.Handler,
	payersV1 *payers.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		if opts.AuthSecret != "" {
			r.Use(auth.Middleware([]byte(opts.AuthSecret)))
		}

		parseV1.Routes(r)

		r.Route("/files", filesV1.Routes)
		r.Route("/errors", filesV1.ErrorRoutes)

		r.Route("/payers", func(r chi.Router) {
			payersV1.Routes(r)
		})

		r.Route("/export", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			exportV1.Routes(r)
		})
	})

	return router
}
