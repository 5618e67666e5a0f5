package core

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	dm "pnlanalyzer/data/models"
	"pnlanalyzer/service/logger"
	sm "pnlanalyzer/service/models"
	"pnlanalyzer/service/presentation"
)

func GetHttpServer(sc *ServiceContext) *http.Server {
	server := &http.Server{
		Addr:           sc.Config.Server.Addr,
		Handler:        GetRouter(sc),
		ReadTimeout:    sc.Config.Server.ReadTimeout,
		WriteTimeout:   sc.Config.Server.WriteTimeout,
		MaxHeaderBytes: sc.Config.Server.MaxHeaderBytes,
	}

	return server
}

func GetRouter(sc *ServiceContext) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   sc.Config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           int((12 * time.Hour).Seconds()),
	}))

	router.Get("/healthz", healthz)
	router.Get("/", sc.dashboard)

	router.Route("/api", func(r chi.Router) {
		r.Get("/ping", ping)
		r.Get("/examples", sc.examples)
		r.Get("/analysis/{symbol}", sc.analysis)
		r.Get("/analysis/{symbol}/charts/{kind}.png", sc.chart)
	})

	return router
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logger.Info(r.Context(), "Handled request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("time", time.Since(start)),
		)
	})
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func ping(w http.ResponseWriter, r *http.Request) {
	writeJson(w, http.StatusOK, sm.GetServiceResponseOk(&map[string]string{"message": "pong"}))
}

func (sc *ServiceContext) examples(w http.ResponseWriter, r *http.Request) {
	writeJson(w, http.StatusOK, sm.GetServiceResponseOk(&sc.Config.Examples))
}

func (sc *ServiceContext) analysis(w http.ResponseWriter, r *http.Request) {
	frequency, err := parsePeriod(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := sc.AnalyzeSymbol(r.Context(), chi.URLParam(r, "symbol"), frequency)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJson(w, http.StatusOK, sm.GetServiceResponseOk(res))
}

func (sc *ServiceContext) chart(w http.ResponseWriter, r *http.Request) {
	frequency, err := parsePeriod(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := sc.AnalyzeSymbol(r.Context(), chi.URLParam(r, "symbol"), frequency)
	if err != nil {
		writeError(w, err)
		return
	}

	png, err := presentation.RenderChart(chi.URLParam(r, "kind"), res)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// dashboard renders the html page, the example selection wins over a typed symbol
func (sc *ServiceContext) dashboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	symbol, example := query.Get("symbol"), query.Get("example")

	frequency, err := parsePeriod(r)
	page := presentation.NewDashboardPage(sc.Config.Examples, symbol, example, frequency.String())
	status := http.StatusOK

	target := symbol
	if example != "" {
		target = example
	}

	switch {
	case err != nil:
		page.WithError(err)
		status = sm.StatusCode(err)
	case target != "":
		res, err := sc.AnalyzeSymbol(r.Context(), target, frequency)
		if err == nil {
			_, err = page.WithAnalysis(res)
		}
		if err != nil {
			page.WithError(err)
			status = sm.StatusCode(err)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := presentation.RenderDashboard(w, page); err != nil {
		logger.Error(r.Context(), "Error rendering dashboard", err)
	}
}

func parsePeriod(r *http.Request) (dm.Frequency, error) {
	period := r.URL.Query().Get("period")
	frequency, ok := dm.ParseFrequency(period)
	if !ok {
		return frequency, fmt.Errorf("%w: unknown period %q, expected annual or quarterly", sm.ErrInvalidInput, period)
	}
	return frequency, nil
}

func writeError(w http.ResponseWriter, err error) {
	status, res := sm.GetServiceResponseFromError(err)
	writeJson(w, status, res)
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.L().Warn("error writing response", zap.Error(err))
	}
}
