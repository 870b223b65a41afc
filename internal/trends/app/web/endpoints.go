package web

import (
	"fmt"
	"ktrend_api/internal/trends/app/web/handlers"
	"ktrend_api/metrics"
	"ktrend_api/pkg/logger"
	"ktrend_api/pkg/middleware"
	"net/http"
)

// SetupRoutes registers every route group on a new mux and wraps it with the
// request-id and prometheus middleware. All handlers are required.
func SetupRoutes(log logger.Logger, hs ...handlers.Handler) (http.Handler, error) {
	log = logger.OrNop(log)
	handlerMap := make(map[string]handlers.Handler)
	for _, h := range hs {
		switch h.(type) {
		case *handlers.ProductHandler, *handlers.TrendingHandler, *handlers.DealsHandler,
			*handlers.CategoryHandler, *handlers.InsightsHandler, *handlers.ReportHandler:
			handlerMap[h.Name()] = h
		default:
			log.Log("Unknown handler type: %T", h)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("GET /metrics", metrics.MetricsHandler())

	if productHandler, ok := handlerMap["ProductHandler"].(*handlers.ProductHandler); ok {
		mux.HandleFunc("GET /api/products", productHandler.GetRankedProductsHandler)
		mux.HandleFunc("GET /api/history/{id}", productHandler.GetHistoryHandler)
	} else {
		return nil, fmt.Errorf("ProductHandler not provided")
	}

	if trendingHandler, ok := handlerMap["TrendingHandler"].(*handlers.TrendingHandler); ok {
		mux.HandleFunc("GET /api/trending", trendingHandler.GetTrendingHandler)
		mux.HandleFunc("GET /api/reviews", trendingHandler.GetReviewGrowthHandler)
	} else {
		return nil, fmt.Errorf("TrendingHandler not provided")
	}

	if dealsHandler, ok := handlerMap["DealsHandler"].(*handlers.DealsHandler); ok {
		mux.HandleFunc("GET /api/deals", dealsHandler.GetDealsHandler)
		mux.HandleFunc("GET /api/kpi", dealsHandler.GetKPIHandler)
	} else {
		return nil, fmt.Errorf("DealsHandler not provided")
	}

	if categoryHandler, ok := handlerMap["CategoryHandler"].(*handlers.CategoryHandler); ok {
		mux.HandleFunc("GET /api/categories", categoryHandler.GetCategoriesHandler)
	} else {
		return nil, fmt.Errorf("CategoryHandler not provided")
	}

	if insightsHandler, ok := handlerMap["InsightsHandler"].(*handlers.InsightsHandler); ok {
		mux.HandleFunc("GET /api/insights", insightsHandler.GetInsightsHandler)
	} else {
		return nil, fmt.Errorf("InsightsHandler not provided")
	}

	if reportHandler, ok := handlerMap["ReportHandler"].(*handlers.ReportHandler); ok {
		mux.HandleFunc("GET /api/report", reportHandler.GetReportHandler)
	} else {
		return nil, fmt.Errorf("ReportHandler not provided")
	}

	return middleware.RequestID(middleware.PrometheusMiddleware(mux)), nil
}
