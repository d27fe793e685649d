// Package server assembles the HTTP routes of the item API.
package server

import (
	"net/http"

	"github.com/fekuna/stockmanager/internal/health"
	itemH "github.com/fekuna/stockmanager/internal/item/handler"
	"github.com/fekuna/stockmanager/internal/metrics"
	prodH "github.com/fekuna/stockmanager/internal/product/handler"
	"github.com/fekuna/stockmanager/pkg/httpx"
	"github.com/fekuna/stockmanager/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Items    *itemH.ItemHandler
	Products *prodH.ProductHandler
	Health   *health.Server
	Metrics  *metrics.Server
	Gatherer prometheus.Gatherer
	Logger   logger.ZapLogger
}

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()
	d.Items.Register(mux)
	d.Products.Register(mux)
	mux.Handle("GET /healthz", d.Health)
	if d.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	var logging func(http.Handler) http.Handler
	if d.Metrics != nil {
		logging = httpx.WithLogging(d.Logger, d.Metrics.Requests, d.Metrics.Latency)
	} else {
		logging = httpx.WithLogging(d.Logger, nil, nil)
	}
	return httpx.WithRequestID(logging(mux))
}
