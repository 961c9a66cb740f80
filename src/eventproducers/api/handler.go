package api

import (
	"fmt"
	"net/http"

	"github.com/gocarina/gocsv"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ctogod/cleanbot/src/eventmodels"
)

type MonitorReader interface {
	Snapshot() []eventmodels.TrackedAsset
	Health() eventmodels.MonitorHealth
}

type assetsQuery struct {
	Format string `schema:"format"`
}

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

func indexHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Bot is running"))
}

func healthHandler(monitor MonitorReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := monitor.Health()
		if err := SetResponse(&health, w); err != nil {
			log.Errorf("healthHandler: failed to set response: %v", err)
		}
	}
}

func assetsHandler(monitor MonitorReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var query assetsQuery
		if err := queryDecoder.Decode(&query, r.URL.Query()); err != nil {
			if respErr := SetErrorResponse("query", http.StatusBadRequest, err, w); respErr != nil {
				log.Errorf("assetsHandler: failed to set error response: %v", respErr)
			}
			return
		}

		assets := monitor.Snapshot()

		switch query.Format {
		case "", "json":
			if err := SetResponse(&assets, w); err != nil {
				log.Errorf("assetsHandler: failed to set response: %v", err)
			}
		case "csv":
			rows := make([]*eventmodels.TrackedAssetCSV, 0, len(assets))
			for i := range assets {
				rows = append(rows, assets[i].ToCSV())
			}

			w.Header().Set("Content-Type", "text/csv")
			if err := gocsv.Marshal(&rows, w); err != nil {
				log.Errorf("assetsHandler: failed to write csv: %v", err)
			}
		default:
			err := fmt.Errorf("unsupported format %q", query.Format)
			if respErr := SetErrorResponse("query", http.StatusBadRequest, err, w); respErr != nil {
				log.Errorf("assetsHandler: failed to set error response: %v", respErr)
			}
		}
	}
}

// SetupHandler registers the liveness, snapshot and metrics routes on router.
func SetupHandler(router *mux.Router, monitor MonitorReader) {
	// handleFunc enriches the handler's HTTP instrumentation with the pattern as the http.route.
	handleFunc := func(pattern string, handler http.Handler) {
		router.Handle(pattern, otelhttp.WithRouteTag(pattern, handler)).Methods(http.MethodGet)
	}

	handleFunc("/", http.HandlerFunc(indexHandler))
	handleFunc("/healthz", healthHandler(monitor))
	handleFunc("/assets", assetsHandler(monitor))
	handleFunc("/metrics", promhttp.Handler())
}
