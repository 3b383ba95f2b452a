package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/bwise1/incident_reports/config"
	"github.com/bwise1/incident_reports/util/values"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

const (
	defaultIdleTimeout     = time.Minute
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultMaxUploadMemory = 32 << 20
)

type Handler func(w http.ResponseWriter, r *http.Request) *ServerResponse

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h(w, r)
	respByte, err := json.Marshal(resp.body())
	if err != nil {
		writeErrorResponse(w, err, values.Error)
		return
	}
	writeJSONResponse(w, respByte, resp.StatusCode)
}

// Broadcaster publishes events to live-feed subscribers.
type Broadcaster interface {
	Broadcast(msgType string, v interface{}) error
	HandleConnections(w http.ResponseWriter, r *http.Request)
}

// ImageMirror copies a stored image to a remote location and returns its URL.
type ImageMirror interface {
	UploadImage(ctx context.Context, filePath string) (string, error)
}

type API struct {
	Server  *http.Server
	Config  *config.Config
	Reports ReportStore
	Hub     Broadcaster
	Mirror  ImageMirror
	Logger  log.Interface
}

func (api *API) Serve() error {
	api.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", api.Config.Port),
		IdleTimeout:  defaultIdleTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		Handler:      api.setUpServerHandler(),
	}
	return api.Server.ListenAndServe()
}

func (api *API) setUpServerHandler() http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	mux.Use(cors.AllowAll().Handler)
	mux.Use(RequestTracing)

	mux.Get("/",
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("Reports service is up"))
		},
	)

	mux.Method(http.MethodPost, "/upload", Handler(api.UploadReport))
	mux.Mount("/reports", api.ReportRoutes())
	mux.Handle("/uploads/*", api.uploadsHandler())

	return mux
}

// uploadsHandler serves stored images by name. Directory listings are not served.
func (api *API) uploadsHandler() http.Handler {
	files := http.StripPrefix("/uploads/", http.FileServer(http.Dir(api.Config.UploadDir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

func (api *API) logger() log.Interface {
	if api.Logger == nil {
		return log.Log
	}
	return api.Logger
}

func (api *API) maxUploadMemory() int64 {
	if api.Config == nil || api.Config.MaxUploadMemory <= 0 {
		return defaultMaxUploadMemory
	}
	return api.Config.MaxUploadMemory
}

func (api *API) Shutdown(ctx context.Context) error {
	if api.Server == nil {
		return nil
	}
	return api.Server.Shutdown(ctx)
}
