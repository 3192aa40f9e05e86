package container

import (
	"context"
	"net/http"

	"github.com/ItaloOlivier/ayonne-sub004/internal/config"
	"github.com/ItaloOlivier/ayonne-sub004/internal/face"
	"github.com/ItaloOlivier/ayonne-sub004/internal/logger"
	"github.com/ItaloOlivier/ayonne-sub004/internal/transport"
	"github.com/ItaloOlivier/ayonne-sub004/internal/upstream"
)

// Container holds all application dependencies.
type Container struct {
	config     *config.Config
	locator    face.Locator
	classifier *upstream.Client
	handler    http.Handler
}

// NewContainer builds the dependency graph: logging, the face locator
// (capability probe runs once here), the classifier client, and the HTTP
// handler.
func NewContainer(cfg *config.Config) *Container {
	logger.Configure(cfg.Logging.Level, cfg.Logging.Format)

	var remote *face.RemoteLocator
	if cfg.FaceAPI.Endpoint != "" {
		remote = face.NewRemoteLocator(cfg.FaceAPI.Endpoint)
	}
	locator := face.Select(context.Background(), remote)

	classifier := upstream.NewClient(cfg.Classifier.Endpoint, cfg.Classifier.Model, cfg.Classifier.APIKey)
	handler := transport.NewHandler(cfg, locator, classifier)

	return &Container{
		config:     cfg,
		locator:    locator,
		classifier: classifier,
		handler:    handler,
	}
}

// Handler returns the HTTP handler.
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration.
func (c *Container) Config() *config.Config {
	return c.config
}
