package app

import "github.com/sirupsen/logrus"

// App is everything a command needs: the resolved config, a logger, and
// the wired services.
type App struct {
	*Wire
	Config Config
	Log    *logrus.Logger
}

// New validates cfg and builds the app.
func New(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, err := NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	return &App{
		Wire:   NewWire(cfg, log),
		Config: cfg,
		Log:    log,
	}, nil
}
