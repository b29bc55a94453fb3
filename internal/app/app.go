// Package app wires the relay's components together and drives their
// lifecycle.
package app

import (
	"reflect"

	"commit-relay/internal/common/logging"
	"commit-relay/internal/config"
	"commit-relay/internal/handlers"
	"commit-relay/internal/irc"
	"commit-relay/internal/message"
	"commit-relay/internal/routing"
	"commit-relay/internal/shortener"
	"commit-relay/internal/signature"
)

// App holds all the application dependencies
type App struct {
	Config    *config.Config
	Logger    logging.Logger
	Shortener *shortener.Client
	Session   *irc.Session
	Router    *routing.ChannelRouter
	Handlers  *handlers.Handlers
}

// New creates a new application instance with all dependencies. Components
// receive a nil logger and fall back to the global one.
func New(cfg *config.Config) *App {
	app := &App{
		Config: cfg,
		Logger: logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "app"}),
	}

	app.Shortener = shortener.NewClient(cfg.Shortener.Domain, cfg.Shortener.Timeout, nil)
	app.Session = irc.NewSession(cfg.Chat, nil)
	app.Router = routing.NewChannelRouter(app.Session, cfg.Chat.Channels, cfg.Filters, nil)
	app.Handlers = handlers.New(
		signature.NewVerifier(cfg.Secret, nil),
		message.NewFormatter(app.Shortener, nil),
		app.Router,
		app.Session,
		app.Shortener,
		nil,
	)

	return app
}

// Reload applies a changed configuration file. Only channel membership and
// repository filters take effect at runtime; everything else is left on the
// running values and flagged as needing a restart.
func (app *App) Reload(path string) {
	cfg, err := config.Load(path)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		app.Logger.Error("Config reload failed, keeping running configuration", err)
		return
	}

	if restartRequired(app.Config, cfg) {
		app.Logger.Warn("Reloaded config changes settings that only apply after a restart")
	}

	join, part := app.Router.Update(cfg.Chat.Channels, cfg.Filters)
	for _, channel := range part {
		app.Session.Part(channel)
	}
	for _, channel := range join {
		app.Session.Join(channel)
	}

	app.Config.Chat.Channels = cfg.Chat.Channels
	app.Config.Filters = cfg.Filters

	app.Logger.Info("Configuration reloaded",
		logging.Strings("joined", join),
		logging.Strings("parted", part))
}

// restartRequired reports whether a reloaded configuration changed settings
// that are only read at startup.
func restartRequired(running, loaded *config.Config) bool {
	if running.Secret != loaded.Secret ||
		running.HTTP != loaded.HTTP ||
		running.Shortener != loaded.Shortener {
		return true
	}

	oldChat, newChat := running.Chat, loaded.Chat
	oldChat.Channels, newChat.Channels = nil, nil
	return !reflect.DeepEqual(oldChat, newChat)
}
