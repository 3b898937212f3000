package commands

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	log "github.com/sirupsen/logrus"

	"peerscope/config"
	"peerscope/dashboard"
	"peerscope/net/geoapi"
	"peerscope/net/peersource"
	"peerscope/net/web"
)

// RunServe runs the dashboard until the context is cancelled: the poll loop,
// the web server and a watcher that re-applies the log level on config edits.
func RunServe(ctx context.Context, cfg *config.Config) {
	source := peersource.New(cfg.Source.URL, time.Duration(cfg.Source.TimeoutSeconds)*time.Second)
	lookup := geoapi.New(cfg.Geo.URL, time.Duration(cfg.Geo.TimeoutSeconds)*time.Second)

	dash := dashboard.New(source, lookup,
		time.Duration(cfg.Poll.IntervalSeconds)*time.Second,
		time.Duration(cfg.Poll.JitterMillis)*time.Millisecond)

	srv := web.New(cfg.Web.ListenAddress, dash.View, cfg.Web.StaticDir)

	log.Infof("Dashboard session %s: polling %s every %ds", dash.View.Session(), cfg.Source.URL, cfg.Poll.IntervalSeconds)

	wg, cctx := errgroup.WithContext(ctx)

	wg.Go(func() error {
		return dash.Run(cctx)
	})

	wg.Go(func() error {
		return srv.Serve(cctx)
	})

	wg.Go(func() error {
		return config.Watch(cctx, cfg.Path(), func() {
			fresh, err := config.NewConfigFromFile(cfg.Path())
			if err != nil {
				log.Warnf("Config reload failed: %v", err)
				return
			}
			applyLogLevel(fresh.Log.Level)
		})
	})

	if err := wg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Dashboard stopped: %v", err)
	}
}

// applyLogLevel only touches the log level; endpoint or interval changes need
// a restart.
func applyLogLevel(level string) {
	l, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("Invalid log level %q: %v", level, err)
		return
	}
	log.SetLevel(l)
	log.Infof("Log level set to %s", l)
}
