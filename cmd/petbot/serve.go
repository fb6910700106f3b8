package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"petbot/internal/adapters/imaging/compositor"
	"petbot/internal/adapters/messaging/businessmessages"
	"petbot/internal/domain/chat"
	"petbot/internal/domain/decay"
	"petbot/internal/domain/pets"
	"petbot/internal/platform/otel"
	"petbot/internal/router"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Levanta el webhook, el endpoint de imágenes y el cron de decaimiento",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()
		cfg := a.cfg

		shutdownTracing, err := otel.Setup(ctx, cfg.AppName, cfg.OTelEndpoint)
		if err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := shutdownTracing(sctx); err != nil {
				a.log.Warn("tracing shutdown failed", map[string]any{"err": err})
			}
		}()

		sender, err := businessmessages.New(businessmessages.Options{
			BaseURL:    cfg.BMBaseURL,
			Token:      cfg.BMAccessToken,
			Timeout:    cfg.SendTimeout,
			MaxRetries: cfg.SendMaxRetries,
			Logger:     a.log,
		})
		if err != nil {
			return err
		}
		if cfg.BMAccessToken == "" {
			a.log.Warn("BM_ACCESS_TOKEN is empty; replies will be rejected upstream", nil)
		}

		petsSvc := pets.NewService(a.repo, a.catalog)
		chatSvc := chat.NewService(petsSvc, sender, chat.Options{
			FeedRange: chat.Range{Min: cfg.FeedMin, Max: cfg.FeedMax},
			PlayRange: chat.Range{Min: cfg.PlayMin, Max: cfg.PlayMax},
			Logger:    a.log,
		})

		sched, err := decay.New(a.repo, decay.Options{
			Schedule: cfg.DecaySchedule,
			Step:     cfg.DecayStep,
			Logger:   a.log,
		})
		if err != nil {
			return err
		}

		if cfg.WebhookSecret == "" {
			a.log.Warn("WEBHOOK_SECRET is empty; webhook signatures are not verified", nil)
		}

		srv := &http.Server{
			Addr: cfg.Addr(),
			Handler: router.NewRouter(router.Options{
				Pets:          petsSvc,
				Chat:          chatSvc,
				Renderer:      compositor.New(cfg.AssetsDir),
				WebhookSecret: cfg.WebhookSecret,
				BaseURL:       cfg.PublicBaseURL,
				Logger:        a.log,
			}),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			a.log.Info("starting server", map[string]any{"addr": srv.Addr})
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			sched.Start()
			<-gctx.Done()

			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			a.log.Info("shutting down", nil)
			err := srv.Shutdown(sctx)
			// los turnos en curso terminan antes de cerrar el store
			chatSvc.Wait()
			if serr := sched.Stop(sctx); serr != nil && err == nil {
				err = serr
			}
			return err
		})

		return g.Wait()
	},
}
