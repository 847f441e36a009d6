package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/cors"
	"github.com/tos-network/gvest/cmd/utils"
	"github.com/tos-network/gvest/internal/vestapi"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var serveCommand = &cli.Command{
	Action:    serve,
	Name:      "serve",
	Usage:     "Serve the vesting_* JSON-RPC API over HTTP",
	ArgsUsage: " ",
	Flags:     utils.RPCFlags,
	Description: `
The serve command exposes the ledger over JSON-RPC. Queries are always
available; vesting_sendAction is only accepted with --rpc.allow-actions.`,
}

// newCorsHandler wraps srv with a CORS handler for the allowed origins.
func newCorsHandler(srv http.Handler, allowedOrigins []string) http.Handler {
	// disable CORS support if user has not specified a custom CORS configuration
	if len(allowedOrigins) == 0 {
		return srv
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodPost, http.MethodGet},
		AllowedHeaders: []string{"*"},
		MaxAge:         600,
	})
	return c.Handler(srv)
}

// newRPCServer registers the ledger APIs on a fresh RPC server.
func newRPCServer(b vestapi.Backend, allowActions bool) (*rpc.Server, error) {
	srv := rpc.NewServer()
	for _, api := range vestapi.APIs(b, allowActions) {
		if err := srv.RegisterName(api.Namespace, api.Service); err != nil {
			return nil, err
		}
	}
	return srv, nil
}

func serve(ctx *cli.Context) error {
	b, cfg := openBackend(ctx)
	defer b.Close()
	utils.SetupMetrics(&cfg.Metrics)

	if b.Head() == nil {
		log.Warn("Serving an uninitialized ledger, run init first")
	}
	allowActions := ctx.Bool(utils.RPCAllowActionsFlag.Name)
	srv, err := newRPCServer(b, allowActions)
	if err != nil {
		return err
	}
	endpoint := net.JoinHostPort(ctx.String(utils.HTTPListenAddrFlag.Name), strconv.Itoa(ctx.Int(utils.HTTPPortFlag.Name)))
	origins := utils.SplitAndTrim(ctx.String(utils.HTTPCORSDomainFlag.Name))
	httpSrv := &http.Server{
		Addr:              endpoint,
		Handler:           newCorsHandler(srv, origins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(sigctx)
	g.Go(func() error {
		log.Info("HTTP server started", "endpoint", "http://"+endpoint, "cors", origins, "actions", allowActions)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("HTTP server stopping", "endpoint", "http://"+endpoint)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Stop()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
