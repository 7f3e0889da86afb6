// Command lightclientd runs the filtered light-client storage engine and
// its HTTP gateway as a single process, wired together by an explicit
// *App context rather than package-level globals (spec.md §9's design
// note on avoiding static global state).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/RaheemJnr/Light-Client-Gateway/config"
	"github.com/RaheemJnr/Light-Client-Gateway/gateway"
	"github.com/RaheemJnr/Light-Client-Gateway/logger"
	"github.com/RaheemJnr/Light-Client-Gateway/store"
	"github.com/RaheemJnr/Light-Client-Gateway/store/db"
	"github.com/RaheemJnr/Light-Client-Gateway/txpool"
)

// App is the start-up-constructed context threaded explicitly through
// the run path, replacing the static globals a straight port would reach
// for (a handle to storage, the gateway server, a lifecycle flag).
type App struct {
	Env     *config.RunEnv
	Storage *store.Storage
	Pool    *txpool.Pool
	Gateway *gateway.Server
}

func main() {
	app := &cli.App{
		Name:  "lightclientd",
		Usage: "filtered CKB light-client storage engine and gateway",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to a config file"},
			&cli.IntFlag{Name: "verbosity", Aliases: []string{"v"}, Value: int(logger.Info), Usage: "log verbosity (0=error .. 3=debug)"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		logger.Fatalf("lightclientd: %v", err)
	}
}

func run(c *cli.Context) error {
	logger.SetVerbosity(logger.Level(c.Int("verbosity")))

	env, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	backend, err := db.OpenLevelDB(env.Store.Path, 128, 256)
	if err != nil {
		return err
	}

	app := &App{
		Env:     env,
		Storage: store.New(backend),
		Pool:    txpool.New(txpool.DefaultCapacity),
	}
	app.Gateway = gateway.New(app.Storage, app.Pool, env.Mainnet)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Infof("lightclientd: listening on %s (chain=%s mainnet=%v)", env.RPC.ListenAddress, env.Chain, env.Mainnet)
	if err := app.Gateway.ListenAndServe(ctx, env.RPC.ListenAddress); err != nil {
		return err
	}
	return app.Storage.Close()
}
