package main

import (
	"context"
	"time"

	"github.com/niksmo/proexplore/config"
	"github.com/niksmo/proexplore/internal/app"
	"github.com/niksmo/proexplore/pkg/sigctx"
)

const closeTimeout = 10 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext(context.Background())
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	explorer := app.New(sigCtx, cfg)

	explorer.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	explorer.Close(ctx)
}
