package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/streakly/internal/display"
	"github.com/julianstephens/streakly/internal/keyring"
	"github.com/julianstephens/streakly/internal/logger"
)

type DisplayCmd struct {
	Secret DisplaySecretCmd `cmd:"" help:"Print the secret the display uses for start/stop intents."`
	Serve  DisplayServeCmd  `cmd:"" help:"Serve start/stop intents from the display."`
}

type DisplaySecretCmd struct {
	Rotate bool `help:"Replace the stored secret with a new one."`
}

func (c *DisplaySecretCmd) Run(ctx *Context) error {
	if c.Rotate {
		secret, err := keyring.RotateIntentSecret()
		if err != nil {
			return err
		}
		ctx.Println("✓ Intent secret rotated")
		ctx.Println(secret)
		return nil
	}

	secret, persistent := keyring.EnsureIntentSecret()
	ctx.Println(secret)
	if !persistent {
		ctx.Println("⚠️  OS keyring unavailable; this secret only lasts for this process.")
	}
	return nil
}

type DisplayServeCmd struct{}

func (c *DisplayServeCmd) Run(ctx *Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serveIntents(sigCtx, ctx)
}

// serveIntents runs the intent server until runCtx ends, then folds and
// stops every timer the display started.
func serveIntents(runCtx context.Context, ctx *Context) error {
	stopBroadcast := ctx.StartBroadcast()
	defer stopBroadcast()
	defer ctx.StopAll()

	ctx.Printf("Listening for display intents on %s\n", ctx.IntentAddr)
	return newIntentServer(ctx).ListenAndServe(runCtx, ctx.IntentAddr)
}

func newIntentServer(ctx *Context) *display.IntentServer {
	secret, persistent := keyring.EnsureIntentSecret()
	if !persistent {
		logger.Warn("Intent secret is ephemeral; run 'streakly display secret' once the keyring is available")
	}
	return &display.IntentServer{
		Timers:   ctx.Timers,
		Statuses: ctx.Status,
		Secret:   secret,
	}
}
