// Command connectengined runs the Connection Engine as a standalone daemon:
// it dials the desktop automation host, authenticates the local device, and
// logs every observer notification, the way this codebase's other cmd/
// entrypoints wire a long-lived core up to flags and structured logging.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/tapvolt/connect-engine/internal/config"
	"github.com/tapvolt/connect-engine/internal/engine"
	"github.com/tapvolt/connect-engine/internal/identity"
	"github.com/tapvolt/connect-engine/internal/protocol"
	"github.com/tapvolt/connect-engine/internal/settings"
	"github.com/tapvolt/connect-engine/internal/transport"
	connerrors "github.com/tapvolt/connect-engine/pkg/errors"
	"github.com/tapvolt/connect-engine/pkg/logging"
)

func main() {
	var (
		configPath   = pflag.StringP("config", "c", "", "path to a YAML config file")
		endpoint     = pflag.StringP("endpoint", "e", "", "desktop host address (overrides remembered endpoint)")
		clientName   = pflag.StringP("client-name", "n", "", "logical client name sent on AUTH (overrides config)")
		logLevel     = pflag.String("log-level", "", "log level: trace, debug, info, warn, error (overrides config)")
		logTimeStamp = pflag.String("log-time-format", time.RFC3339, "timestamp format used by the console log writer")
	)
	pflag.Parse()

	logging.DefaultLogger = logging.New(logging.NewConsoleWriterWithOptions(os.Stdout, *logTimeStamp))

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *clientName != "" {
		cfg.ClientName = *clientName
	}
	if level, err := logging.ParseLevel(cfg.LogLevel); err == nil {
		logging.SetGlobalLevel(level)
	}

	if err := os.MkdirAll(cfg.StateDir, 0o700); err != nil {
		logging.Fatal().Err(err).Str("dir", cfg.StateDir).Msg("failed to create state directory")
	}

	store, err := settings.Open(filepath.Join(cfg.StateDir, "settings.yaml"))
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open settings store")
	}

	targetURL := *endpoint
	if targetURL == "" {
		targetURL = store.Get(settings.KeyLastEndpoint)
	}
	if targetURL == "" {
		targetURL = cfg.DefaultURL
	}
	if targetURL == "" {
		logging.Fatal().Msg("no endpoint given; pass --endpoint or configure defaultUrl")
	}

	idProvider := identity.NewFileProvider(filepath.Join(cfg.StateDir, "device-id"))
	adapter := transport.NewWebSocketAdapter()
	eng := engine.New(adapter, idProvider, engine.DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng.SetObservers(engine.Observer{
		OnStateChange: func(state engine.State, attempt int) {
			logging.Info().Str("state", state.String()).Int("attempt", attempt).Msg("connection state changed")
		},
		OnConnected: func() {
			logging.Info().Msg("connected; authenticating")
			// Observer callbacks run while the engine holds its lock, so
			// Authenticate (which takes that lock) must run outside this call.
			go func() {
				if !eng.Authenticate(ctx, cfg.ClientName) {
					logging.Warn().Msg("authenticate call did not send")
				}
			}()
		},
		OnDisconnected: func() {
			logging.Info().Msg("disconnected")
		},
		OnAuthSuccess: func() {
			logging.Info().Msg("authenticated")
			_ = store.Put(settings.KeyLastEndpoint, targetURL)
		},
		OnAuthFailure: func() {
			logging.Error().Msg("authentication rejected by host")
		},
		OnActionResult: func(result protocol.ExecutionResult) {
			logging.Info().Str("id", result.ID).Str("status", string(result.Status)).Msg("action result")
		},
		OnActionTimeout: func(id string) {
			logging.NewLogContext("action_dispatch").
				WithComponent("engine").
				WithMethod("SendAction").
				With("action_id", id).
				Logger().Warn().Msg("action timed out")
		},
		OnError: func(payload protocol.ErrorPayload) {
			logCtx := logging.NewLogContext("inbound_message").
				WithComponent("engine").
				With("code", payload.Code)
			logging.LogErrorWithContext(errors.New(payload.Message), logCtx, "desktop host reported an error")
		},
		OnWarning: func(message string) {
			if message != "" {
				logging.Warn().Msg(message)
			}
		},
		OnHeartbeat: func(timestampMs int64) {
			logging.Trace().Int64("timestamp", timestampMs).Msg("heartbeat")
		},
	})

	eng.Connect(targetURL)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logging.Info().Msg("shutting down")
	eng.Disconnect()

	snapshot := connerrors.GetErrorMetrics().GetMetrics()
	logging.Info().Interface("error_counts", snapshot["error_counts"]).Msg("ambient error metrics at shutdown")
}
