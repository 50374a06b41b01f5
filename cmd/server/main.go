package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/OmarCloud20/bedtime-stories/internal/auth"
	"github.com/OmarCloud20/bedtime-stories/internal/config"
	"github.com/OmarCloud20/bedtime-stories/internal/session/storage/inmem"
	"github.com/OmarCloud20/bedtime-stories/internal/story"
	"github.com/OmarCloud20/bedtime-stories/internal/task"
	"github.com/OmarCloud20/bedtime-stories/internal/web"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Set up zerolog to use pretty printing
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out: os.Stderr,
	})
	log.Info().Msg("starting up...")

	// Load the application configuration
	log.Info().Msg("loading configuration...")
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load the configuration")
	}
	if cfg.IsEnvProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Create the shared AWS service clients.
	// They are constructed once and reused for every request.
	log.Info().Str("region", cfg.CognitoRegion).Msg("initializing AWS service clients...")
	awsConfig, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.CognitoRegion))
	if err != nil {
		log.Fatal().Err(err).Msg("could not load the AWS configuration")
	}
	identity := auth.NewClient(cognitoidentityprovider.NewFromConfig(awsConfig), cfg.CognitoClientID, cfg.CognitoClientSecret)
	stories := story.NewClient(bedrockruntime.NewFromConfig(awsConfig), story.Config{
		ModelID:       cfg.BedrockModelID,
		MaxTokenCount: cfg.BedrockMaxTokens,
		Temperature:   cfg.BedrockTemperature,
		TopP:          cfg.BedrockTopP,
		StopSequences: strings.Split(cfg.BedrockStopSequence, ","),
	})

	// Create the session storage and schedule a task that sweeps expired sessions
	sessions, err := inmem.New()
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize the session storage")
	}
	sweepingTask := task.NewRepeating(func() {
		n, err := sessions.TerminateExpired(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("could not terminate expired sessions")
		} else if n > 0 {
			log.Info().Int("amount", n).Msg("terminated expired sessions")
		}
	}, 15*time.Minute)
	sweepingTask.Start()
	defer sweepingTask.Stop(false)

	// Start up the web frontend
	log.Info().Str("listen_address", cfg.ListenAddress).Msg("starting up the web frontend...")
	frontend := &web.Service{
		Config:   cfg,
		Sessions: sessions,
		Identity: identity,
		Stories:  stories,
	}
	go func() {
		if err := frontend.Startup(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("the web frontend raised an unexpected error")
		}
	}()
	defer func() {
		log.Info().Msg("shutting down the web frontend...")
		frontend.Shutdown()
	}()

	log.Info().Msg("done!")
	defer log.Info().Msg("shutting down...")

	// Wait for the application to be terminated
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt)
	<-shutdown
}
