package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpupo63/photo-portfolio/api"
	"github.com/rpupo63/photo-portfolio/auth"
	"github.com/rpupo63/photo-portfolio/config"
	"github.com/rpupo63/photo-portfolio/database"
	"github.com/rpupo63/photo-portfolio/events"
	"github.com/rpupo63/photo-portfolio/geocode"
	"github.com/rpupo63/photo-portfolio/imagehost"
	"github.com/rpupo63/photo-portfolio/metadata"
	"github.com/rpupo63/photo-portfolio/upload"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	settings, err := loadSettings(ctx)
	if err != nil {
		return err
	}

	db, err := database.Open(settings.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	currentDB := database.New(db)

	host, err := imagehost.New(ctx, settings.ImageHost)
	if err != nil {
		return fmt.Errorf("configure image host: %w", err)
	}

	hub := events.NewHub(settings.Server.AcceptedOrigins)
	geocoder := geocode.NewClient(settings.Geocoder)
	authService := auth.NewService(settings.Auth, currentDB.UserRepo(), hub)
	pipeline := upload.NewPipeline(
		currentDB.PhotoRepo(),
		currentDB.TagRepo(),
		currentDB.PhotoTagRepo(),
		host,
		metadata.NewExtractor(),
		geocoder,
		hub,
	)

	server, err := api.NewServer(settings, api.Services{
		Photos:   currentDB.PhotoRepo(),
		Uploader: pipeline,
		Auth:     authService,
		Host:     host,
		Geocoder: geocoder,
		Hub:      hub,
	})
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	log.Info().Str("imageHost", host.Name()).Msg("services initialized")

	errChannel := make(chan error, 2)
	go server.Start(errChannel)
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(shutdownTimeout)
	return nil
}

// loadSettings reads the environment, overlays SSM parameters and validates the result.
func loadSettings(ctx context.Context) (config.Settings, error) {
	env := config.New()
	if err := config.OverlaySSM(ctx, env); err != nil {
		return config.Settings{}, err
	}
	return config.Load(env)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
