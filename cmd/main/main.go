package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/upnext-app/go-server/internal/clients"
	"github.com/upnext-app/go-server/internal/log"
	"github.com/upnext-app/go-server/internal/models/group"
	"github.com/upnext-app/go-server/internal/models/invitation"
	"github.com/upnext-app/go-server/internal/models/media"
	"github.com/upnext-app/go-server/internal/models/queue"
	"github.com/upnext-app/go-server/internal/models/user"
	"github.com/upnext-app/go-server/internal/services"
	"github.com/upnext-app/go-server/internal/web"
)

// loggerSettings derives the logger mode from the environment. Anything but
// APP_ENV=production gets the human-readable development logger.
func loggerSettings() (development, debug bool) {
	development = os.Getenv("APP_ENV") != "production"
	debug, _ = strconv.ParseBool(os.Getenv("LOG_DEBUG"))
	return development, debug
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load("secrets/.env"); err != nil {
		panic(fmt.Sprintf("Error loading .env file: %s", err))
	}

	logger, err := log.NewLogger(loggerSettings())
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Create a MongoDB client
	mongoURI := fmt.Sprintf("mongodb://%s:%s@%s:27017",
		os.Getenv("MONGO_INITDB_ROOT_USERNAME"),
		os.Getenv("MONGO_INITDB_ROOT_PASSWORD"),
		os.Getenv("MONGO_IP"))
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatal("Error creating MongoDB client:", err)
	}

	// Redis backs the external clients' response caching and token sharing.
	// The server runs without it, just with colder caches.
	var rdb *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Errorf("Redis unreachable, continuing without response caching: %v", err)
			rdb = nil
		}
	}

	// Create separate managers with the MongoDB client
	mediaManager := media.NewMediaManager(client, logger)
	queueManager := queue.NewQueueManager(client, logger)
	userManager := user.NewUserManager(client, logger)
	groupManager := group.NewGroupManager(client, logger)
	invitationManager := invitation.NewInvitationManager(client, logger)

	// The event stream is optional as well: without a broker the queue engine
	// simply skips publishing.
	var events services.EventPublisher
	if rabbitMQIP := os.Getenv("RABBITMQ_IP"); rabbitMQIP != "" {
		eventService, err := services.NewEventService(rabbitMQIP, logger)
		if err != nil {
			logger.Errorf("Error initializing event service, continuing without events: %v", err)
		} else {
			defer eventService.Close()
			events = eventService
		}
	}

	// Initialize services
	queueService := services.NewQueueService(queueManager, mediaManager, events, logger)
	userService := services.NewUserService(userManager, queueService, logger)
	groupService := services.NewGroupService(groupManager, userManager, invitationManager, queueService, logger)

	mediaClients := web.MediaClients{}
	if key := os.Getenv("TMDB_API_KEY"); key != "" {
		mediaClients.TMDB = clients.NewTMDBClient(clients.TMDBConfig{APIKey: key, Redis: rdb, Logger: logger})
	}
	if id := os.Getenv("SPOTIFY_CLIENT_ID"); id != "" {
		mediaClients.Spotify = clients.NewSpotifyClient(clients.SpotifyConfig{
			ClientID:     id,
			ClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
			Redis:        rdb,
			Logger:       logger,
		})
	}
	if id := os.Getenv("TWITCH_CLIENT_ID"); id != "" {
		mediaClients.IGDB = clients.NewIGDBClient(clients.IGDBConfig{
			ClientID:     id,
			ClientSecret: os.Getenv("TWITCH_CLIENT_SECRET"),
			Redis:        rdb,
			Logger:       logger,
		})
	}
	mediaClients.Books = clients.NewGoogleBooksClient(clients.GoogleBooksConfig{Redis: rdb, Logger: logger})

	// Initialize web server
	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	server := web.NewWebServer(jwtSecret, userService, groupService, queueService, mediaClients, logger)

	port := 5000
	if p := os.Getenv("WEBSERVER_PORT"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil {
			port = parsed
		}
	}

	fmt.Println("Starting server...")

	if err := server.Run(os.Getenv("WEBSERVER_IP"), port); err != nil {
		logger.Fatal("Error starting web server:", err)
	}
}
