package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/golang-jwt/jwt"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/upnext-app/go-server/internal/clients"
	"github.com/upnext-app/go-server/internal/common"
	"github.com/upnext-app/go-server/internal/log"
	"github.com/upnext-app/go-server/internal/models/group"
	"github.com/upnext-app/go-server/internal/models/invitation"
	"github.com/upnext-app/go-server/internal/models/media"
	"github.com/upnext-app/go-server/internal/models/queue"
	"github.com/upnext-app/go-server/internal/models/user"
	"github.com/upnext-app/go-server/internal/services"
)

// MediaClients bundles the external API clients the media routes dispatch to.
// A nil client makes its media types unavailable for search and lookup.
type MediaClients struct {
	TMDB    *clients.TMDBClient
	Spotify *clients.SpotifyClient
	IGDB    *clients.IGDBClient
	Books   *clients.GoogleBooksClient
}

type WebServer struct {
	jwtSecret    string
	app          *fiber.App
	userService  *services.UserService
	groupService *services.GroupService
	queueService *services.QueueService
	media        MediaClients
	logger       *log.Logger
}

func NewWebServer(jwtSecret string, users *services.UserService, groups *services.GroupService, queues *services.QueueService, mediaClients MediaClients, logger *log.Logger) *WebServer {
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Authorization, Content-Type",
	}))

	return &WebServer{
		jwtSecret:    jwtSecret,
		app:          app,
		userService:  users,
		groupService: groups,
		queueService: queues,
		media:        mediaClients,
		logger:       logger,
	}
}

func (s *WebServer) Run(ip string, port int) error {
	s.SetupRoutes()
	return s.app.Listen(ip + ":" + strconv.Itoa(port))
}

func (s *WebServer) SetupRoutes() {
	s.app.Post("/login", s.loginUser)
	s.app.Post("/register", s.registerUser)
	s.app.Get("/routes", s.getRoutes)
	s.app.Get("/health", s.healthCheck)

	api := s.app.Group("/api")

	api.Get("/users", s.tokenRequired(s.listUsers))
	api.Get("/users/:userID", s.tokenRequired(s.getUser))
	api.Put("/users/:userID", s.tokenRequired(s.updateUser))
	api.Delete("/users/:userID", s.tokenRequired(s.deleteUser))

	api.Post("/groups", s.tokenRequired(s.createGroup))
	api.Get("/groups", s.tokenRequired(s.listGroups))
	api.Get("/groups/user/:username", s.tokenRequired(s.listGroupsForUser))
	api.Get("/groups/:groupID", s.tokenRequired(s.getGroup))
	api.Put("/groups/:groupID", s.tokenRequired(s.updateGroup))
	api.Delete("/groups/:groupID", s.tokenRequired(s.deleteGroup))
	api.Post("/groups/:groupID/leave", s.tokenRequired(s.leaveGroup))

	api.Post("/invitations", s.tokenRequired(s.sendInvitation))
	api.Get("/invitations/user/:username", s.tokenRequired(s.listInvitationsForUser))
	api.Get("/invitations/group/:groupID", s.tokenRequired(s.listInvitationsForGroup))
	api.Put("/invitations/:invitationID", s.tokenRequired(s.respondToInvitation))
	api.Delete("/invitations/:invitationID", s.tokenRequired(s.deleteInvitation))

	api.Get("/queues/:mediaType/top", s.tokenRequired(s.topOfCurrentQueue))
	api.Get("/queues/:mediaType/history/top", s.tokenRequired(s.topOfHistoryQueue))
	api.Get("/queues/:mediaType", s.tokenRequired(s.getQueue))
	api.Post("/queues/:mediaType", s.tokenRequired(s.createQueue))
	api.Post("/queues/:mediaType/:queueID/media", s.tokenRequired(s.addMediaToQueue))
	api.Put("/queues/:mediaType/:queueID/history", s.tokenRequired(s.moveMediaToHistory))
	api.Delete("/queues/:mediaType/:queueID/current/:mediaID", s.tokenRequired(s.deleteMediaFromCurrent))
	api.Delete("/queues/:mediaType/:queueID/history/:mediaID", s.tokenRequired(s.deleteMediaFromHistory))

	api.Get("/media/:mediaType/search", s.tokenRequired(s.searchMedia))
	api.Get("/media/:mediaType/popular", s.tokenRequired(s.popularMedia))
	api.Get("/media/:mediaType/:mediaID", s.tokenRequired(s.getMediaByID))
}

func (s *WebServer) tokenRequired(handler fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			s.logger.Info("Missing Authorization header")
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Missing Authorization header"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			s.logger.Info("Invalid Authorization header format. Expected: `Bearer <token>`")
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid Authorization header format. Expected: `Bearer <token>`"})
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			return []byte(s.jwtSecret), nil
		})
		if err != nil || !token.Valid {
			s.logger.Info("Invalid token")
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			s.logger.Info("Invalid token claims")
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
		}
		userID, ok := claims["sub"].(string)
		if !ok {
			s.logger.Info("Invalid user ID in token")
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID in token"})
		}
		username, ok := claims["username"].(string)
		if !ok {
			s.logger.Info("Invalid username in token")
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username in token"})
		}

		c.Locals("userID", userID)
		c.Locals("username", username)
		return handler(c)
	}
}

// statusFor maps service and store errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput) || errors.Is(err, media.ErrUnknownMediaType):
		return http.StatusBadRequest
	case errors.Is(err, user.ErrBadCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, queue.ErrQueueNotFound) || errors.Is(err, user.ErrUserNotFound) ||
		errors.Is(err, group.ErrGroupNotFound) || errors.Is(err, invitation.ErrInvitationNotFound) ||
		errors.Is(err, media.ErrRecordNotFound) || errors.Is(err, clients.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrMediaAlreadyInQueue) || errors.Is(err, user.ErrUsernameTaken) ||
		errors.Is(err, invitation.ErrInvitationExists) || errors.Is(err, queue.ErrQueueAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *WebServer) fail(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}

func (s *WebServer) username(c *fiber.Ctx) string {
	username, _ := c.Locals("username").(string)
	return username
}

func (s *WebServer) registerUser(c *fiber.Ctx) error {
	s.logger.Info("Register request received")

	var req common.RegisterRequest
	if err := ValidateRequest(c, &req); err != nil {
		s.logger.Info("Register request validation failed:", err.Error())
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	u, err := s.userService.SignUp(c.Context(), req.Username, req.Password, req.FirstName, req.LastName, req.Email)
	if err != nil {
		s.logger.Info("User registration failed:", err.Error())
		return s.fail(c, err)
	}

	s.logger.Info("User registered successfully")
	return c.Status(http.StatusCreated).JSON(u)
}

func (s *WebServer) loginUser(c *fiber.Ctx) error {
	s.logger.Info("Login request received")

	var req common.LoginRequest
	if err := ValidateRequest(c, &req); err != nil {
		s.logger.Info("Login request validation failed:", err.Error())
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	u, err := s.userService.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		s.logger.Info("User login failed:", err.Error())
		return s.fail(c, err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      u.ID,
		"username": u.Username,
	})
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		s.logger.Info("Failed to generate token")
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}
	s.logger.Infof("JWT token generated, userID %s\n", u.ID)

	return c.Status(http.StatusOK).JSON(fiber.Map{"jwtToken": tokenString, "user": u})
}

func (s *WebServer) listUsers(c *fiber.Ctx) error {
	users, err := s.userService.ListUsers(c.Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(users)
}

func (s *WebServer) getUser(c *fiber.Ctx) error {
	var req common.GetUserRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	u, err := s.userService.GetUser(c.Context(), req.UserID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(u)
}

func (s *WebServer) updateUser(c *fiber.Ctx) error {
	var req common.UpdateUserRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updates := bson.M{}
	if req.FirstName != "" {
		updates["firstName"] = req.FirstName
	}
	if req.LastName != "" {
		updates["lastName"] = req.LastName
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}

	u, err := s.userService.UpdateUser(c.Context(), req.UserID, updates)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(u)
}

func (s *WebServer) deleteUser(c *fiber.Ctx) error {
	var req common.GetUserRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	u, err := s.userService.DeleteUser(c.Context(), req.UserID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(u)
}

func (s *WebServer) createGroup(c *fiber.Ctx) error {
	s.logger.Info("Create group request received")

	var req common.CreateGroupRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	g, err := s.groupService.CreateGroup(c.Context(), req.Name, s.username(c))
	if err != nil {
		s.logger.Info("Group creation failed:", err.Error())
		return s.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(g)
}

func (s *WebServer) listGroups(c *fiber.Ctx) error {
	groups, err := s.groupService.ListGroups(c.Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(groups)
}

func (s *WebServer) listGroupsForUser(c *fiber.Ctx) error {
	var req common.UsernameRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	groups, err := s.groupService.ListGroupsForUser(c.Context(), req.Username)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(groups)
}

func (s *WebServer) getGroup(c *fiber.Ctx) error {
	var req common.GroupIDRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	g, err := s.groupService.GetGroup(c.Context(), req.GroupID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(g)
}

func (s *WebServer) updateGroup(c *fiber.Ctx) error {
	var req common.UpdateGroupRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	g, err := s.groupService.UpdateGroup(c.Context(), req.GroupID, bson.M{"name": req.Name})
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(g)
}

func (s *WebServer) deleteGroup(c *fiber.Ctx) error {
	s.logger.Info("Delete group request received")

	var req common.GroupIDRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	g, err := s.groupService.DeleteGroup(c.Context(), req.GroupID)
	if err != nil {
		s.logger.Info("Group deletion failed:", err.Error())
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(g)
}

func (s *WebServer) leaveGroup(c *fiber.Ctx) error {
	var req common.GroupIDRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	g, err := s.groupService.LeaveGroup(c.Context(), req.GroupID, s.username(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(g)
}

func (s *WebServer) sendInvitation(c *fiber.Ctx) error {
	var req common.SendInvitationRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	inv, err := s.groupService.SendInvitation(c.Context(), req.Group, s.username(c), req.InvitedUser)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(inv)
}

func (s *WebServer) listInvitationsForUser(c *fiber.Ctx) error {
	var req common.UsernameRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	invs, err := s.groupService.PendingInvitationsForUser(c.Context(), req.Username)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(invs)
}

func (s *WebServer) listInvitationsForGroup(c *fiber.Ctx) error {
	var req common.GroupIDRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	invs, err := s.groupService.PendingInvitationsForGroup(c.Context(), req.GroupID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(invs)
}

func (s *WebServer) respondToInvitation(c *fiber.Ctx) error {
	var req common.RespondInvitationRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	inv, err := s.groupService.RespondToInvitation(c.Context(), req.InvitationID, req.Status)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(inv)
}

func (s *WebServer) deleteInvitation(c *fiber.Ctx) error {
	var req common.InvitationIDRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	inv, err := s.groupService.DeleteInvitation(c.Context(), req.InvitationID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(inv)
}

func (s *WebServer) getQueue(c *fiber.Ctx) error {
	var req common.GetQueueRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// Without an explicit username the caller's own queue is returned.
	username := req.Username
	if username == "" {
		username = s.username(c)
	}

	q, err := s.queueService.GetQueue(c.Context(), media.Type(req.MediaType), username, req.Group)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(q)
}

func (s *WebServer) createQueue(c *fiber.Ctx) error {
	var req common.CreateQueueRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	q, err := s.queueService.CreateQueue(c.Context(), media.Type(req.MediaType), req.Users, req.Group)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(q)
}

func (s *WebServer) addMediaToQueue(c *fiber.Ctx) error {
	s.logger.Info("Add media to queue request received")

	t, err := media.ParseType(c.Params("mediaType"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	queueID := c.Params("queueID")

	// The body is the normalized media record itself; its shape depends on the
	// queue's media type.
	payload := t.NewRecord()
	if err := c.BodyParser(payload); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	q, err := s.queueService.AddMediaToQueue(c.Context(), t, queueID, payload)
	if err != nil {
		s.logger.Info("Add media failed:", err.Error())
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(q)
}

func (s *WebServer) moveMediaToHistory(c *fiber.Ctx) error {
	var req common.MoveToHistoryRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	q, err := s.queueService.MoveMediaFromCurrentToHistory(c.Context(), media.Type(req.MediaType), req.QueueID, req.MediaIDs)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(q)
}

func (s *WebServer) deleteMediaFromCurrent(c *fiber.Ctx) error {
	var req common.DeleteMediaRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	q, err := s.queueService.DeleteMediaFromCurrentQueue(c.Context(), media.Type(req.MediaType), req.QueueID, req.MediaID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(q)
}

func (s *WebServer) deleteMediaFromHistory(c *fiber.Ctx) error {
	var req common.DeleteMediaRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	q, err := s.queueService.DeleteMediaFromHistoryQueue(c.Context(), media.Type(req.MediaType), req.QueueID, req.MediaID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(q)
}

func (s *WebServer) topOfCurrentQueue(c *fiber.Ctx) error {
	var req common.GetQueueRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	username := req.Username
	if username == "" {
		username = s.username(c)
	}

	q, err := s.queueService.RetrieveTop3InCurrentQueue(c.Context(), media.Type(req.MediaType), username, req.Group)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(q)
}

func (s *WebServer) topOfHistoryQueue(c *fiber.Ctx) error {
	var req common.GetQueueRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	username := req.Username
	if username == "" {
		username = s.username(c)
	}

	q, err := s.queueService.RetrieveTop3InPersonalHistory(c.Context(), media.Type(req.MediaType), username, req.Group)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(q)
}

func (s *WebServer) popularMedia(c *fiber.Ctx) error {
	var req common.PopularMediaRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	records, err := s.queueService.PopularMedia(c.Context(), media.Type(req.MediaType), req.Limit)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(records)
}

func (s *WebServer) searchMedia(c *fiber.Ctx) error {
	s.logger.Info("Media search request received")

	var req common.SearchMediaRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	results, err := s.search(c.Context(), media.Type(req.MediaType), req.Query)
	if err != nil {
		if errors.Is(err, errClientUnavailable) {
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		s.logger.Info("Media search failed:", err.Error())
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(results)
}

func (s *WebServer) getMediaByID(c *fiber.Ctx) error {
	var req common.MediaByIDRequest
	if err := ValidateRequest(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	record, err := s.lookup(c.Context(), media.Type(req.MediaType), req.MediaID)
	if err != nil {
		if errors.Is(err, errClientUnavailable) {
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		return s.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(record)
}

var errClientUnavailable = errors.New("no client configured for this media type")

// search dispatches a query to the external client responsible for the media type.
func (s *WebServer) search(ctx context.Context, t media.Type, query string) (any, error) {
	switch t {
	case media.TypeMovie:
		if s.media.TMDB == nil {
			return nil, errClientUnavailable
		}
		return s.media.TMDB.SearchMovies(ctx, query)
	case media.TypeTV:
		if s.media.TMDB == nil {
			return nil, errClientUnavailable
		}
		return s.media.TMDB.SearchTV(ctx, query)
	case media.TypeAlbum:
		if s.media.Spotify == nil {
			return nil, errClientUnavailable
		}
		return s.media.Spotify.SearchAlbums(ctx, query)
	case media.TypePodcast:
		if s.media.Spotify == nil {
			return nil, errClientUnavailable
		}
		return s.media.Spotify.SearchPodcasts(ctx, query)
	case media.TypeVideoGame:
		if s.media.IGDB == nil {
			return nil, errClientUnavailable
		}
		return s.media.IGDB.SearchGames(ctx, query)
	case media.TypeBook:
		if s.media.Books == nil {
			return nil, errClientUnavailable
		}
		return s.media.Books.SearchBooks(ctx, query)
	}
	return nil, media.ErrUnknownMediaType
}

// lookup resolves one media id through the external client for the media type.
func (s *WebServer) lookup(ctx context.Context, t media.Type, id string) (media.Record, error) {
	switch t {
	case media.TypeMovie:
		if s.media.TMDB == nil {
			return nil, errClientUnavailable
		}
		return s.media.TMDB.MovieByID(ctx, id)
	case media.TypeTV:
		if s.media.TMDB == nil {
			return nil, errClientUnavailable
		}
		return s.media.TMDB.TVByID(ctx, id)
	case media.TypeAlbum:
		if s.media.Spotify == nil {
			return nil, errClientUnavailable
		}
		return s.media.Spotify.AlbumByID(ctx, id)
	case media.TypePodcast:
		if s.media.Spotify == nil {
			return nil, errClientUnavailable
		}
		return s.media.Spotify.PodcastByID(ctx, id)
	case media.TypeVideoGame:
		if s.media.IGDB == nil {
			return nil, errClientUnavailable
		}
		return s.media.IGDB.GameByID(ctx, id)
	case media.TypeBook:
		if s.media.Books == nil {
			return nil, errClientUnavailable
		}
		return s.media.Books.BookByID(ctx, id)
	}
	return nil, media.ErrUnknownMediaType
}

func (s *WebServer) getRoutes(c *fiber.Ctx) error {
	s.logger.Info("Get routes request received")
	return c.Status(http.StatusOK).JSON(s.app.GetRoutes())
}

func (s *WebServer) healthCheck(c *fiber.Ctx) error {
	return c.SendString("OK")
}
