package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/oraclelive/billing/pkg/billing"
)

// Server exposes the billing engine over HTTP.
type Server struct {
	service *billing.Service
	logger  *zap.Logger
	cfg     Config
	router  *gin.Engine
}

// New builds a Server with its routes registered.
func New(service *billing.Service, logger *zap.Logger, cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	server := &Server{
		service: service,
		logger:  logger,
		cfg:     cfg,
	}
	server.router = server.setupRouter()
	return server, nil
}

// Router returns the underlying handler, mainly for tests.
func (server *Server) Router() http.Handler {
	return server.router
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (server *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    server.cfg.ListenAddr,
		Handler: server.router,
	}

	errCh := make(chan error, 1)
	go func() {
		server.logger.Info("billing api listening", zap.String("addr", server.cfg.ListenAddr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.cfg.ShutdownTimeout)
		defer cancel()
		if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
			server.logger.Warn("server shutdown error", zap.Error(shutdownErr))
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (server *Server) setupRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metricsMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     server.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Origin", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	api.POST("/funds", server.handleAddFunds)
	api.GET("/accounts/:userID", server.handleGetAccount)
	api.GET("/accounts/:userID/transactions", server.handleListTransactions)

	api.POST("/sessions", server.handleCreateSession)
	api.POST("/sessions/:id/status", server.handleTransitionSession)
	api.GET("/sessions/:id", server.handleGetSession)

	api.POST("/gifts", server.handleSendGift)
	api.GET("/gifts", server.handleListGifts)

	api.POST("/ratings", server.handleRateSession)

	api.POST("/readers", server.handleCreateReaderProfile)
	api.POST("/readers/:id/availability", server.handleSetReaderAvailability)
	api.GET("/readers/online", server.handleListOnlineReaders)
	api.GET("/readers/:id", server.handleGetReaderProfile)

	return router
}

type addFundsRequest struct {
	UserID         string `json:"user_id"`
	Amount         string `json:"amount"`
	PaymentMethod  string `json:"payment_method"`
	IdempotencyKey string `json:"idempotency_key"`
}

func (server *Server) handleAddFunds(ctx *gin.Context) {
	var request addFundsRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	userID, err := billing.NewUserID(request.UserID)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	amount, err := billing.NewMoney(request.Amount)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	key, err := billing.NewIdempotencyKey(request.IdempotencyKey)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	deposit, err := server.service.AddFunds(ctx.Request.Context(), userID, amount, request.PaymentMethod, key)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"transaction": transactionPayloadFrom(deposit)})
}

func (server *Server) handleGetAccount(ctx *gin.Context) {
	userID, err := billing.NewUserID(ctx.Param("userID"))
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	account, err := server.service.GetClientAccount(ctx.Request.Context(), userID)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"account": accountPayloadFrom(account)})
}

func (server *Server) handleListTransactions(ctx *gin.Context) {
	userID, err := billing.NewUserID(ctx.Param("userID"))
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	limit := defaultTransactionPageLimit
	if raw, ok := ctx.GetQuery("limit"); ok {
		parsed, parseErr := parsePageLimit(raw)
		if parseErr != nil {
			ctx.JSON(http.StatusBadRequest, errorResponse("invalid_limit", "limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	transactions, err := server.service.ListTransactions(ctx.Request.Context(), userID, limit)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	payload := make([]transactionPayload, 0, len(transactions))
	for _, transaction := range transactions {
		payload = append(payload, transactionPayloadFrom(transaction))
	}
	ctx.JSON(http.StatusOK, gin.H{"transactions": payload})
}

type createSessionRequest struct {
	ClientID    string `json:"client_id"`
	ReaderID    string `json:"reader_id"`
	SessionType string `json:"session_type"`
}

func (server *Server) handleCreateSession(ctx *gin.Context) {
	var request createSessionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	clientID, err := billing.NewUserID(request.ClientID)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	readerID, err := billing.NewUserID(request.ReaderID)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	sessionType, err := billing.ParseSessionType(request.SessionType)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	session, err := server.service.CreateSession(ctx.Request.Context(), clientID, readerID, sessionType)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"session": sessionPayloadFrom(session)})
}

type transitionSessionRequest struct {
	Status          string  `json:"status"`
	DurationMinutes *string `json:"duration_minutes"`
	TotalCost       *string `json:"total_cost"`
}

func (server *Server) handleTransitionSession(ctx *gin.Context) {
	sessionID, err := billing.NewSessionID(ctx.Param("id"))
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	var request transitionSessionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	target, err := billing.ParseSessionStatus(request.Status)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	var duration *billing.Minutes
	if request.DurationMinutes != nil {
		parsed, parseErr := billing.NewMinutes(*request.DurationMinutes)
		if parseErr != nil {
			server.respondError(ctx, parseErr)
			return
		}
		duration = &parsed
	}
	var totalCost *billing.Money
	if request.TotalCost != nil {
		parsed, parseErr := billing.NewMoney(*request.TotalCost)
		if parseErr != nil {
			server.respondError(ctx, parseErr)
			return
		}
		totalCost = &parsed
	}
	session, err := server.service.TransitionSession(ctx.Request.Context(), sessionID, target, duration, totalCost)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"session": sessionPayloadFrom(session)})
}

func (server *Server) handleGetSession(ctx *gin.Context) {
	sessionID, err := billing.NewSessionID(ctx.Param("id"))
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	session, err := server.service.GetSession(ctx.Request.Context(), sessionID)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"session": sessionPayloadFrom(session)})
}

type sendGiftRequest struct {
	GiftID         string `json:"gift_id"`
	SenderID       string `json:"sender_id"`
	ReceiverID     string `json:"receiver_id"`
	StreamID       string `json:"stream_id"`
	IdempotencyKey string `json:"idempotency_key"`
}

func (server *Server) handleSendGift(ctx *gin.Context) {
	var request sendGiftRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	giftID, err := billing.NewGiftID(request.GiftID)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	senderID, err := billing.NewUserID(request.SenderID)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	receiverID, err := billing.NewUserID(request.ReceiverID)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	key, err := billing.NewIdempotencyKey(request.IdempotencyKey)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	giftTransaction, err := server.service.SendGift(ctx.Request.Context(), giftID, senderID, receiverID, request.StreamID, key)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"gift_transaction": giftTransactionPayloadFrom(giftTransaction)})
}

func (server *Server) handleListGifts(ctx *gin.Context) {
	gifts, err := server.service.ListGifts(ctx.Request.Context())
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	payload := make([]giftPayload, 0, len(gifts))
	for _, gift := range gifts {
		payload = append(payload, giftPayloadFrom(gift))
	}
	ctx.JSON(http.StatusOK, gin.H{"gifts": payload})
}

type rateSessionRequest struct {
	SessionID string `json:"session_id"`
	Rating    int    `json:"rating"`
	Review    string `json:"review"`
}

func (server *Server) handleRateSession(ctx *gin.Context) {
	var request rateSessionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	sessionID, err := billing.NewSessionID(request.SessionID)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	rating, err := billing.NewRating(request.Rating)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	recorded, err := server.service.RateSession(ctx.Request.Context(), sessionID, rating, request.Review)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"rating": ratingPayloadFrom(recorded)})
}

type createReaderProfileRequest struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	ChatRate    string `json:"chat_rate_per_minute"`
	PhoneRate   string `json:"phone_rate_per_minute"`
	VideoRate   string `json:"video_rate_per_minute"`
}

func (server *Server) handleCreateReaderProfile(ctx *gin.Context) {
	var request createReaderProfileRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	chatRate, err := billing.NewMoney(request.ChatRate)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	phoneRate, err := billing.NewMoney(request.PhoneRate)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	videoRate, err := billing.NewMoney(request.VideoRate)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	profile, err := server.service.CreateReaderProfile(ctx.Request.Context(), billing.NewReaderProfile{
		UserID:      request.UserID,
		DisplayName: request.DisplayName,
		ChatRate:    chatRate,
		PhoneRate:   phoneRate,
		VideoRate:   videoRate,
	})
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"profile": profilePayloadFrom(profile)})
}

type setAvailabilityRequest struct {
	IsOnline    bool `json:"is_online"`
	IsAvailable bool `json:"is_available"`
}

func (server *Server) handleSetReaderAvailability(ctx *gin.Context) {
	readerID, err := billing.NewUserID(ctx.Param("id"))
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	var request setAvailabilityRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	profile, err := server.service.SetReaderAvailability(ctx.Request.Context(), readerID, request.IsOnline, request.IsAvailable)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"profile": profilePayloadFrom(profile)})
}

func (server *Server) handleListOnlineReaders(ctx *gin.Context) {
	readers, err := server.service.ListOnlineReaders(ctx.Request.Context())
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	payload := make([]profilePayload, 0, len(readers))
	for _, reader := range readers {
		payload = append(payload, profilePayloadFrom(reader))
	}
	ctx.JSON(http.StatusOK, gin.H{"readers": payload})
}

func (server *Server) handleGetReaderProfile(ctx *gin.Context) {
	readerID, err := billing.NewUserID(ctx.Param("id"))
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	profile, err := server.service.GetReaderProfile(ctx.Request.Context(), readerID)
	if err != nil {
		server.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"profile": profilePayloadFrom(profile)})
}

func (server *Server) respondError(ctx *gin.Context, err error) {
	status, code := classifyError(err)
	if status == http.StatusInternalServerError {
		server.logger.Error("request failed", zap.String("path", ctx.FullPath()), zap.Error(err))
	}
	ctx.JSON(status, errorResponse(code, err.Error()))
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, billing.ErrUserNotFound):
		return http.StatusNotFound, "user_not_found"
	case errors.Is(err, billing.ErrAccountNotFound):
		return http.StatusNotFound, "account_not_found"
	case errors.Is(err, billing.ErrProfileNotFound):
		return http.StatusNotFound, "profile_not_found"
	case errors.Is(err, billing.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, billing.ErrGiftNotFound):
		return http.StatusNotFound, "gift_not_found"
	case errors.Is(err, billing.ErrInsufficientFunds):
		return http.StatusConflict, "insufficient_funds"
	case errors.Is(err, billing.ErrReaderNotAvailable):
		return http.StatusConflict, "reader_not_available"
	case errors.Is(err, billing.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, billing.ErrSessionNotComplete):
		return http.StatusConflict, "session_not_completed"
	case errors.Is(err, billing.ErrAlreadyRated):
		return http.StatusConflict, "already_rated"
	case errors.Is(err, billing.ErrProfileExists):
		return http.StatusConflict, "profile_exists"
	case errors.Is(err, billing.ErrDuplicateSettlement):
		return http.StatusConflict, "duplicate_settlement"
	case errors.Is(err, billing.ErrInvalidRole):
		return http.StatusBadRequest, "invalid_role"
	case errors.Is(err, billing.ErrInvalidArgument),
		errors.Is(err, billing.ErrInvalidUserID),
		errors.Is(err, billing.ErrInvalidSessionID),
		errors.Is(err, billing.ErrInvalidGiftID),
		errors.Is(err, billing.ErrInvalidIdempotencyKey),
		errors.Is(err, billing.ErrInvalidMoney),
		errors.Is(err, billing.ErrInvalidMinutes),
		errors.Is(err, billing.ErrInvalidRating),
		errors.Is(err, billing.ErrInvalidSessionType),
		errors.Is(err, billing.ErrInvalidSessionStatus),
		errors.Is(err, billing.ErrInvalidDisplayName):
		return http.StatusBadRequest, "invalid_argument"
	}
	return http.StatusInternalServerError, "internal_error"
}

func errorResponse(code string, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

func parsePageLimit(raw string) (int, error) {
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if limit <= 0 {
		return 0, errors.New("limit must be positive")
	}
	if limit > maxTransactionPageLimit {
		limit = maxTransactionPageLimit
	}
	return limit, nil
}
