package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"tradeflow/internal/auth"
	"tradeflow/internal/journal"
	"tradeflow/internal/models"
	"tradeflow/internal/sizing"
	"tradeflow/internal/store"
)

// sessionCookie carries the signed session token. The token is the only
// thing stored client-side; identity always resolves through the server.
const sessionCookie = "tradeflow_session"

// genericAuthFailure is deliberately the same for unknown emails and wrong
// passwords so a caller cannot probe which accounts exist.
const genericAuthFailure = "incorrect credentials"

// Handler holds dependencies for the API endpoints.
type Handler struct {
	logger    *zap.Logger
	store     store.Store
	sessions  *auth.Manager
	driver    string
	degraded  bool
	startTime time.Time
}

// NewHandler creates a new Handler. degraded marks that the backing store
// was unreachable at startup; the API stays up and read endpoints return
// empty results until the store recovers.
func NewHandler(logger *zap.Logger, st store.Store, sessions *auth.Manager, driver string, degraded bool) *Handler {
	return &Handler{
		logger:    logger,
		store:     st,
		sessions:  sessions,
		driver:    driver,
		degraded:  degraded,
		startTime: time.Now(),
	}
}

// Register wires all routes onto the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/signup", h.SignupHandler)
	mux.HandleFunc("/api/login", h.LoginHandler)
	mux.HandleFunc("/api/logout", h.LogoutHandler)
	mux.HandleFunc("/api/session", h.SessionHandler)
	mux.HandleFunc("/api/settings", h.SettingsHandler)
	mux.HandleFunc("/api/assets", h.AssetsHandler)
	mux.HandleFunc("/api/calculate", h.CalculateHandler)
	mux.HandleFunc("/api/trades", h.TradesHandler)
	mux.HandleFunc("/api/stats", h.StatsHandler)
	mux.HandleFunc("/api/equity", h.EquityHandler)
	mux.HandleFunc("/api/export", h.ExportHandler)
	mux.HandleFunc("/api/status", h.StatusHandler)
	mux.HandleFunc("/health", h.HealthHandler)

	// Static file serving for CSS, JS, etc.
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "web/templates/index.html")
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// sessionToken extracts the token from the cookie or bearer header.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	const prefix = "Bearer "
	if v := r.Header.Get("Authorization"); len(v) > len(prefix) && v[:len(prefix)] == prefix {
		return v[len(prefix):]
	}
	return ""
}

// requireSession resolves and validates the caller's session, answering
// with a 401 itself when there is none.
func (h *Handler) requireSession(w http.ResponseWriter, r *http.Request) (string, *auth.Session, bool) {
	token := sessionToken(r)
	session, ok := h.sessions.Get(token)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "not logged in")
		return "", nil, false
	}
	return token, session, true
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

type signupRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

type sessionResponse struct {
	Email        string        `json:"email"`
	FullName     string        `json:"full_name,omitempty"`
	Settings     auth.Settings `json:"settings"`
	TotalCapital float64       `json:"total_capital"`
	RiskAmount   float64       `json:"risk_amount"`
	ExpiresAt    time.Time     `json:"expires_at"`
}

func newSessionResponse(s *auth.Session) sessionResponse {
	return sessionResponse{
		Email:        s.Email,
		FullName:     s.FullName,
		Settings:     s.Settings,
		TotalCapital: s.Settings.TotalCapital(),
		RiskAmount:   s.Settings.RiskAmount(),
		ExpiresAt:    s.ExpiresAt,
	}
}

// SignupHandler creates a new account and opens a session for it.
func (h *Handler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req signupRequest
	if !h.decode(w, r, &req) {
		return
	}

	switch {
	case req.Email == "":
		h.writeError(w, http.StatusUnprocessableEntity, "email is required")
		return
	case len(req.Password) < auth.MinPasswordLength:
		h.writeError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength))
		return
	case req.Password != req.Confirm:
		h.writeError(w, http.StatusUnprocessableEntity, "password confirmation does not match")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("Failed to hash password", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	user := &models.User{Email: req.Email, PasswordHash: hash, FullName: req.FullName}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			h.writeError(w, http.StatusConflict, "unable to create account with this email")
			return
		}
		h.logger.Error("Failed to create user", zap.Error(err))
		h.writeError(w, http.StatusBadGateway, "failed to create account")
		return
	}

	token, session := h.sessions.Create(user.Email, user.FullName)
	h.setSessionCookie(w, token, session.ExpiresAt)
	h.writeJSON(w, http.StatusCreated, newSessionResponse(session))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler verifies credentials and opens a session. Unknown email and
// wrong password are indistinguishable to the caller.
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.store.UserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.writeError(w, http.StatusUnauthorized, genericAuthFailure)
			return
		}
		h.logger.Error("Failed to look up user", zap.Error(err))
		h.writeError(w, http.StatusBadGateway, "login temporarily unavailable")
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		h.writeError(w, http.StatusUnauthorized, genericAuthFailure)
		return
	}

	token, session := h.sessions.Create(user.Email, user.FullName)
	h.setSessionCookie(w, token, session.ExpiresAt)
	h.writeJSON(w, http.StatusOK, newSessionResponse(session))
}

// LogoutHandler destroys the caller's session.
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.sessions.Destroy(sessionToken(r))
	h.setSessionCookie(w, "", time.Unix(0, 0))
	w.WriteHeader(http.StatusNoContent)
}

// SessionHandler returns the caller's session and settings.
func (h *Handler) SessionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	_, session, ok := h.requireSession(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, newSessionResponse(session))
}

// SettingsHandler updates the ephemeral account settings of the session.
func (h *Handler) SettingsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	token, _, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	var settings auth.Settings
	if !h.decode(w, r, &settings) {
		return
	}
	if settings.RealCapital < 0 || settings.BrokerCredit < 0 || settings.RiskPercent < 0 {
		h.writeError(w, http.StatusUnprocessableEntity, "settings must not be negative")
		return
	}

	// The session can expire between requireSession and the update, so the
	// updated snapshot comes straight from UpdateSettings.
	session, ok := h.sessions.UpdateSettings(token, settings)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	h.writeJSON(w, http.StatusOK, newSessionResponse(session))
}

// AssetsHandler returns the static instrument catalog.
func (h *Handler) AssetsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.writeJSON(w, http.StatusOK, models.Assets())
}

type calculateRequest struct {
	Pair       string  `json:"pair"`
	EntryPrice float64 `json:"entry_price"`
	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`
	PointValue float64 `json:"point_value"`
	RiskAmount float64 `json:"risk_amount"`
}

type calculateResponse struct {
	Result     sizing.Result `json:"result"`
	Flags      sizing.Flags  `json:"flags"`
	RiskAmount float64       `json:"risk_amount"`
}

// CalculateHandler runs the position sizing engine. The risk amount
// defaults to the session's capital-derived budget; the point value
// defaults to the selected asset's contract specification.
func (h *Handler) CalculateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	_, session, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	var req calculateRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.PointValue == 0 {
		if asset, ok := models.AssetBySymbol(req.Pair); ok {
			req.PointValue = asset.PointValue
		}
	}
	if req.EntryPrice <= 0 || req.StopLoss <= 0 || req.TakeProfit <= 0 || req.PointValue <= 0 {
		h.writeError(w, http.StatusUnprocessableEntity,
			"entry price, stop loss, take profit and point value must be positive")
		return
	}

	riskAmount := req.RiskAmount
	if riskAmount <= 0 {
		riskAmount = session.Settings.RiskAmount()
	}

	result := sizing.Compute(sizing.Input{
		EntryPrice: req.EntryPrice,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		PointValue: req.PointValue,
		RiskAmount: riskAmount,
	})
	flags := sizing.ComputeFlags(session.Settings.RiskPercent, session.Settings.RealCapital, result.MaxLoss)

	h.writeJSON(w, http.StatusOK, calculateResponse{
		Result:     result,
		Flags:      flags,
		RiskAmount: riskAmount,
	})
}

type addTradeRequest struct {
	Date       string  `json:"date"`
	Pair       string  `json:"pair"`
	Direction  string  `json:"direction"`
	EntryPrice float64 `json:"entry_price"`
	ExitPrice  float64 `json:"exit_price"`
	Lots       float64 `json:"lots"`
	Result     float64 `json:"result"`
}

// TradesHandler dispatches the journal operations: list (GET), add (POST)
// and clear-all (DELETE).
func (h *Handler) TradesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listTrades(w, r)
	case http.MethodPost:
		h.addTrade(w, r)
	case http.MethodDelete:
		h.deleteTrades(w, r)
	default:
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// listTrades returns the caller's journal, newest first. An unreachable
// store degrades to an empty journal instead of an error page.
func (h *Handler) listTrades(w http.ResponseWriter, r *http.Request) {
	_, session, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	trades, err := h.store.TradesByUser(r.Context(), session.Email, store.Descending)
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			h.logger.Warn("Store unavailable, serving empty journal", zap.Error(err))
			h.writeJSON(w, http.StatusOK, []models.Trade{})
			return
		}
		h.logger.Error("Failed to list trades", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to load trades")
		return
	}
	if trades == nil {
		trades = []models.Trade{}
	}
	h.writeJSON(w, http.StatusOK, trades)
}

// addTrade validates and stores one closed trade. The result field is
// stored exactly as entered, never recomputed from the price fields.
func (h *Handler) addTrade(w http.ResponseWriter, r *http.Request) {
	_, session, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	var req addTradeRequest
	if !h.decode(w, r, &req) {
		return
	}

	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, "date must have the form YYYY-MM-DD")
		return
	}
	if !models.ValidAsset(req.Pair) {
		h.writeError(w, http.StatusUnprocessableEntity, "unknown asset symbol")
		return
	}
	if !models.ValidDirection(req.Direction) {
		h.writeError(w, http.StatusUnprocessableEntity, "direction must be Long or Short")
		return
	}
	if req.Lots <= 0 {
		h.writeError(w, http.StatusUnprocessableEntity, "lots must be positive")
		return
	}

	trade := &models.Trade{
		UserEmail:  session.Email,
		Date:       req.Date,
		Pair:       req.Pair,
		Direction:  req.Direction,
		EntryPrice: req.EntryPrice,
		ExitPrice:  req.ExitPrice,
		Lots:       req.Lots,
		Result:     req.Result,
		Timestamp:  time.Now().UTC(),
	}
	if err := h.store.InsertTrade(r.Context(), trade); err != nil {
		h.logger.Error("Failed to insert trade", zap.Error(err))
		h.writeError(w, http.StatusBadGateway, "failed to save trade")
		return
	}
	h.writeJSON(w, http.StatusCreated, trade)
}

// deleteTrades clears the caller's whole journal with one bulk delete.
func (h *Handler) deleteTrades(w http.ResponseWriter, r *http.Request) {
	_, session, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	deleted, err := h.store.DeleteTradesByUser(r.Context(), session.Email)
	if err != nil {
		h.logger.Error("Failed to delete trades", zap.Error(err))
		h.writeError(w, http.StatusBadGateway, "failed to delete trades")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

// StatsHandler returns the KPI block over the caller's journal.
func (h *Handler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	_, session, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	trades, err := h.store.TradesByUser(r.Context(), session.Email, store.Descending)
	if err != nil {
		if !errors.Is(err, store.ErrUnavailable) {
			h.logger.Error("Failed to load trades for stats", zap.Error(err))
			h.writeError(w, http.StatusInternalServerError, "failed to calculate statistics")
			return
		}
		h.logger.Warn("Store unavailable, serving empty statistics", zap.Error(err))
	}
	h.writeJSON(w, http.StatusOK, journal.ComputeStats(trades))
}

// EquityHandler returns the cumulative balance curve, seeded at the
// session's real capital unless a start override is given.
func (h *Handler) EquityHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	_, session, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	start := session.Settings.RealCapital
	if v := r.URL.Query().Get("start"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "start must be a number")
			return
		}
		start = parsed
	}

	trades, err := h.store.TradesByUser(r.Context(), session.Email, store.Ascending)
	if err != nil {
		if !errors.Is(err, store.ErrUnavailable) {
			h.logger.Error("Failed to load trades for equity curve", zap.Error(err))
			h.writeError(w, http.StatusInternalServerError, "failed to build equity curve")
			return
		}
		h.logger.Warn("Store unavailable, serving empty equity curve", zap.Error(err))
	}
	h.writeJSON(w, http.StatusOK, journal.EquityCurve(trades, start))
}

// ExportHandler streams the caller's journal as a CSV download.
func (h *Handler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	_, session, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	trades, err := h.store.TradesByUser(r.Context(), session.Email, store.Descending)
	if err != nil {
		if !errors.Is(err, store.ErrUnavailable) {
			h.logger.Error("Failed to load trades for export", zap.Error(err))
			h.writeError(w, http.StatusInternalServerError, "failed to export trades")
			return
		}
		h.logger.Warn("Store unavailable, exporting empty journal", zap.Error(err))
	}

	filename := fmt.Sprintf("trades_%s.csv", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	if err := journal.ExportCSV(w, trades); err != nil {
		h.logger.Error("Failed to write csv export", zap.Error(err))
	}
}

// StatusHandler reports process and store health.
func (h *Handler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	status := struct {
		Driver    string `json:"driver"`
		Degraded  bool   `json:"degraded"`
		StartTime string `json:"start_time"`
		Uptime    string `json:"uptime"`
	}{
		Driver:    h.driver,
		Degraded:  h.degraded,
		StartTime: h.startTime.Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).String(),
	}
	h.writeJSON(w, http.StatusOK, status)
}

// HealthHandler is the liveness probe.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}
