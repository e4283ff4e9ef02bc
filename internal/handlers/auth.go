package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rakibul966222/Rakib-pay/configs"
	"github.com/rakibul966222/Rakib-pay/internal/directory"
	"github.com/rakibul966222/Rakib-pay/internal/httputil"
	"github.com/rakibul966222/Rakib-pay/internal/logger"
	"github.com/rakibul966222/Rakib-pay/internal/middleware"
	"github.com/rakibul966222/Rakib-pay/internal/models"
	"github.com/rakibul966222/Rakib-pay/internal/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

type AuthHandler struct {
	Accounts  *store.Accounts
	Directory *directory.Directory
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	acc := models.Account{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     directory.NormalizeEmail(req.Email),
		Password:  string(hash),
		Balance:   configs.StartingBalance(),
		KYCStatus: "unverified",
		Phone:     req.Phone,
	}
	if err := h.Accounts.Create(r.Context(), &acc); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			httputil.WriteError(w, http.StatusConflict, "email already registered")
			return
		}
		logger.Log.Error("failed to create account", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, acc)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	acc, err := h.Directory.FindByEmail(r.Context(), req.Email)
	if err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.Password), []byte(req.Password)); err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	claims := jwt.MapClaims{
		"sub": acc.ID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(configs.AppConfig.JWT.SECRET))
	if err != nil {
		logger.Log.Error("failed to sign jwt", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, LoginResponse{Token: signed})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	acc, err := h.Accounts.ByID(r.Context(), accountID)
	if err != nil {
		logger.Log.Error("failed to fetch account", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to fetch account")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, acc)
}

type PINRequest struct {
	PIN string `json:"pin"`
}

// SetPIN stores a salted hash of the 4-digit wallet PIN. The raw PIN is
// never persisted.
func (h *AuthHandler) SetPIN(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req PINRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !pinPattern.MatchString(req.PIN) {
		httputil.WriteError(w, http.StatusBadRequest, "PIN must be exactly 4 digits")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash PIN", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to set PIN")
		return
	}

	if err := h.Accounts.SetPINHash(r.Context(), accountID, string(hash)); err != nil {
		logger.Log.Error("failed to store PIN", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to set PIN")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *AuthHandler) VerifyPIN(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req PINRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, err := h.Accounts.ByID(r.Context(), accountID)
	if err != nil {
		logger.Log.Error("failed to fetch account", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to verify PIN")
		return
	}
	if acc.PINHash == "" {
		httputil.WriteError(w, http.StatusConflict, "no PIN set for this account")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PINHash), []byte(req.PIN)); err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "incorrect PIN")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"verified": true})
}
