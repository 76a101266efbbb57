package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/actionhub/action-hub/internal/config"
	"github.com/actionhub/action-hub/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Handlers bundles the auth endpoints with their collaborators.
type Handlers struct {
	db       *gorm.DB
	cfg      *config.Config
	issuer   *TokenIssuer
	verifier *GoogleVerifier
	notion   *NotionOAuthClient
}

// NewHandlers wires up the auth endpoint handlers.
func NewHandlers(db *gorm.DB, cfg *config.Config, issuer *TokenIssuer) *Handlers {
	return &Handlers{
		db:       db,
		cfg:      cfg,
		issuer:   issuer,
		verifier: NewGoogleVerifier(),
		notion:   NewNotionOAuthClient(cfg.NotionClientID, cfg.NotionClientSecret, cfg.FrontendURL+"/settings"),
	}
}

type signupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type googleAuthRequest struct {
	Token string `json:"token" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Signup registers a new local-credential user and returns an access token.
func (h *Handlers) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var existing models.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to hash password"})
		return
	}

	user := models.User{
		Email:                   req.Email,
		PasswordHash:            hash,
		Name:                    req.Name,
		IntegrationsConfig:      datatypes.JSON([]byte(`{}`)),
		NotificationPreferences: datatypes.JSON([]byte(models.DefaultNotificationPreferences)),
	}
	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create user"})
		return
	}

	h.respondWithToken(c, user.ID)
}

// Login authenticates a local-credential user and returns an access token.
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var user models.User
	err := h.db.Where("email = ?", req.Email).First(&user).Error
	if err != nil || user.PasswordHash == "" || !VerifyPassword(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect email or password"})
		return
	}

	h.respondWithToken(c, user.ID)
}

// GoogleExchange verifies a Google access token supplied by the frontend,
// upserts the user, and returns the app's own access token.
func (h *Handlers) GoogleExchange(c *gin.Context) {
	var req googleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	info, err := h.verifier.VerifyAccessToken(c.Request.Context(), req.Token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid Google token"})
		return
	}

	user, err := h.upsertGoogleUser(info.Email, info.Sub, info.Name, info.Picture, "", nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to save user"})
		return
	}

	h.respondWithToken(c, user.ID)
}

// BeginGoogleLogin redirects the browser to Google's consent page via Goth.
func (h *Handlers) BeginGoogleLogin(c *gin.Context) {
	// Gothic requires the "provider" query parameter
	q := c.Request.URL.Query()
	q.Add("provider", "google")
	c.Request.URL.RawQuery = q.Encode()

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// GoogleCallback completes the Goth OAuth flow, upserts the user (including
// the offline refresh token if granted), and redirects to the frontend with
// an app access token in the URL fragment.
func (h *Handlers) GoogleCallback(c *gin.Context) {
	q := c.Request.URL.Query()
	q.Add("provider", "google")
	c.Request.URL.RawQuery = q.Encode()

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		log.Printf("Auth error: %v", err)
		c.Redirect(http.StatusFound, h.cfg.FrontendURL+"/login?error=auth_failed")
		return
	}

	var expiry *time.Time
	if !gothUser.ExpiresAt.IsZero() {
		expiry = &gothUser.ExpiresAt
	}

	user, err := h.upsertGoogleUser(gothUser.Email, gothUser.UserID, gothUser.Name, gothUser.AvatarURL, gothUser.RefreshToken, expiry)
	if err != nil {
		log.Printf("User upsert error: %v", err)
		c.Redirect(http.StatusFound, h.cfg.FrontendURL+"/login?error=auth_failed")
		return
	}

	token, err := h.issuer.CreateAccessToken(user.ID)
	if err != nil {
		c.Redirect(http.StatusFound, h.cfg.FrontendURL+"/login?error=auth_failed")
		return
	}

	log.Printf("User authenticated: %s (%s)", user.Name, user.Email)
	c.Redirect(http.StatusFound, h.cfg.FrontendURL+"/login#access_token="+url.QueryEscape(token))
}

func (h *Handlers) upsertGoogleUser(email, sub, name, picture, refreshToken string, expiry *time.Time) (*models.User, error) {
	var user models.User
	err := h.db.Where("email = ?", email).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		user = models.User{
			Email:                   email,
			GoogleSub:               sub,
			Name:                    name,
			Picture:                 picture,
			GoogleRefreshToken:      refreshToken,
			GoogleTokenExpiry:       expiry,
			IntegrationsConfig:      datatypes.JSON([]byte(`{}`)),
			NotificationPreferences: datatypes.JSON([]byte(models.DefaultNotificationPreferences)),
		}
		if err := h.db.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	} else if err != nil {
		return nil, err
	}

	user.GoogleSub = sub
	if name != "" {
		user.Name = name
	}
	if picture != "" {
		user.Picture = picture
	}
	if refreshToken != "" {
		user.GoogleRefreshToken = refreshToken
		user.GoogleTokenExpiry = expiry
	}
	if err := h.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

type settingsUpdateRequest struct {
	Integrations  map[string]interface{} `json:"integrations" binding:"required"`
	Notifications map[string]interface{} `json:"notifications" binding:"required"`
}

// GetSettings returns the user's settings blobs.
func (h *Handlers) GetSettings(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	integrations := map[string]interface{}{}
	notifications := map[string]interface{}{}
	if len(user.IntegrationsConfig) > 0 {
		_ = json.Unmarshal(user.IntegrationsConfig, &integrations)
	}
	if len(user.NotificationPreferences) > 0 {
		_ = json.Unmarshal(user.NotificationPreferences, &notifications)
	}

	c.JSON(http.StatusOK, gin.H{
		"integrations":  integrations,
		"notifications": notifications,
	})
}

// UpdateSettings overwrites the user's settings blobs wholesale.
func (h *Handlers) UpdateSettings(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	var req settingsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	integrations, err := json.Marshal(req.Integrations)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid integrations payload"})
		return
	}
	notifications, err := json.Marshal(req.Notifications)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid notifications payload"})
		return
	}

	if err := h.db.Model(user).Updates(map[string]interface{}{
		"integrations_config":      datatypes.JSON(integrations),
		"notification_preferences": datatypes.JSON(notifications),
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings updated successfully"})
}

// BeginNotionLogin redirects the browser to Notion's consent page.
func (h *Handlers) BeginNotionLogin(c *gin.Context) {
	params := url.Values{}
	params.Set("client_id", h.cfg.NotionClientID)
	params.Set("redirect_uri", h.cfg.FrontendURL+"/settings")
	params.Set("response_type", "code")
	// owner=user scopes the token to the user rather than the workspace
	params.Set("owner", "user")

	c.Redirect(http.StatusFound, "https://api.notion.com/v1/oauth/authorize?"+params.Encode())
}

type notionCallbackRequest struct {
	Code string `json:"code" binding:"required"`
}

// NotionCallback exchanges the authorization code, stores the token on the
// user, and flips the Notion integration flag.
func (h *Handlers) NotionCallback(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	var req notionCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	token, err := h.notion.ExchangeCode(c.Request.Context(), req.Code)
	if err != nil {
		log.Printf("Notion OAuth error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Failed to authenticate with Notion"})
		return
	}

	integrations := map[string]interface{}{}
	if len(user.IntegrationsConfig) > 0 {
		_ = json.Unmarshal(user.IntegrationsConfig, &integrations)
	}
	integrations["Notion / Granola"] = true
	integrationsJSON, _ := json.Marshal(integrations)

	user.NotionAccessToken = token.AccessToken
	user.NotionBotID = token.BotID
	user.IntegrationsConfig = datatypes.JSON(integrationsJSON)

	if err := h.db.Save(user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to save Notion credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notion connected successfully"})
}

func (h *Handlers) respondWithToken(c *gin.Context, userID uint) {
	token, err := h.issuer.CreateAccessToken(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create access token"})
		return
	}
	c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}
