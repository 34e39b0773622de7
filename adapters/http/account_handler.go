package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/haiminh/geoatlas/internal/application/usecase/account"
	"github.com/haiminh/geoatlas/pkg/apperror"
	"github.com/haiminh/geoatlas/pkg/auth"
)

type AccountHandler struct {
	signupUseCase       *account.SignupUseCase
	loginUseCase        *account.LoginUseCase
	logoutUseCase       *account.LogoutUseCase
	whoAmIUseCase       *account.WhoAmIUseCase
	requestResetUseCase *account.RequestResetUseCase
	confirmResetUseCase *account.ConfirmResetUseCase
	resetCodec          *auth.ResetCodec
	sessionTTL          time.Duration
}

func NewAccountHandler(
	signupUC *account.SignupUseCase,
	loginUC *account.LoginUseCase,
	logoutUC *account.LogoutUseCase,
	whoAmIUC *account.WhoAmIUseCase,
	requestResetUC *account.RequestResetUseCase,
	confirmResetUC *account.ConfirmResetUseCase,
	resetCodec *auth.ResetCodec,
	sessionTTL time.Duration,
) *AccountHandler {
	return &AccountHandler{
		signupUseCase:       signupUC,
		loginUseCase:        loginUC,
		logoutUseCase:       logoutUC,
		whoAmIUseCase:       whoAmIUC,
		requestResetUseCase: requestResetUC,
		confirmResetUseCase: confirmResetUC,
		resetCodec:          resetCodec,
		sessionTTL:          sessionTTL,
	}
}

func (h *AccountHandler) setSessionCookie(c *gin.Context, token string) {
	secure := NewChannelGate().Secure(c.Request.Context())
	c.SetCookie(SessionCookieName, token, int(h.sessionTTL.Seconds()), "/", "", secure, true)
}

func (h *AccountHandler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles POST /user. On success the session cookie is set and the
// client is redirected to /user, where the fresh identity is visible.
func (h *AccountHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("malformed signup payload", err))
		return
	}

	output, err := h.signupUseCase.Execute(c.Request.Context(), account.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.setSessionCookie(c, output.SessionToken)
	c.Redirect(http.StatusSeeOther, "/user")
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /login.
func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("malformed login payload", err))
		return
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), account.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.setSessionCookie(c, output.SessionToken)
	c.Redirect(http.StatusSeeOther, "/user")
}

// Logout handles GET /logout. Always succeeds, session or not.
func (h *AccountHandler) Logout(c *gin.Context) {
	if err := h.logoutUseCase.Execute(c.Request.Context(), sessionToken(c)); err != nil {
		c.Error(err)
		return
	}

	h.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/")
}

// WhoAmI handles GET /user: the sanitized current user, or 401.
func (h *AccountHandler) WhoAmI(c *gin.Context) {
	u, err := h.whoAmIUseCase.Execute(c.Request.Context(), sessionToken(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToUserDTO(u))
}

type forgotRequest struct {
	Email string `json:"email" binding:"required"`
}

// Forgot handles POST /user/forgot. Known and unknown emails answer with
// the identical body; only store failures ever change the response.
func (h *AccountHandler) Forgot(c *gin.Context) {
	var req forgotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("malformed forgot payload", err))
		return
	}

	if err := h.requestResetUseCase.Execute(c.Request.Context(), req.Email); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type resetRequest struct {
	Reset    string `json:"reset"`
	Email    string `json:"email"`
	Token    string `json:"token"`
	Password string `json:"password" binding:"required"`
}

// Reset handles POST /user/reset. The client may send the serialized
// reset string from the email link, or the email/token pair unpacked.
func (h *AccountHandler) Reset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("malformed reset payload", err))
		return
	}

	email, token := req.Email, req.Token
	if req.Reset != "" {
		var err error
		email, token, err = h.resetCodec.Deserialize(req.Reset)
		if err != nil {
			c.Error(apperror.NewInvalidInput("malformed reset string", err))
			return
		}
	}

	output, err := h.confirmResetUseCase.Execute(c.Request.Context(), account.ConfirmResetInput{
		Email:       email,
		Token:       token,
		NewPassword: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.setSessionCookie(c, output.SessionToken)
	c.Redirect(http.StatusSeeOther, "/user")
}
