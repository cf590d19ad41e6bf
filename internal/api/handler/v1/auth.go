package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/church-members-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/church-members-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/church-members-api/internal/config"
	"github.com/vietanh2810/church-members-api/internal/domain"
	"github.com/vietanh2810/church-members-api/internal/pkg/jwthelper"
	"github.com/vietanh2810/church-members-api/internal/service"
)

var errAdminSignupDisabled = errors.New("admin accounts cannot be self-registered")

type AuthService interface {
	Signup(ctx context.Context, user domain.User) (domain.User, error)
	Login(ctx context.Context, email, password string, role domain.Role) (domain.User, error)
}

type SessionUserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

type AuthHandler struct {
	conf   *config.APIConfig
	svc    AuthService
	users  SessionUserService
	policy *request.PasswordPolicy
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService, users SessionUserService, policy *request.PasswordPolicy) *AuthHandler {
	return &AuthHandler{
		conf:   conf,
		svc:    svc,
		users:  users,
		policy: policy,
	}
}

// HandleRegister godoc
// @Summary      Register a new account
// @Description  The role defaults to data-entry. Admin self-registration is only allowed when enabled in the configuration.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.RegisterRequest  true  "request body"
// @Success      201      {object}  response.MessageResponse
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /auth/register [post]
func (h *AuthHandler) HandleRegister(ctx *gin.Context) {
	var req request.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(h.policy); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if role == domain.RoleAdmin && !h.conf.AllowAdminSignup {
		response.RenderErr(ctx, response.ErrPermissionDenied(errAdminSignupDisabled))
		return
	}

	_, err = h.svc.Signup(ctx.Request.Context(), domain.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserEmailExists) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrUserEmailExists))
			return
		}

		err = fmt.Errorf("v1.HandleRegister -> h.svc.Signup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.MessageResponse{Message: "User registered successfully"})
}

// HandleLogin godoc
// @Summary      Login
// @Description  An empty role logs in as data-entry.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.LoginRequest  true  "request body"
// @Success      200      {object}  response.LoginResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password, role)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))

			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), user.ID, string(user.Role), h.conf.TokenTTL)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token: token,
		User:  user,
	})
}

// HandleMe godoc
// @Summary      Get the logged-in account
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) HandleMe(ctx *gin.Context) {
	session, ok := sessionOf(ctx)
	if !ok {
		return
	}

	user, err := h.users.GetUser(ctx.Request.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", session.UserID))
			return
		}

		err = fmt.Errorf("v1.HandleMe -> h.users.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}
