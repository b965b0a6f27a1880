package user

import (
	"NProject/middleware"
	"NProject/module/user/service"
	"NProject/tools/apiresp"
	"NProject/tools/errs"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the auth endpoints. Register and login are open; the
// validate endpoint runs behind the auth middleware.
func (h *Handler) Routes(r gin.IRouter, auth gin.HandlerFunc) {
	grp := r.Group("/api/auth")
	grp.POST("/register", h.Register)
	grp.POST("/login", h.Login)
	grp.GET("", auth, h.Validate)
}

func (h *Handler) Register(c *gin.Context) {
	var in service.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		apiresp.Fail(c, errs.ErrBadPayload.WithDetail(err.Error()))
		return
	}
	session, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		apiresp.Fail(c, err)
		return
	}
	apiresp.Success(c, session)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		apiresp.Fail(c, errs.ErrBadPayload.WithDetail(err.Error()))
		return
	}
	session, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		apiresp.Fail(c, err)
		return
	}
	apiresp.Success(c, session)
}

// Validate echoes the identity behind the presented token; clients use it
// to check a stored token before opening the websocket.
func (h *Handler) Validate(c *gin.Context) {
	apiresp.Success(c, middleware.IdentityFrom(c))
}
