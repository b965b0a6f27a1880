package note

import (
	"NProject/middleware"
	"NProject/module/note/model"
	"NProject/module/note/service"
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

// Routes mounts the note endpoints; all of them require authentication.
func (h *Handler) Routes(r gin.IRouter, auth gin.HandlerFunc) {
	grp := r.Group("/api/notes", auth)
	grp.POST("", h.Create)
	grp.GET("", h.List)
	grp.GET("/:room", h.GetByRoom)
}

func (h *Handler) Create(c *gin.Context) {
	var in model.CreateNote
	if err := c.ShouldBindJSON(&in); err != nil {
		apiresp.Fail(c, errs.ErrBadPayload.WithDetail(err.Error()))
		return
	}
	identity := middleware.IdentityFrom(c)
	n, err := h.svc.Create(c.Request.Context(), identity.ID, in)
	if err != nil {
		apiresp.Fail(c, err)
		return
	}
	apiresp.Success(c, n)
}

func (h *Handler) List(c *gin.Context) {
	identity := middleware.IdentityFrom(c)
	out, err := h.svc.ListByOwner(c.Request.Context(), identity.ID)
	if err != nil {
		apiresp.Fail(c, err)
		return
	}
	apiresp.Success(c, out)
}

// GetByRoom resolves a note by its room token. The token itself is the
// capability: any authenticated holder may fetch the note it points at.
func (h *Handler) GetByRoom(c *gin.Context) {
	n, err := h.svc.GetByRoom(c.Request.Context(), c.Param("room"))
	if err != nil {
		apiresp.Fail(c, err)
		return
	}
	apiresp.Success(c, n)
}
