package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/church-members-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/church-members-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/church-members-api/internal/domain"
	"github.com/vietanh2810/church-members-api/internal/formrender"
	"github.com/vietanh2810/church-members-api/internal/service"
)

type EntryService interface {
	CreateEntry(ctx context.Context, session domain.Session, input domain.NewEntry) (domain.Entry, formrender.Confirmation, error)
	ListEntries(ctx context.Context) ([]domain.Entry, error)
	GetEntry(ctx context.Context, id uint) (domain.Entry, error)
	UpdateEntryData(ctx context.Context, id uint, bag domain.DataBag) (domain.Entry, error)
	DeleteEntry(ctx context.Context, id uint) error
}

type EntryHandler struct {
	svc EntryService
}

func NewEntryHandler(svc EntryService) *EntryHandler {
	return &EntryHandler{
		svc: svc,
	}
}

// HandleCreateEntry godoc
// @Summary      Record a member entry
// @Description  The entry ID is assigned by the server. When form is set, data is checked against that schema's fields.
// @Tags         entries
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateEntryRequest  true  "request body"
// @Success      201      {object}  response.CreateEntryResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /entries [post]
// @Security     BearerAuth
func (h *EntryHandler) HandleCreateEntry(ctx *gin.Context) {
	session, ok := sessionOf(ctx)
	if !ok {
		return
	}

	var req request.CreateEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	entry, confirmation, err := h.svc.CreateEntry(ctx.Request.Context(), session, req.ToDomain())
	if err != nil {
		if isInputErr(err) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateEntry -> h.svc.CreateEntry -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.CreateEntryResponse{
		Entry:        entry,
		Confirmation: confirmation,
	})
}

// HandleListEntries godoc
// @Summary      List all entries
// @Description  Oldest first, with form and recording user resolved.
// @Tags         entries
// @Produce      json
// @Success      200  {array}   domain.Entry
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /entries [get]
// @Security     BearerAuth
func (h *EntryHandler) HandleListEntries(ctx *gin.Context) {
	entries, err := h.svc.ListEntries(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListEntries -> h.svc.ListEntries -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, entries)
}

// HandleGetEntry godoc
// @Summary      Get an entry
// @Tags         entries
// @Produce      json
// @Param        entryID  path      int  true  "Entry ID"
// @Success      200      {object}  domain.Entry
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /entries/{entryID} [get]
// @Security     BearerAuth
func (h *EntryHandler) HandleGetEntry(ctx *gin.Context) {
	id, ok := idParam(ctx, "entryID")
	if !ok {
		return
	}

	entry, err := h.svc.GetEntry(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEntryNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("entry", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleGetEntry -> h.svc.GetEntry -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, entry)
}

// HandleUpdateEntry godoc
// @Summary      Replace the data of an entry
// @Tags         entries
// @Accept       json
// @Produce      json
// @Param        entryID  path      int                         true  "Entry ID"
// @Param        request  body      request.UpdateEntryRequest  true  "request body"
// @Success      200      {object}  domain.Entry
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /entries/{entryID} [put]
// @Security     BearerAuth
func (h *EntryHandler) HandleUpdateEntry(ctx *gin.Context) {
	id, ok := idParam(ctx, "entryID")
	if !ok {
		return
	}

	var req request.UpdateEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	entry, err := h.svc.UpdateEntryData(ctx.Request.Context(), id, *req.Data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEntryNotFound):
			response.RenderErr(ctx, response.ErrNotFound("entry", "ID", id))
		case isInputErr(err):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleUpdateEntry -> h.svc.UpdateEntryData -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, entry)
}

// HandleDeleteEntry godoc
// @Summary      Delete an entry
// @Tags         entries
// @Produce      json
// @Param        entryID  path      int  true  "Entry ID"
// @Success      200      {object}  response.MessageResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /entries/{entryID} [delete]
// @Security     BearerAuth
func (h *EntryHandler) HandleDeleteEntry(ctx *gin.Context) {
	id, ok := idParam(ctx, "entryID")
	if !ok {
		return
	}

	if err := h.svc.DeleteEntry(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrEntryNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("entry", "ID", id))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteEntry -> h.svc.DeleteEntry -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "Entry deleted"})
}
