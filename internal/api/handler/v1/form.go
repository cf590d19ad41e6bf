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

type FormService interface {
	ListForms(ctx context.Context) ([]domain.FormSchema, error)
	GetForm(ctx context.Context, ref service.FormRef) (domain.FormSchema, error)
	CreateForm(ctx context.Context, session domain.Session, form domain.FormSchema) (domain.FormSchema, error)
	UpdateForm(ctx context.Context, id uint, name string, fields []domain.Field) (domain.FormSchema, error)
	DeleteForm(ctx context.Context, id uint) error
	Layout(ctx context.Context, ref service.FormRef) (formrender.Layout, error)
}

type FormSubmitter interface {
	SubmitForm(ctx context.Context, session domain.Session, ref service.FormRef, sub formrender.Submission) (domain.Entry, formrender.Confirmation, error)
}

type FormHandler struct {
	svc     FormService
	entries FormSubmitter
}

func NewFormHandler(svc FormService, entries FormSubmitter) *FormHandler {
	return &FormHandler{
		svc:     svc,
		entries: entries,
	}
}

func renderFormNotFound(ctx *gin.Context) {
	response.RenderErr(ctx, response.ErrNotFound("form", "ID", ctx.Param("formID")))
}

// HandleListForms godoc
// @Summary      List form schemas
// @Description  Oldest first.
// @Tags         forms
// @Produce      json
// @Success      200  {array}   domain.FormSchema
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /forms [get]
// @Security     BearerAuth
func (h *FormHandler) HandleListForms(ctx *gin.Context) {
	forms, err := h.svc.ListForms(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListForms -> h.svc.ListForms -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, forms)
}

// HandleGetForm godoc
// @Summary      Get a form schema
// @Tags         forms
// @Produce      json
// @Param        formID  path      string  true  "Form ID or latest"
// @Success      200     {object}  domain.FormSchema
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /forms/{formID} [get]
// @Security     BearerAuth
func (h *FormHandler) HandleGetForm(ctx *gin.Context) {
	ref, ok := formRefParam(ctx)
	if !ok {
		return
	}

	form, err := h.svc.GetForm(ctx.Request.Context(), ref)
	if err != nil {
		if errors.Is(err, service.ErrFormNotFound) {
			renderFormNotFound(ctx)
			return
		}

		err = fmt.Errorf("v1.HandleGetForm -> h.svc.GetForm -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, form)
}

// HandleCreateForm godoc
// @Summary      Create a form schema
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateFormRequest  true  "request body"
// @Success      201      {object}  domain.FormSchema
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /forms [post]
// @Security     BearerAuth
func (h *FormHandler) HandleCreateForm(ctx *gin.Context) {
	session, ok := sessionOf(ctx)
	if !ok {
		return
	}

	var req request.CreateFormRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	req.Sanitize()

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	form, err := h.svc.CreateForm(ctx.Request.Context(), session, req.ToDomain())
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateForm -> h.svc.CreateForm -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, form)
}

// HandleUpdateForm godoc
// @Summary      Replace the name and fields of a form schema
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        formID   path      int                        true  "Form ID"
// @Param        request  body      request.UpdateFormRequest  true  "request body"
// @Success      200      {object}  domain.FormSchema
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /forms/{formID} [put]
// @Security     BearerAuth
func (h *FormHandler) HandleUpdateForm(ctx *gin.Context) {
	id, ok := idParam(ctx, "formID")
	if !ok {
		return
	}

	var req request.UpdateFormRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	req.Sanitize()

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	form, err := h.svc.UpdateForm(ctx.Request.Context(), id, req.Name, req.DomainFields())
	if err != nil {
		if errors.Is(err, service.ErrFormNotFound) {
			renderFormNotFound(ctx)
			return
		}

		err = fmt.Errorf("v1.HandleUpdateForm -> h.svc.UpdateForm -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, form)
}

// HandleDeleteForm godoc
// @Summary      Delete a form schema
// @Description  Entries that referenced the schema keep their data and lose the reference.
// @Tags         forms
// @Produce      json
// @Param        formID  path      int  true  "Form ID"
// @Success      200     {object}  response.MessageResponse
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /forms/{formID} [delete]
// @Security     BearerAuth
func (h *FormHandler) HandleDeleteForm(ctx *gin.Context) {
	id, ok := idParam(ctx, "formID")
	if !ok {
		return
	}

	if err := h.svc.DeleteForm(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrFormNotFound) {
			renderFormNotFound(ctx)
			return
		}

		err = fmt.Errorf("v1.HandleDeleteForm -> h.svc.DeleteForm -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "Form deleted"})
}

// HandleGetLayout godoc
// @Summary      Get the rendered input layout of a form schema
// @Description  With formID latest and no schema stored, only the built-in fields are returned.
// @Tags         forms
// @Produce      json
// @Param        formID  path      string  true  "Form ID or latest"
// @Success      200     {object}  formrender.Layout
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /forms/{formID}/layout [get]
// @Security     BearerAuth
func (h *FormHandler) HandleGetLayout(ctx *gin.Context) {
	ref, ok := formRefParam(ctx)
	if !ok {
		return
	}

	layout, err := h.svc.Layout(ctx.Request.Context(), ref)
	if err != nil {
		if errors.Is(err, service.ErrFormNotFound) {
			renderFormNotFound(ctx)
			return
		}

		err = fmt.Errorf("v1.HandleGetLayout -> h.svc.Layout -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, layout)
}

// HandleSubmitForm godoc
// @Summary      Submit a filled-in form layout as a new entry
// @Description  Values are coerced by input type, the fee is filled in from the festival and blank family rows are dropped.
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        formID   path      string                     true  "Form ID or latest"
// @Param        request  body      request.SubmitFormRequest  true  "request body"
// @Success      201      {object}  response.CreateEntryResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /forms/{formID}/submissions [post]
// @Security     BearerAuth
func (h *FormHandler) HandleSubmitForm(ctx *gin.Context) {
	session, ok := sessionOf(ctx)
	if !ok {
		return
	}

	ref, ok := formRefParam(ctx)
	if !ok {
		return
	}

	var req request.SubmitFormRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	entry, confirmation, err := h.entries.SubmitForm(ctx.Request.Context(), session, ref, req.ToSubmission())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFormNotFound):
			renderFormNotFound(ctx)
		case isInputErr(err):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleSubmitForm -> h.entries.SubmitForm -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, response.CreateEntryResponse{
		Entry:        entry,
		Confirmation: confirmation,
	})
}
