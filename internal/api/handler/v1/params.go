package v1

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/vietanh2810/church-members-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/church-members-api/internal/api/middleware"
	"github.com/vietanh2810/church-members-api/internal/domain"
	"github.com/vietanh2810/church-members-api/internal/service"
)

const latestForm = "latest"

var errMissingSession = errors.New("missing session")

// idParam renders a 400 and returns false when the path parameter is not a
// positive integer.
func idParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid %s %q", name, ctx.Param(name))))
		return 0, false
	}
	return uint(id), true
}

func formRefParam(ctx *gin.Context) (service.FormRef, bool) {
	if ctx.Param("formID") == latestForm {
		return service.FormRef{Latest: true}, true
	}

	id, ok := idParam(ctx, "formID")
	if !ok {
		return service.FormRef{}, false
	}
	return service.FormRef{ID: id}, true
}

func sessionOf(ctx *gin.Context) (domain.Session, bool) {
	session, ok := middleware.SessionFrom(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized(errMissingSession))
		return domain.Session{}, false
	}
	return session, true
}

// isInputErr reports whether err describes bad input rather than a failure.
func isInputErr(err error) bool {
	var verrs validation.Errors
	return errors.As(err, &verrs) ||
		errors.Is(err, service.ErrUnknownForm) ||
		errors.Is(err, service.ErrUnknownUser)
}
