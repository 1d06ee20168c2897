package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventhub-app/eventhub-api/internal/api/handler/v1/request"
	"github.com/eventhub-app/eventhub-api/internal/api/handler/v1/response"
	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/service"
)

type RegistrationService interface {
	Register(ctx context.Context, eventID uint, name, email, phone string) (domain.Registration, bool, error)
	Get(ctx context.Context, id uint) (domain.Registration, error)
	ListByEvent(ctx context.Context, eventID uint) ([]domain.Registration, error)
	SetCheckedIn(ctx context.Context, id uint, value bool) (domain.Registration, error)
	SetConfirmed(ctx context.Context, id uint, value bool) (domain.Registration, error)
}

type RegistrationHandler struct {
	svc RegistrationService
}

func NewRegistrationHandler(svc RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{
		svc: svc,
	}
}

// HandleCreateRegistration godoc
// @Summary      Register for an event
// @Tags         registrations
// @Produce      json
// @Param        eventID   path      int true "event ID"
// @Param        request   body      request.CreateRegistrationRequest true "request body"
// @Success      201      {object}   response.RegistrationCreatedResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/registrations [post]
func (h *RegistrationHandler) HandleCreateRegistration(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "eventID")
	if !ok {
		return
	}

	req := request.CreateRegistrationRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	reg, emailSent, err := h.svc.Register(ctx.Request.Context(), eventID, req.Name, req.Email, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrEventNotFound))
		case errors.Is(err, service.ErrEventFull):
			response.RenderErr(ctx, response.ErrConflict(service.ErrEventFull))
		case errors.Is(err, service.ErrDuplicateRegistration):
			response.RenderErr(ctx, response.ErrConflict(service.ErrDuplicateRegistration))
		default:
			err = fmt.Errorf("v1.HandleCreateRegistration -> h.svc.Register -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, response.RegistrationCreatedResponse{
		Registration: reg,
		EmailSent:    emailSent,
	})
}

// HandleGetRegistration godoc
// @Summary      Get a registration
// @Tags         registrations
// @Produce      json
// @Param        registrationID   path      int true "registration ID"
// @Success      200      {object}   domain.Registration
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /registrations/{registrationID} [get]
func (h *RegistrationHandler) HandleGetRegistration(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "registrationID")
	if !ok {
		return
	}

	reg, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRegistrationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrRegistrationNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleGetRegistration -> h.svc.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, reg)
}

// HandleListRegistrations godoc
// @Summary      List registrations of an event
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        eventID   path      int true "event ID"
// @Success      200      {array}    domain.Registration
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/registrations [get]
func (h *RegistrationHandler) HandleListRegistrations(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "eventID")
	if !ok {
		return
	}

	regs, err := h.svc.ListByEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrEventNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleListRegistrations -> h.svc.ListByEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, regs)
}

// HandleCheckIn godoc
// @Summary      Set the check-in flag
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        registrationID   path      int true "registration ID"
// @Param        request   body      request.SetFlagRequest true "request body"
// @Success      200      {object}   domain.Registration
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /registrations/{registrationID}/check-in [patch]
func (h *RegistrationHandler) HandleCheckIn(ctx *gin.Context) {
	h.handleSetFlag(ctx, h.svc.SetCheckedIn)
}

// HandleConfirm godoc
// @Summary      Set the confirmation flag
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        registrationID   path      int true "registration ID"
// @Param        request   body      request.SetFlagRequest true "request body"
// @Success      200      {object}   domain.Registration
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /registrations/{registrationID}/confirm [patch]
func (h *RegistrationHandler) HandleConfirm(ctx *gin.Context) {
	h.handleSetFlag(ctx, h.svc.SetConfirmed)
}

func (h *RegistrationHandler) handleSetFlag(ctx *gin.Context, set func(context.Context, uint, bool) (domain.Registration, error)) {
	id, ok := parseIDParam(ctx, "registrationID")
	if !ok {
		return
	}

	req := request.SetFlagRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	reg, err := set(ctx.Request.Context(), id, *req.Value)
	if err != nil {
		if errors.Is(err, service.ErrRegistrationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrRegistrationNotFound))

			return
		}

		err = fmt.Errorf("v1.handleSetFlag -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, reg)
}
