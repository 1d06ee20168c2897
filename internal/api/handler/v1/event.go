package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventhub-app/eventhub-api/internal/api/handler/v1/request"
	"github.com/eventhub-app/eventhub-api/internal/api/handler/v1/response"
	"github.com/eventhub-app/eventhub-api/internal/config"
	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/service"
)

// allowedVideoExts is the upload whitelist. Anything else is skipped
// silently; the event is saved without a file.
var allowedVideoExts = map[string]struct{}{
	".mp4":  {},
	".mov":  {},
	".avi":  {},
	".mkv":  {},
	".webm": {},
}

type EventService interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	AttachVideo(ctx context.Context, id uint, filename string) error
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (domain.Event, error)
	ListActive(ctx context.Context, filters domain.EventFilters) ([]domain.Event, error)
	Featured(ctx context.Context) ([]domain.Event, error)
	Categories(ctx context.Context) ([]string, error)
	CalendarEntries(ctx context.Context) ([]domain.CalendarEntry, error)
}

type EventHandler struct {
	conf *config.UploadConfig
	svc  EventService
}

func NewEventHandler(conf *config.UploadConfig, svc EventService) *EventHandler {
	return &EventHandler{
		conf: conf,
		svc:  svc,
	}
}

// HandleListEvents godoc
// @Summary      List active events
// @Tags         events
// @Produce      json
// @Param        search    query     string false "free-text title search"
// @Param        category  query     string false "exact category"
// @Param        date      query     string false "today | this_week | this_month"
// @Success      200      {array}    domain.Event
// @Failure      500      {object}   response.Err
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	filters := domain.EventFilters{
		Search:   ctx.Query("search"),
		Category: ctx.Query("category"),
		Date:     ctx.Query("date"),
	}

	events, err := h.svc.ListActive(ctx.Request.Context(), filters)
	if err != nil {
		err = fmt.Errorf("v1.HandleListEvents -> h.svc.ListActive -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleFeaturedEvents godoc
// @Summary      Upcoming featured events
// @Tags         events
// @Produce      json
// @Success      200      {array}    domain.Event
// @Failure      500      {object}   response.Err
// @Router       /events/featured [get]
func (h *EventHandler) HandleFeaturedEvents(ctx *gin.Context) {
	events, err := h.svc.Featured(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleFeaturedEvents -> h.svc.Featured -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetCategories godoc
// @Summary      Distinct event categories
// @Tags         events
// @Produce      json
// @Success      200      {array}    string
// @Failure      500      {object}   response.Err
// @Router       /events/categories [get]
func (h *EventHandler) HandleGetCategories(ctx *gin.Context) {
	categories, err := h.svc.Categories(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetCategories -> h.svc.Categories -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, categories)
}

// HandleCalendarFeed godoc
// @Summary      Calendar feed of active events
// @Tags         events
// @Produce      json
// @Success      200      {array}    domain.CalendarEntry
// @Failure      500      {object}   response.Err
// @Router       /events/calendar [get]
func (h *EventHandler) HandleCalendarFeed(ctx *gin.Context) {
	entries, err := h.svc.CalendarEntries(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleCalendarFeed -> h.svc.CalendarEntries -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, entries)
}

// HandleGetEvent godoc
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        eventID   path      int true "event ID"
// @Success      200      {object}   domain.Event
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "eventID")
	if !ok {
		return
	}

	event, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrEventNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleGetEvent -> h.svc.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        request   body      request.EventRequest true "request body"
// @Success      201      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events [post]
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	event, ok := bindEventRequest(ctx)
	if !ok {
		return
	}

	created, err := h.svc.Create(ctx.Request.Context(), event)
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.Create -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        eventID   path      int true "event ID"
// @Param        request   body      request.EventRequest true "request body"
// @Success      200      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID} [put]
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "eventID")
	if !ok {
		return
	}

	event, ok := bindEventRequest(ctx)
	if !ok {
		return
	}
	event.ID = id

	updated, err := h.svc.Update(ctx.Request.Context(), event)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrEventNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleUpdateEvent -> h.svc.Update -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteEvent godoc
// @Summary      Delete an event and its registrations
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        eventID   path      int true "event ID"
// @Success      204
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID} [delete]
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "eventID")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrEventNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleDeleteEvent -> h.svc.Delete -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleUploadVideo godoc
// @Summary      Attach a video file to an event
// @Tags         events
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        eventID     path      int  true  "event ID"
// @Param        video_file  formData  file true  "video file (mp4, mov, avi, mkv, webm)"
// @Success      200      {object}   domain.Event
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/video [post]
func (h *EventHandler) HandleUploadVideo(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "eventID")
	if !ok {
		return
	}

	file, err := ctx.FormFile("video_file")
	if err == nil {
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if _, allowed := allowedVideoExts[ext]; allowed {
			filename := uuid.NewString() + ext
			if err = ctx.SaveUploadedFile(file, filepath.Join(h.conf.Dir, filename)); err != nil {
				err = fmt.Errorf("v1.HandleUploadVideo -> ctx.SaveUploadedFile -> %w", err)
				response.RenderErr(ctx, response.ErrInternalServerError(err))

				return
			}

			if err = h.svc.AttachVideo(ctx.Request.Context(), id, filename); err != nil {
				if errors.Is(err, service.ErrEventNotFound) {
					response.RenderErr(ctx, response.ErrNotFound(service.ErrEventNotFound))

					return
				}

				err = fmt.Errorf("v1.HandleUploadVideo -> h.svc.AttachVideo -> %w", err)
				response.RenderErr(ctx, response.ErrInternalServerError(err))

				return
			}
		} else {
			// Disallowed extension: skip the attachment, keep the event.
			zap.L().Warn("skipping video upload with disallowed extension",
				zap.Uint("event_id", id),
				zap.String("filename", file.Filename))
		}
	}

	event, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrEventNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleUploadVideo -> h.svc.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, event)
}

func bindEventRequest(ctx *gin.Context) (domain.Event, bool) {
	req := request.EventRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return domain.Event{}, false
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return domain.Event{}, false
	}

	date, err := req.ParsedDate()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return domain.Event{}, false
	}

	event := domain.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Location:    req.Location,
		Category:    req.Category,
		Capacity:    req.Capacity,
		VideoURL:    req.VideoURL,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}
	if req.IsActive != nil {
		event.IsActive = *req.IsActive
	}

	return event, true
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid %v %q", name, raw)))

		return 0, false
	}

	return uint(id), true
}
