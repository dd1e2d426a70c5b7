package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rajnandniparmar/Event-Finder/internal/apperrors"
	"github.com/rajnandniparmar/Event-Finder/internal/logging"
	"github.com/rajnandniparmar/Event-Finder/internal/metrics"
	"github.com/rajnandniparmar/Event-Finder/internal/models"
	"github.com/rajnandniparmar/Event-Finder/internal/search"
	"github.com/rajnandniparmar/Event-Finder/internal/store"
)

const (
	msgMissingEventFields = "Please provide all required event details."
	msgEventAdded         = "Event added successfully"
	msgInternal           = "Internal server error."
)

// RegisterEventRoutes registers the event endpoints.
//
// GET  /events       - every stored event, unfiltered
// GET  /events/find  - date/location search, one enriched page
// POST /events/add   - append an event (JSON or form body)
func RegisterEventRoutes(r gin.IRoutes, st store.EventStore, svc *search.Service, m *metrics.Metrics) {
	r.GET("/events", func(c *gin.Context) {
		events, err := st.List(c.Request.Context())
		if err != nil {
			writeError(c, apperrors.NewInternalError("list events", err))
			return
		}
		if events == nil {
			events = []models.Event{}
		}
		c.JSON(http.StatusOK, models.EventsResponse{Events: events})
	})

	r.GET("/events/find", func(c *gin.Context) {
		res, err := svc.Search(c.Request.Context(), search.Params{
			Date:      c.Query("date"),
			Latitude:  c.Query("latitude"),
			Longitude: c.Query("longitude"),
			Page:      c.Query("page"),
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	})

	r.POST("/events/add", func(c *gin.Context) {
		req, ok := bindAddEvent(c)
		if !ok {
			return
		}

		// Required fields per contract; nothing is stored on rejection.
		if !req.Complete() {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingEventFields})
			return
		}

		if err := st.Append(c.Request.Context(), req.Event()); err != nil {
			if m != nil && apperrors.IsType(err, apperrors.TypePersistence) {
				m.PersistFailures.Inc()
			}
			writeError(c, err)
			return
		}
		if m != nil {
			m.EventsAppended.Inc()
		}

		c.JSON(http.StatusCreated, gin.H{"message": msgEventAdded})
	})
}

// bindAddEvent decodes the add-event body. On failure it has already
// written a 400 response.
func bindAddEvent(c *gin.Context) (models.AddEventRequest, bool) {
	var req models.AddEventRequest

	if c.ContentType() == gin.MIMEPOSTForm {
		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form payload"})
			return req, false
		}
		req.EventName = c.PostForm("event_name")
		req.CityName = c.PostForm("city_name")
		req.Date = c.PostForm("date")
		req.Time = c.PostForm("time")

		var err error
		if req.Latitude, err = formCoordinate(c, "latitude"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "latitude must be a number"})
			return req, false
		}
		if req.Longitude, err = formCoordinate(c, "longitude"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "longitude must be a number"})
			return req, false
		}
		return req, true
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return req, false
	}
	return req, true
}

// formCoordinate returns nil for an absent or blank field.
func formCoordinate(c *gin.Context, key string) (*models.Coordinate, error) {
	raw, ok := c.GetPostForm(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := models.ParseCoordinate(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// writeError maps err onto a response. Only validation messages reach the
// client; everything else becomes a generic 500 and is logged.
func writeError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Type == apperrors.TypeValidation {
		c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
		return
	}

	logging.FromContext(c.Request.Context()).Error().Err(err).
		Str("path", c.Request.URL.Path).
		Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
}
