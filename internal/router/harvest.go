// Package router binds the read and trigger endpoints of the harvester
// API.
package router

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tenderhound/tenderhound/internal/apperr"
	"github.com/tenderhound/tenderhound/internal/cursor"
	"github.com/tenderhound/tenderhound/internal/domain"
	"github.com/tenderhound/tenderhound/internal/pipeline"
	"github.com/tenderhound/tenderhound/internal/storage"
)

type HarvestRouter struct {
	e       *echo.Echo
	storage storage.Reader
	runner  *pipeline.Runner

	passkey string
	minYear int
}

func NewHarvestRouter(e *echo.Echo, reader storage.Reader, runner *pipeline.Runner, passkey string, minYear int) *HarvestRouter {
	return &HarvestRouter{
		e:       e,
		storage: reader,
		runner:  runner,
		passkey: passkey,
		minYear: minYear,
	}
}

func (r *HarvestRouter) Bind() {
	r.e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, "Hello, hello!")
	})
	r.e.GET("/data", r.dataHandler)
	r.e.GET("/fetch", r.fetchHandler)
}

func (r *HarvestRouter) dataHandler(c echo.Context) error {
	var limit int64
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			return apperr.NewValidation("limit must be a non-negative integer")
		}
		limit = parsed
	}

	notices, err := r.storage.List(c.Request().Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list notices: %w", err)
	}
	if notices == nil {
		notices = []domain.ProcurementNotice{}
	}
	return c.JSON(http.StatusOK, notices)
}

// fetchHandler validates the trigger parameters, checks the passkey and
// starts a harvest in the background. The response never carries pipeline
// errors; those are only visible in the process logs.
func (r *HarvestRouter) fetchHandler(c echo.Context) error {
	year := c.QueryParam("year")
	month := c.QueryParam("month")
	day := c.QueryParam("day")

	if !domain.ValidYear(year) {
		return apperr.NewValidation("year must be a 4-digit year string")
	}
	y, _ := strconv.Atoi(year)
	currentYear := time.Now().Year()
	if y < r.minYear || y > currentYear {
		return apperr.NewValidation(
			fmt.Sprintf("year must be between %d and %d", r.minYear, currentYear))
	}
	if !domain.ValidMonth(month) {
		return apperr.NewValidation("month must be a zero-padded month string between 01 and 12")
	}
	if !domain.ValidDay(day) {
		return apperr.NewValidation("day must be a zero-padded day string between 01 and 31")
	}
	start := cursor.Date{Year: year, Month: month, Day: day}
	if _, err := start.Time(); err != nil {
		return apperr.NewValidation(
			fmt.Sprintf("day %s does not exist in month %s", day, month))
	}

	if r.passkey == "" || c.QueryParam("passkey") != r.passkey {
		return apperr.NewForbidden("invalid passkey")
	}

	runID, ok := r.runner.TryStart(start)
	if !ok {
		return c.JSON(http.StatusConflict, map[string]string{"error": "a fetch run is already active"})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"run_id": runID.String(),
		"start":  year + "-" + month + "-" + day,
	})
}
