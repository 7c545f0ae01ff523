package round

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nephtalem/MedRounds/internal/platform/auth"
	"github.com/nephtalem/MedRounds/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/rounds", h.CreateRound)
	api.GET("/rounds", h.ListRounds)
	api.GET("/rounds/:id", h.GetRound)
	api.PUT("/rounds/:id", h.UpdateRound)
	api.PATCH("/rounds/:id/status", h.UpdateRoundStatus)
	api.DELETE("/rounds/:id", h.DeleteRound)
}

type roundRequest struct {
	RoundNumber string     `json:"round_number"`
	Date        *time.Time `json:"date"`
	Status      string     `json:"status"`
}

func (h *Handler) CreateRound(c echo.Context) error {
	var req roundRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no authenticated user")
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}
	rnd, err := h.svc.Create(c.Request().Context(), userID, req.RoundNumber, date)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, rnd)
}

func (h *Handler) GetRound(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if c.QueryParam("include") == "count" {
		rnd, err := h.svc.GetWithCount(c.Request().Context(), id)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, rnd)
	}

	rnd, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rnd)
}

func (h *Handler) ListRounds(c echo.Context) error {
	// Ward lookup by display name returns a single round.
	if number := c.QueryParam("round_number"); number != "" {
		rnd, err := h.svc.GetByRoundNumber(c.Request().Context(), number)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, rnd)
	}

	pg := pagination.FromContext(c)
	rounds, total, err := h.svc.List(c.Request().Context(), c.QueryParam("status"), pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(rounds, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateRound(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req roundRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}
	rnd, err := h.svc.Update(c.Request().Context(), id, req.RoundNumber, date)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rnd)
}

func (h *Handler) UpdateRoundStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req roundRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rnd, err := h.svc.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rnd)
}

func (h *Handler) DeleteRound(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
