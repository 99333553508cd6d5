package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicstats/identity-api/internal/core/ports"
)

// BusinessHandler serves the public reference datasets.
type BusinessHandler struct {
	refData ports.RefDataService
}

func NewBusinessHandler(refData ports.RefDataService) *BusinessHandler {
	return &BusinessHandler{refData: refData}
}

type infoRequest struct {
	PageNumber int `query:"pageNumber" validate:"omitempty,min=1"`
	PageSize   int `query:"pageSize"   validate:"omitempty,min=1,max=100"`
}

type gdpDataRequest struct {
	YearStart int `query:"yearStart" validate:"required,gte=1900,lte=2100"`
	YearEnd   int `query:"yearEnd"   validate:"required,gte=1900,lte=2100,gtefield=YearStart"`
}

// Info returns one page of published articles.
//
// @Summary      List reference articles
// @Tags         business
// @Produce      json
// @Param        pageNumber  query  int  false  "1-based page number (default 1)"
// @Param        pageSize    query  int  false  "Rows per page (default 10)"
// @Success      200  {object}  domain.PagedInfo
// @Failure      422  {object}  errorResponse
// @Router       /api/business/public/Info [get]
func (h *BusinessHandler) Info(c echo.Context) error {
	var req infoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid parameters")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	page, err := h.refData.Info(c.Request().Context(), req.PageNumber, req.PageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// GdpData returns GDP observations for an inclusive year range.
//
// @Summary      Query GDP observations by year range
// @Tags         business
// @Produce      json
// @Param        yearStart  query  int  true  "First year of the range"
// @Param        yearEnd    query  int  true  "Last year of the range"
// @Success      200  {array}   domain.Gdp
// @Failure      422  {object}  errorResponse
// @Router       /api/business/public/GdpData [get]
func (h *BusinessHandler) GdpData(c echo.Context) error {
	var req gdpDataRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid parameters")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	rows, err := h.refData.Gdp(c.Request().Context(), req.YearStart, req.YearEnd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}
