package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/civicstats/identity-api/internal/core/domain"
)

type stubRefDataService struct {
	infoFn func(ctx context.Context, pageNumber, pageSize int) (*domain.PagedInfo, error)
	gdpFn  func(ctx context.Context, yearStart, yearEnd int) ([]*domain.Gdp, error)
}

func (s *stubRefDataService) Info(ctx context.Context, pageNumber, pageSize int) (*domain.PagedInfo, error) {
	return s.infoFn(ctx, pageNumber, pageSize)
}

func (s *stubRefDataService) Gdp(ctx context.Context, yearStart, yearEnd int) ([]*domain.Gdp, error) {
	return s.gdpFn(ctx, yearStart, yearEnd)
}

func TestBusinessHandler_Info_Success(t *testing.T) {
	stub := &stubRefDataService{
		infoFn: func(_ context.Context, pageNumber, pageSize int) (*domain.PagedInfo, error) {
			if pageNumber != 2 || pageSize != 5 {
				t.Fatalf("unexpected paging: %d/%d", pageNumber, pageSize)
			}
			return &domain.PagedInfo{PageNumber: 2, PageSize: 5, TotalCount: 11, TotalPage: 3}, nil
		},
	}
	h := NewBusinessHandler(stub)
	c, rec := newTestContext(t, http.MethodGet, "/api/business/public/Info?pageNumber=2&pageSize=5", "")

	if err := h.Info(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp domain.PagedInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.TotalCount != 11 || resp.TotalPage != 3 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestBusinessHandler_Info_OmittedParamsPassZero(t *testing.T) {
	stub := &stubRefDataService{
		infoFn: func(_ context.Context, pageNumber, pageSize int) (*domain.PagedInfo, error) {
			// The service layer owns the 1/10 defaults.
			if pageNumber != 0 || pageSize != 0 {
				t.Fatalf("expected zero values passed through, got %d/%d", pageNumber, pageSize)
			}
			return &domain.PagedInfo{PageNumber: 1, PageSize: 10}, nil
		},
	}
	h := NewBusinessHandler(stub)
	c, rec := newTestContext(t, http.MethodGet, "/api/business/public/Info", "")

	if err := h.Info(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestBusinessHandler_GdpData_Success(t *testing.T) {
	stub := &stubRefDataService{
		gdpFn: func(_ context.Context, yearStart, yearEnd int) ([]*domain.Gdp, error) {
			if yearStart != 2000 || yearEnd != 2010 {
				t.Fatalf("unexpected range: %d-%d", yearStart, yearEnd)
			}
			return []*domain.Gdp{{Year: 2000, Region: "CN", Value: 1.21e12}}, nil
		},
	}
	h := NewBusinessHandler(stub)
	c, rec := newTestContext(t, http.MethodGet, "/api/business/public/GdpData?yearStart=2000&yearEnd=2010", "")

	if err := h.GdpData(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var rows []*domain.Gdp
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(rows) != 1 || rows[0].Year != 2000 {
		t.Fatalf("unexpected payload: %+v", rows)
	}
}

func TestBusinessHandler_GdpData_MissingRange(t *testing.T) {
	h := NewBusinessHandler(&stubRefDataService{})
	c, _ := newTestContext(t, http.MethodGet, "/api/business/public/GdpData", "")

	err := h.GdpData(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestBusinessHandler_GdpData_InvertedRange(t *testing.T) {
	h := NewBusinessHandler(&stubRefDataService{})
	c, _ := newTestContext(t, http.MethodGet, "/api/business/public/GdpData?yearStart=2010&yearEnd=2000", "")

	err := h.GdpData(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}
