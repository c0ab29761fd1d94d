package controllers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"order-admin-service/models"
	"order-admin-service/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Validation constants
const (
	MaxPageSize   = 100
	MaxPageNumber = 1000000
	DefaultSize   = 10

	dateLayout = "2006-01-02" // yyyy-MM-dd, as the search contract specifies
)

// listQueryParams holds the raw list-endpoint query state before validation.
type listQueryParams struct {
	Offset    int    `validate:"gte=0,lte=1000000"`
	Size      int    `validate:"gte=1,lte=100"`
	SortBy    string `validate:"omitempty,oneof=orderDate total"`
	Direction string `validate:"omitempty,oneof=ASC DESC"`
}

// RequestValidator handles all input validation
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		validate: validator.New(),
	}
}

// ParseListQuery validates and parses the shared list parameters: offset
// (0-based page number), size, sortBy and orderDirection.
func (rv *RequestValidator) ParseListQuery(c *gin.Context) (services.ListQuery, error) {
	params := listQueryParams{
		Offset:    0,
		Size:      DefaultSize,
		SortBy:    strings.TrimSpace(c.Query("sortBy")),
		Direction: strings.ToUpper(strings.TrimSpace(c.Query("orderDirection"))),
	}

	if raw := strings.TrimSpace(c.Query("offset")); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return services.ListQuery{}, errors.New("invalid offset value")
		}
		params.Offset = offset
	}
	if raw := strings.TrimSpace(c.Query("size")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return services.ListQuery{}, errors.New("invalid size value")
		}
		if size > MaxPageSize {
			size = MaxPageSize
		}
		params.Size = size
	}

	if err := rv.validate.Struct(params); err != nil {
		return services.ListQuery{}, errors.New("invalid sort parameters")
	}

	return services.ListQuery{
		Offset:    params.Offset,
		Size:      params.Size,
		SortBy:    params.SortBy,
		Direction: params.Direction,
	}, nil
}

// ParseStatusFilter validates the status parameter of the filter endpoint.
func (rv *RequestValidator) ParseStatusFilter(c *gin.Context) (models.OrderStatus, error) {
	raw := strings.TrimSpace(c.Query("status"))
	if raw == "" {
		return "", errors.New("status is required")
	}
	status, err := models.ParseOrderStatus(raw)
	if err != nil {
		return "", errors.New("invalid status value")
	}
	return status, nil
}

// ParseSearchQuery validates the search parameters. The search contract
// requires the free-text term AND both dates: a term alone never activates
// the search path.
func (rv *RequestValidator) ParseSearchQuery(c *gin.Context) (services.SearchQuery, error) {
	searchValue := strings.TrimSpace(c.Query("searchValue"))
	startRaw := strings.TrimSpace(c.Query("startDate"))
	endRaw := strings.TrimSpace(c.Query("endDate"))

	if searchValue == "" || startRaw == "" || endRaw == "" {
		return services.SearchQuery{}, errors.New("searchValue, startDate and endDate are all required")
	}

	startDate, err := time.Parse(dateLayout, startRaw)
	if err != nil {
		return services.SearchQuery{}, errors.New("invalid startDate, expected yyyy-MM-dd")
	}
	endDate, err := time.Parse(dateLayout, endRaw)
	if err != nil {
		return services.SearchQuery{}, errors.New("invalid endDate, expected yyyy-MM-dd")
	}
	if endDate.Before(startDate) {
		return services.SearchQuery{}, errors.New("endDate must not be before startDate")
	}

	listQuery, err := rv.ParseListQuery(c)
	if err != nil {
		return services.SearchQuery{}, err
	}

	return services.SearchQuery{
		SearchValue: searchValue,
		StartDate:   startDate,
		EndDate:     endDate,
		Offset:      listQuery.Offset,
		Size:        listQuery.Size,
	}, nil
}
