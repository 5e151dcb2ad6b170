package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/facturacion-api/internal/application/service"
	"github.com/sangkips/facturacion-api/internal/presentation/http/dto/response"
	"github.com/sangkips/facturacion-api/pkg/apperror"
	"github.com/sangkips/facturacion-api/pkg/utils"
)

// parseID reads a UUID path parameter, answering 400 when it is malformed
func parseID(c *gin.Context, param, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.BadRequest(c, "Invalid "+resource+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// queryAny returns the first non-empty query value among names
func queryAny(c *gin.Context, names ...string) string {
	for _, name := range names {
		if v := c.Query(name); v != "" {
			return v
		}
	}
	return ""
}

// parseDate parses an optional date query value. A date-only end bound
// covers the whole day.
func parseDate(raw, field string, endOfRange bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, dateOnly, err := utils.ParseDate(raw)
	if err != nil {
		return nil, apperror.NewFieldValidationError(field, err.Error())
	}
	if dateOnly && endOfRange {
		t = utils.EndOfDay(t)
	}
	return &t, nil
}

// parseDateRange reads start_date/end_date, also accepting startDate/endDate
func parseDateRange(c *gin.Context) (service.DateRange, error) {
	start, err := parseDate(queryAny(c, "start_date", "startDate"), "start_date", false)
	if err != nil {
		return service.DateRange{}, err
	}
	end, err := parseDate(queryAny(c, "end_date", "endDate"), "end_date", true)
	if err != nil {
		return service.DateRange{}, err
	}
	return service.DateRange{Start: start, End: end}, nil
}

// parseOptionalInt reads an optional integer query parameter
func parseOptionalInt(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperror.NewFieldValidationError(name, name+" must be an integer")
	}
	return &n, nil
}
