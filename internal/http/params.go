package http

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/domain"
)

const (
	localLayout    = "2006-01-02T15:04:05"
	dateOnlyLayout = "2006-01-02"
)

func paramID(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Params(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", domain.ErrValidation, name, raw)
	}
	return id, nil
}

func paramFloat(raw, name string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: invalid %s %q", domain.ErrValidation, name, raw)
	}
	return v, nil
}

// parseTime accepts RFC 3339, a zone-less local timestamp (read as UTC) or a
// bare date. With endOfDay a bare date covers the whole day.
func parseTime(raw string, endOfDay bool) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(localLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(dateOnlyLayout, s); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid time %q", domain.ErrValidation, raw)
}

// optionalTime is the zero time when raw is empty.
func optionalTime(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	return parseTime(raw, false)
}

func queryRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	start, end := c.Query("start"), c.Query("end")
	if start == "" || end == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start and end are required", domain.ErrValidation)
	}
	from, err := parseTime(start, false)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseTime(end, true)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: malformed body: %v", domain.ErrValidation, err)
	}
	return nil
}
