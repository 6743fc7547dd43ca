package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/smartcity/accidents/internal/domain"
)

// queryValues collects a query parameter given repeatedly and/or comma separated
func queryValues(c *fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, part := range strings.Split(string(raw), ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func queryInts(c *fiber.Ctx, key string) ([]int, error) {
	values := queryValues(c, key)
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]int, 0, len(values))
	for _, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+key+" value: "+v)
		}
		out = append(out, n)
	}
	return out, nil
}

// parseFilterSpec reads severity, state, year and weather from the query
func parseFilterSpec(c *fiber.Ctx) (domain.FilterSpec, error) {
	severity, err := queryInts(c, "severity")
	if err != nil {
		return domain.FilterSpec{}, err
	}
	years, err := queryInts(c, "year")
	if err != nil {
		return domain.FilterSpec{}, err
	}
	return domain.FilterSpec{
		Severity: severity,
		States:   queryValues(c, "state"),
		Years:    years,
		Weather:  queryValues(c, "weather"),
	}, nil
}
