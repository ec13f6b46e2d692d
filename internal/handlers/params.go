package handlers

import (
	"errors"
	"strconv"
	"time"

	"fidelite/internal/repositories"
	"fidelite/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

var errInvalidQueryID = errors.New("invalid id")

// paramID reads a positive numeric route parameter.
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// queryID reads an optional positive numeric query parameter. An absent
// parameter yields 0.
func queryID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidQueryID
	}
	return uint(id), nil
}

func invalidID(c *fiber.Ctx, name string) error {
	return response.BadRequest(c, "invalid "+name)
}

// parseTime accepts RFC 3339 timestamps and plain dates.
func parseTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// transactionFilter reads the from/to query window. The repository treats
// "to" as exclusive, so a plain "to" date moves to the start of the next day.
func transactionFilter(c *fiber.Ctx) (repositories.TransactionFilter, error) {
	var filter repositories.TransactionFilter

	from, err := parseTime(c.Query("from"))
	if err != nil {
		return filter, err
	}
	to, err := parseTime(c.Query("to"))
	if err != nil {
		return filter, err
	}
	if to != nil && len(c.Query("to")) == len(dateLayout) {
		end := to.AddDate(0, 0, 1)
		to = &end
	}

	filter.From = from
	filter.To = to
	return filter, nil
}
