package filter

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type FilterError struct {
	Field   string
	Message string
}

func (e FilterError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Parse builds Criteria from query parameters: category, tags (comma
// separated), q or search, startDate, endDate, price and sortBy.
func Parse(values url.Values) (Criteria, error) {
	c := Criteria{}

	c.Category = strings.TrimSpace(values.Get("category"))
	c.Tags = parseList(values.Get("tags"))

	c.Search = strings.TrimSpace(values.Get("q"))
	if c.Search == "" {
		c.Search = strings.TrimSpace(values.Get("search"))
	}

	startDate, err := parseDate("startDate", values.Get("startDate"))
	if err != nil {
		return c, err
	}
	endDate, err := parseDate("endDate", values.Get("endDate"))
	if err != nil {
		return c, err
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return c, FilterError{Field: "endDate", Message: "must be on or after startDate"}
	}
	c.StartDate = startDate
	c.EndDate = endDate

	switch price := PriceMode(strings.ToLower(strings.TrimSpace(values.Get("price")))); price {
	case "", PriceAll:
		c.Price = PriceAll
	case PriceFree, PricePaid:
		c.Price = price
	default:
		return c, FilterError{Field: "price", Message: "must be one of free, paid, all"}
	}

	switch sortBy := SortKey(strings.ToLower(strings.TrimSpace(values.Get("sortBy")))); sortBy {
	case "":
		c.SortBy = SortDate
	case SortDate, SortPopularity, SortPrice:
		c.SortBy = sortBy
	default:
		return c, FilterError{Field: "sortBy", Message: "must be one of date, popularity, price"}
	}

	return c, nil
}

// parseDate accepts RFC3339 timestamps or plain ISO8601 dates (midnight UTC).
func parseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return &parsed, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, FilterError{Field: field, Message: "must be ISO8601 date"}
	}
	return &parsed, nil
}

func parseList(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}
