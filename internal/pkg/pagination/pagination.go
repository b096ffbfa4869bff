package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// DefaultLimit is the fixed page size for application and outcome listings
const DefaultLimit = 20

// MaxLimit caps the caller-supplied page size
const MaxLimit = 100

// Params represents the page window a listing request asked for
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// GetParams extracts and clamps pagination parameters from the request
func GetParams(c *fiber.Ctx) *Params {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(DefaultLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return &Params{Page: page, Limit: limit}
}
