package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DeprecatedRoute marks an endpoint as deprecated with a sunset date.
type DeprecatedRoute struct {
	Path        string // may contain :param segments
	SunsetDate  time.Time
	Alternative string
}

// deprecatedRoutes are kept for older mobile clients.
var deprecatedRoutes = []DeprecatedRoute{
	{
		Path:        "/v1/geometry/in-building",
		SunsetDate:  time.Date(2027, time.June, 1, 0, 0, 0, 0, time.UTC),
		Alternative: "/v1/buildings/enclosing",
	},
}

// DeprecationMiddleware adds Deprecation, Sunset and Link headers
// (RFC 8594, RFC 8288) to deprecated endpoints.
func DeprecationMiddleware(deprecated []DeprecatedRoute) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, d := range deprecated {
			if !matchPattern(c.Path(), d.Path) {
				continue
			}
			c.Set("Deprecation", "true")
			c.Set("Sunset", d.SunsetDate.UTC().Format(time.RFC1123))
			if d.Alternative != "" {
				c.Append("Link", fmt.Sprintf(`<%s>; rel="successor-version"`, d.Alternative))
			}
			break
		}
		return c.Next()
	}
}

// matchPattern matches a path against a route pattern where ":name"
// segments match any single non-empty segment.
func matchPattern(path, pattern string) bool {
	if path == pattern {
		return true
	}
	ps := strings.Split(strings.Trim(path, "/"), "/")
	qs := strings.Split(strings.Trim(pattern, "/"), "/")
	if len(ps) != len(qs) {
		return false
	}
	for i, seg := range qs {
		if strings.HasPrefix(seg, ":") {
			if ps[i] == "" {
				return false
			}
			continue
		}
		if seg != ps[i] {
			return false
		}
	}
	return true
}
