package http

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// cacheControlFor picks a Cache-Control value by path. Footprints change
// only on import; shuttle positions are refreshed every few seconds.
func cacheControlFor(path string) string {
	switch {
	case path == "/metrics", path == "/health", path == "/ready":
		return "no-cache"
	case path == "/graphql":
		return "private, max-age=0"
	case strings.HasPrefix(path, "/v1/shuttle"):
		return "no-store"
	case path == "/v1/campuses":
		return "public, max-age=86400"
	case strings.HasPrefix(path, "/v1/buildings/markers"), path == "/v1/buildings":
		return "public, max-age=600"
	case strings.HasPrefix(path, "/v1/buildings/"):
		return "public, max-age=300"
	case strings.HasPrefix(path, "/v1/"):
		return "public, max-age=60"
	}
	return ""
}

// CachingMiddleware sets Cache-Control on successful GET responses unless
// the handler already did, then answers 304 when If-None-Match matches
// the weak ETag of the body.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}
		if c.Method() != fiber.MethodGet || c.Response().StatusCode() != fiber.StatusOK {
			return nil
		}

		if c.GetRespHeader(fiber.HeaderCacheControl) == "" {
			if v := cacheControlFor(c.Path()); v != "" {
				c.Set(fiber.HeaderCacheControl, v)
			}
		}

		body := c.Response().Body()
		if len(body) == 0 {
			return nil
		}
		sum := sha256.Sum256(body)
		etag := `W/"` + hex.EncodeToString(sum[:8]) + `"`
		c.Set(fiber.HeaderETag, etag)

		if c.Get(fiber.HeaderIfNoneMatch) == etag {
			c.Status(fiber.StatusNotModified)
			c.Response().ResetBody()
		}
		return nil
	}
}
