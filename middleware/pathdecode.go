package middleware

import (
	"encoding/base64"
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
)

// Guard against re-decoding on the re-dispatch; gin's HandleContext resets
// the context key store, so the marker rides on the request header instead.
const pathDecodedHeader = "X-Path-Decoded"

// PathDecoder lets clients address the API with a single base64url-encoded
// path segment (RFC 4648 section 5, padding optional). A request whose whole
// path decodes to something containing a route separator is rewritten and
// re-dispatched through the router; everything else passes through untouched.
func PathDecoder(engine *gin.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Header.Get(pathDecodedHeader) != "" {
			c.Next()
			return
		}

		path := strings.TrimPrefix(c.Request.URL.Path, "/")
		head := path
		if len(head) > 10 {
			head = head[:10]
		}
		// A path that already looks like a normal route is left alone.
		if path == "" || strings.Contains(head, "/") {
			c.Next()
			return
		}

		decoded, err := decodeBase64Path(path)
		if err != nil || !strings.ContainsAny(decoded, "/?") {
			c.Next()
			return
		}

		newPath := decoded
		rawQuery := ""
		if i := strings.IndexByte(decoded, '?'); i >= 0 {
			newPath, rawQuery = decoded[:i], decoded[i+1:]
		}

		log.Printf("[PathDecoder] decoded %s -> %s", path, newPath)

		c.Request.Header.Set(pathDecodedHeader, "1")
		c.Request.URL.Path = "/" + strings.TrimPrefix(newPath, "/")
		c.Request.URL.RawQuery = rawQuery
		engine.HandleContext(c)
		c.Abort()
	}
}

func decodeBase64Path(s string) (string, error) {
	if m := len(s) % 4; m != 0 {
		s += strings.Repeat("=", 4-m)
	}

	raw, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		raw, err = base64.StdEncoding.DecodeString(s)
		if err != nil {
			return "", err
		}
	}
	if !utf8.Valid(raw) {
		return "", errors.New("decoded path is not valid UTF-8")
	}
	return strings.TrimSpace(string(raw)), nil
}
