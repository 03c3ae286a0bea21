// Package keygen builds the remote object paths uploaded files are stored
// under. A path combines the upload instant, down to the millisecond, with a
// random identifier so that files uploaded within the same millisecond never
// collide.
package keygen

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultPrefix is the top-level directory every generated key lives under.
const DefaultPrefix = "markdown"

// Key is a generated remote object path together with the timestamp it was
// derived from.
type Key struct {
	// Path is the object key within the bucket, e.g.
	// markdown/2024/01/01/00-00-00-000-<hex>.png
	Path string

	// Display is the timestamp portion of Path, used verbatim as Markdown alt
	// text.
	Display string
}

// Generator produces unique keys. The zero value is ready to use.
type Generator struct {
	Prefix string
	Now    func() time.Time
	NewID  func() string
}

// New returns a fresh key for a file with the given extension. ext may be
// given with or without its leading dot.
func (g *Generator) New(ext string) Key {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	newID := RandomID
	if g.NewID != nil {
		newID = g.NewID
	}
	prefix := g.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	display := Timestamp(now())
	ext = strings.TrimPrefix(ext, ".")

	return Key{
		Path:    fmt.Sprintf("%s/%s-%s.%s", strings.Trim(prefix, "/"), display, newID(), ext),
		Display: display,
	}
}

// Timestamp formats t as <year>/<month>/<day>/<hour>-<minute>-<second>-<millis>
// in t's location.
func Timestamp(t time.Time) string {
	return fmt.Sprintf("%s-%03d", t.Format("2006/01/02/15-04-05"), t.Nanosecond()/int(time.Millisecond))
}

// RandomID returns 32 lowercase hex characters taken from a version 4 UUID.
func RandomID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
