// Package recordpath resolves the record references used by the admin URLs.
//
// Admin URLs address a record as a colon separated segment list rooted at
// "root", optionally suffixed with "+<alt>": "root:blog:first-post+de" refers
// to the record stored at "/blog/first-post" in the "de" alternative.
package recordpath

import (
	"errors"
	"fmt"
	"strings"
)

// PrimaryAlt names the primary alternative of a record.
const PrimaryAlt = "_primary"

const rootSegment = "root"

// ErrInvalidPath is returned when an admin URL path cannot be resolved.
var ErrInvalidPath = errors.New("recordpath: invalid record path")

// Ref identifies a record by filesystem-style path and alternative.
type Ref struct {
	Path string `json:"path"`
	Alt  string `json:"alt"`
}

// New normalises path and alt into a Ref. An empty alt resolves to the
// primary alternative.
func New(path, alt string) Ref {
	return Ref{Path: cleanPath(path), Alt: normaliseAlt(alt)}
}

// Parse resolves an admin URL path ("root:blog+de") into a Ref.
func Parse(urlPath string) (Ref, error) {
	raw := strings.TrimSpace(urlPath)
	if raw == "" {
		return Ref{}, fmt.Errorf("%w: empty", ErrInvalidPath)
	}

	alt := PrimaryAlt
	if idx := strings.LastIndex(raw, "+"); idx >= 0 {
		alt = normaliseAlt(raw[idx+1:])
		raw = raw[:idx]
	}

	segments := strings.Split(raw, ":")
	if segments[0] != rootSegment {
		return Ref{}, fmt.Errorf("%w: %q does not start at %s", ErrInvalidPath, urlPath, rootSegment)
	}

	parts := make([]string, 0, len(segments)-1)
	for _, segment := range segments[1:] {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		if segment == "." || segment == ".." || strings.Contains(segment, "/") {
			return Ref{}, fmt.Errorf("%w: illegal segment %q", ErrInvalidPath, segment)
		}
		parts = append(parts, segment)
	}

	return Ref{Path: "/" + strings.Join(parts, "/"), Alt: alt}, nil
}

// URLPath formats the ref as an admin URL path. The primary alternative is
// left implicit.
func (r Ref) URLPath() string {
	path := cleanPath(r.Path)
	urlPath := rootSegment
	if trimmed := strings.Trim(path, "/"); trimmed != "" {
		urlPath += ":" + strings.ReplaceAll(trimmed, "/", ":")
	}
	if alt := normaliseAlt(r.Alt); alt != PrimaryAlt {
		urlPath += "+" + alt
	}
	return urlPath
}

// WithPath returns a copy of r pointing at another path in the same
// alternative. An empty path keeps the current one.
func (r Ref) WithPath(path string) Ref {
	if strings.TrimSpace(path) == "" {
		return r
	}
	return Ref{Path: cleanPath(path), Alt: normaliseAlt(r.Alt)}
}

// IsPrimary reports whether r addresses the primary alternative.
func (r Ref) IsPrimary() bool {
	return normaliseAlt(r.Alt) == PrimaryAlt
}

// SameRecord reports whether both refs address the same record and
// alternative.
func (r Ref) SameRecord(other Ref) bool {
	return cleanPath(r.Path) == cleanPath(other.Path) && normaliseAlt(r.Alt) == normaliseAlt(other.Alt)
}

// IsZero reports whether the ref was never set.
func (r Ref) IsZero() bool {
	return r.Path == "" && r.Alt == ""
}

func (r Ref) String() string {
	return r.URLPath()
}

func cleanPath(path string) string {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	if trimmed == "" {
		return "/"
	}
	parts := strings.Split(trimmed, "/")
	keep := parts[:0]
	for _, part := range parts {
		if part != "" {
			keep = append(keep, part)
		}
	}
	return "/" + strings.Join(keep, "/")
}

func normaliseAlt(alt string) string {
	alt = strings.TrimSpace(alt)
	if alt == "" {
		return PrimaryAlt
	}
	return alt
}
