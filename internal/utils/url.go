package utils

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrEmptyTemplate is returned when no URL template is configured.
	ErrEmptyTemplate = errors.New("empty url template")
	// ErrMissingValue is returned when a placeholder in the template has no value.
	ErrMissingValue = errors.New("missing url value")
)

// ExpandURL substitutes {key} placeholders in tmpl with query-escaped values and
// returns the resulting absolute URL. Placeholders listed in required must have a
// non-empty value. Query parameters left empty after substitution are dropped.
func ExpandURL(tmpl string, values map[string]string, required ...string) (string, error) {
	if strings.TrimSpace(tmpl) == "" {
		return "", ErrEmptyTemplate
	}
	for _, key := range required {
		if values[key] == "" {
			return "", fmt.Errorf("%w: %s", ErrMissingValue, key)
		}
	}

	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{"+key+"}", url.QueryEscape(value))
	}
	expanded := strings.NewReplacer(pairs...).Replace(tmpl)

	if i := strings.Index(expanded, "{"); i >= 0 {
		return "", fmt.Errorf("unknown placeholder in %q", tmpl)
	}

	u, err := url.Parse(expanded)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url %q is not absolute", expanded)
	}

	if u.RawQuery != "" {
		q := u.Query()
		for key, vals := range q {
			if len(vals) == 1 && vals[0] == "" {
				q.Del(key)
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}
