package session

import (
	"encoding/json"
	"net/http"
	"time"
)

// Record is the persisted form of a client session.
type Record struct {
	Identity json.RawMessage `json:"identity"`
	Cookies  []CookieRecord  `json:"cookies,omitempty"`
	SavedAt  int64           `json:"saved_at"`
}

// CookieRecord keeps the name/value pair of an ambient credential cookie.
type CookieRecord struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Path    string `json:"path,omitempty"`
	Expires int64  `json:"expires,omitempty"`
}

// CookiesFromHTTP converts jar cookies into records.
func CookiesFromHTTP(cookies []*http.Cookie) []CookieRecord {
	if len(cookies) == 0 {
		return nil
	}
	out := make([]CookieRecord, 0, len(cookies))
	for _, c := range cookies {
		if c == nil || c.Name == "" {
			continue
		}
		rec := CookieRecord{Name: c.Name, Value: c.Value, Path: c.Path}
		if !c.Expires.IsZero() {
			rec.Expires = c.Expires.Unix()
		}
		out = append(out, rec)
	}
	return out
}

// HTTPCookies converts records back into cookies, skipping expired ones.
func (r Record) HTTPCookies(now time.Time) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(r.Cookies))
	for _, c := range r.Cookies {
		cookie := &http.Cookie{Name: c.Name, Value: c.Value, Path: c.Path}
		if c.Expires > 0 {
			cookie.Expires = time.Unix(c.Expires, 0)
			if !cookie.Expires.After(now) {
				continue
			}
		}
		out = append(out, cookie)
	}
	return out
}
