package catalog

import (
	"fmt"
	"net/url"
	"strconv"
)

// PageURL returns the address of catalog page n. Page 1 is base itself;
// later pages add a page query parameter to whatever query base carries.
func PageURL(base string, n int) (string, error) {
	if n <= 1 {
		return base, nil
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse catalog url: %w", err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(n))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
