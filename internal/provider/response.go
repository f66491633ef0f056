package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrStatus reports a non-2xx upstream response.
	ErrStatus = errors.New("unexpected status")
	// ErrShape reports a response that does not carry the expected fields.
	ErrShape = errors.New("unexpected response shape")
)

// CheckStatus returns an ErrStatus-wrapped error for non-2xx responses,
// including the first 2KiB of the body.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<10))
	method, target := "", ""
	if resp.Request != nil {
		method = resp.Request.Method
		if resp.Request.URL != nil {
			// drop the query, it may carry an API key
			u := *resp.Request.URL
			u.RawQuery = ""
			target = u.String()
		}
	}
	return fmt.Errorf("%w: %s %s -> %d: %s", ErrStatus, method, target, resp.StatusCode, strings.TrimSpace(string(b)))
}

// DecodeJSON decodes r into v, reporting malformed bodies as ErrShape.
func DecodeJSON(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrShape, err)
	}
	return nil
}

// ParseAmount reads an amount that upstreams send either as a JSON number
// or as a numeric string. Null, missing, negative and non-numeric values
// are ErrShape.
func ParseAmount(raw json.RawMessage) (float64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, fmt.Errorf("%w: amount is missing", ErrShape)
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return 0, fmt.Errorf("%w: amount: %v", ErrShape, err)
		}
		s = strings.TrimSpace(str)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q is not numeric", ErrShape, s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: amount %s is negative", ErrShape, d.String())
	}
	f, _ := d.Float64()
	return f, nil
}

// FormatAmount renders a USD amount the way upstream query strings expect it.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// StripURL drops the request URL from a transport error. Providers that
// authenticate with a query parameter use it so keys never reach the logs.
func StripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}
