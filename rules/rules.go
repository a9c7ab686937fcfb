// Package rules holds the leaf-level conformance checks the validator
// delegates to: primitive kind compatibility, enum membership, and runtime
// format checks. The rules are pure predicates over literal data so they stay
// independent of the schema graph.
package rules

import (
	"net"
	"net/mail"
	"net/url"
	"strings"
	"time"
)

// KindCompatible reports whether a data value of the given kind satisfies the
// declared primitive. integral is the pre-computed integrality of numeric
// values, consulted only for the integer primitive.
func KindCompatible(primitive, valueKind string, integral bool) bool {
	switch primitive {
	case "integer":
		return valueKind == "number" && integral
	case "number":
		return valueKind == "number"
	default:
		return primitive == valueKind
	}
}

// EnumContains reports whether literal is one of the declared enum values.
// Enum sets are closed; membership is exact, in declared order.
func EnumContains(values []string, literal string) bool {
	for _, v := range values {
		if v == literal {
			return true
		}
	}
	return false
}

// KnownFormat reports whether the validator enforces the named format.
// Unknown formats are annotations and pass unchecked, per JSON Schema's
// permissive default.
func KnownFormat(name string) bool {
	switch name {
	case "date-time", "date", "email", "uri", "ipv4", "ipv6":
		return true
	}
	return false
}

// Format checks a string value against a known format name. Calling it with
// an unknown format returns true.
func Format(name, s string) bool {
	switch name {
	case "date-time":
		_, err := time.Parse(time.RFC3339, s)
		return err == nil
	case "date":
		_, err := time.Parse("2006-01-02", s)
		return err == nil
	case "email":
		addr, err := mail.ParseAddress(s)
		return err == nil && addr.Address == s
	case "uri":
		u, err := url.Parse(s)
		return err == nil && u.Scheme != ""
	case "ipv4":
		ip := net.ParseIP(s)
		return ip != nil && strings.Contains(s, ".") && ip.To4() != nil
	case "ipv6":
		ip := net.ParseIP(s)
		return ip != nil && strings.Contains(s, ":")
	}
	return true
}
