package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PascalToSnake converts a PascalCase or camelCase string to snake_case.
// Example: "OrderGrpc" -> "order_grpc"
func PascalToSnake(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				result.WriteRune('_')
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Capitalize upper-cases the first rune: "authGrpcChannel" -> "AuthGrpcChannel".
func Capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// LowerFirst lower-cases the first rune: "OrderStub" -> "orderStub".
func LowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}

// TrimPrefixFold removes prefix from s when s starts with it, ignoring the
// case of the prefix's first rune ("new" strips both "newX" and "NewX").
func TrimPrefixFold(s, prefix string) (string, bool) {
	if prefix == "" {
		return s, true
	}
	for _, p := range []string{LowerFirst(prefix), Capitalize(prefix)} {
		if strings.HasPrefix(s, p) {
			return s[len(p):], true
		}
	}
	return s, false
}
