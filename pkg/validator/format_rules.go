package validator

import (
	"context"
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
)

// Phone number regex - international format with optional country code
var phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// checkEmail validates an address with net/mail plus the usual web checks:
// a non-empty local part and a dotted domain without empty labels.
func checkEmail(_ context.Context, in Input) *ValidationError {
	return checkFormat(in, "validation.email", "must be a valid email address", func(value string) bool {
		addr, err := mail.ParseAddress(value)
		if err != nil || addr.Address != value {
			return false
		}

		local, domain, ok := strings.Cut(addr.Address, "@")
		if !ok || local == "" {
			return false
		}

		if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
			return false
		}

		for part := range strings.SplitSeq(domain, ".") {
			if part == "" {
				return false
			}
		}

		return true
	})
}

func checkURL(_ context.Context, in Input) *ValidationError {
	return checkFormat(in, "validation.url", "must be a valid URL", func(value string) bool {
		u, err := url.ParseRequestURI(value)
		if err != nil {
			return false
		}
		return u.Scheme != "" && u.Host != ""
	})
}

func checkPhone(_ context.Context, in Input) *ValidationError {
	return checkFormat(in, "validation.phone", "must be a valid phone number in international format", func(value string) bool {
		cleaned := strings.ReplaceAll(strings.ReplaceAll(value, " ", ""), "-", "")
		if len(cleaned) < 7 {
			return false
		}
		return phoneRegex.MatchString(cleaned)
	})
}

func checkIP(_ context.Context, in Input) *ValidationError {
	return checkFormat(in, "validation.ip", "must be a valid IP address", func(value string) bool {
		return net.ParseIP(value) != nil
	})
}

func prepareRegex(args []string) (any, error) {
	return regexp.Compile(args[0])
}

func checkRegex(_ context.Context, in Input) *ValidationError {
	re := in.State.(*regexp.Regexp)
	if IsEmpty(in.Value) {
		return nil
	}
	value, ok := asString(in)
	if !ok {
		return typeError(in)
	}
	if re.MatchString(value) {
		return nil
	}
	return newError(in, "validation.regex", "has an invalid format", map[string]any{
		"pattern": re.String(),
	})
}

// checkFormat runs a string predicate. Empty values pass; pair the rule
// with required to reject them.
func checkFormat(in Input, key, message string, valid func(string) bool) *ValidationError {
	if IsEmpty(in.Value) {
		return nil
	}
	value, ok := asString(in)
	if !ok {
		return typeError(in)
	}
	if valid(strings.TrimSpace(value)) {
		return nil
	}
	return newError(in, key, message, nil)
}
