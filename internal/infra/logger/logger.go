package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	lg   *zap.Logger
	once sync.Once
)

// RequestIDKey stores the request identifier on a context.Context.
type RequestIDKey struct{}

// New returns the process-wide zap.Logger. Production builds emit JSON;
// everything else gets the colored console encoder.
func New(env string) (*zap.Logger, error) {
	var err error
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		if env != "production" {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}

		lg, err = cfg.Build()
	})

	return lg, err
}

// Contact identifiers are PII and never reach logs unmasked. The maskers
// keep just enough of the value to correlate log lines with a support
// ticket.

// MaskEmail keeps at most the first 3 characters of the local part and the
// full domain: john.doe@example.com becomes joh***@example.com.
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}

	local, domain, found := strings.Cut(email, "@")
	if !found || domain == "" {
		return "***"
	}

	visible := local
	if len(visible) > 3 {
		visible = visible[:3]
	}
	return visible + "***@" + domain
}

// MaskPhone keeps the leading plus sign with up to 3 digits and the last 4
// digits: +2348012345678 becomes +234***5678.
func MaskPhone(phone string) string {
	if phone == "" {
		return ""
	}

	digits := strings.TrimPrefix(phone, "+")
	if len(digits) < 8 {
		if len(phone) > 4 {
			return "***" + phone[len(phone)-4:]
		}
		return "***"
	}

	prefix := digits[:3]
	if strings.HasPrefix(phone, "+") {
		prefix = "+" + prefix
	}
	return prefix + "***" + digits[len(digits)-4:]
}

// MaskIP keeps the first two IPv4 octets or the first four IPv6 groups, which
// is enough to spot a network without identifying the host.
func MaskIP(ip string) string {
	if ip == "" {
		return ""
	}

	if strings.Contains(ip, ".") {
		parts := strings.Split(ip, ".")
		if len(parts) == 4 {
			return parts[0] + "." + parts[1] + ".*.*"
		}
	}

	if strings.Contains(ip, ":") {
		parts := strings.Split(ip, ":")
		if len(parts) >= 4 {
			return strings.Join(parts[:4], ":") + ":*:*:*:*"
		}
	}

	return "***"
}
