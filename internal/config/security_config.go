package config

import (
	"fmt"
	"net/netip"
	"strings"
	"time"
)

type SecurityConfig interface {
	GetLoginRateLimit() float64
	GetLoginRateBurst() int
	GetLimiterIdleTimeout() time.Duration
	GetEnableRateLimiting() bool
	GetTrustedProxies() []netip.Prefix
}

type Security struct {
	LoginRateLimit     float64       `env:"LOGIN_RATE_LIMIT" envDefault:"0.2"` // requests per second per client
	LoginRateBurst     int           `env:"LOGIN_RATE_BURST" envDefault:"5"`
	LimiterIdleTimeout time.Duration `env:"LOGIN_LIMITER_IDLE" envDefault:"10m"`
	EnableRateLimiting bool          `env:"ENABLE_RATE_LIMITING" envDefault:"true"`

	// TrustedProxies lists the addresses or CIDR ranges whose X-Forwarded-For
	// header is believed. Empty means the header is ignored.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	trustedProxies []netip.Prefix
}

var _ SecurityConfig = Security{}

func (s Security) GetLoginRateLimit() float64 {
	return s.LoginRateLimit
}

func (s Security) GetLoginRateBurst() int {
	return s.LoginRateBurst
}

func (s Security) GetLimiterIdleTimeout() time.Duration {
	return s.LimiterIdleTimeout
}

func (s Security) GetEnableRateLimiting() bool {
	return s.EnableRateLimiting
}

func (s Security) GetTrustedProxies() []netip.Prefix {
	return s.trustedProxies
}

// parseTrustedProxies accepts bare addresses ("10.0.0.1") and ranges ("10.0.0.0/8").
func parseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("[config New] invalid TRUSTED_PROXIES entry %q: %w", entry, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("[config New] invalid TRUSTED_PROXIES entry %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}
