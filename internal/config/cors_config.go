package config

import (
	"sort"
	"strings"
)

type Cors struct {
	origins AllowedOrigins
}

var _ CorsConfig = Cors{}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	sort.Strings(origins)
	return strings.Join(origins, ", ")
}

// NewCors builds the CORS settings from a list of allowed origins.
func NewCors(origins []string) Cors {
	allowed := AllowedOrigins{}
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			allowed[o] = nullValue{}
		}
	}
	return Cors{origins: allowed}
}

func (c Cors) GetAllowedOrigins() AllowedOrigins {
	if c.origins == nil {
		return AllowedOrigins{}
	}
	return c.origins
}

func (Cors) GetAllowedMethods() string {
	return "GET, POST, OPTIONS"
}

func (Cors) GetAllowedHeaders() string {
	return "Content-Type, HX-Request, HX-Current-URL"
}
