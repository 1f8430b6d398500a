package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gobwas/glob"

	"pipecheck/internal/core/config"
)

// allowedMethods is what a wildcard method list expands to in preflight
// responses.
const allowedMethods = "DELETE, GET, HEAD, OPTIONS, PATCH, POST, PUT"

// CORSPolicy is the live origin allow list. Update swaps it atomically so a
// config reload takes effect on the next request.
type CORSPolicy struct {
	mu          sync.RWMutex
	origins     []string
	patterns    []glob.Glob
	allowAll    bool
	credentials bool
	maxAge      time.Duration
}

func NewCORSPolicy(cfg config.CORS) (*CORSPolicy, error) {
	p := &CORSPolicy{}
	if err := p.Update(cfg); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the policy. On error the previous policy stays in place.
func (p *CORSPolicy) Update(cfg config.CORS) error {
	patterns := make([]glob.Glob, 0, len(cfg.AllowOrigins))
	origins := make([]string, 0, len(cfg.AllowOrigins))
	allowAll := false
	for _, raw := range cfg.AllowOrigins {
		origin := strings.TrimRight(strings.TrimSpace(raw), "/")
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
		}
		g, err := glob.Compile(origin)
		if err != nil {
			return err
		}
		patterns = append(patterns, g)
		origins = append(origins, origin)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.origins = origins
	p.patterns = patterns
	p.allowAll = allowAll
	p.credentials = cfg.CredentialsAllowed()
	p.maxAge = cfg.MaxAge
	return nil
}

// Allowed reports whether origin matches one of the configured patterns.
func (p *CORSPolicy) Allowed(origin string) bool {
	if origin == "" {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.allowAll {
		return true
	}
	for _, g := range p.patterns {
		if g.Match(origin) {
			return true
		}
	}
	return false
}

// Origins returns the configured patterns.
func (p *CORSPolicy) Origins() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.origins))
	copy(out, p.origins)
	return out
}

func (p *CORSPolicy) snapshot() (credentials bool, maxAge time.Duration) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.credentials, p.maxAge
}

// CORS answers preflight requests and decorates responses for allowed
// origins. Requests without an Origin header pass through untouched.
func CORS(policy *CORSPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		allowed := policy.Allowed(origin)
		credentials, maxAge := policy.snapshot()
		h := c.Writer.Header()

		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			h.Add("Vary", "Origin")
			if !allowed {
				c.Data(http.StatusBadRequest, "text/plain; charset=utf-8", []byte("Disallowed CORS origin"))
				c.Abort()
				return
			}
			h.Set("Access-Control-Allow-Origin", origin)
			if credentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			h.Set("Access-Control-Allow-Methods", allowedMethods)
			if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
				h.Set("Access-Control-Allow-Headers", requested)
			}
			if maxAge > 0 {
				h.Set("Access-Control-Max-Age", strconv.Itoa(int(maxAge.Seconds())))
			}
			c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte("OK"))
			c.Abort()
			return
		}

		if allowed {
			h.Set("Access-Control-Allow-Origin", origin)
			if credentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			h.Add("Vary", "Origin")
		}
		c.Next()
	}
}
