package mw

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/fellowship/internal/logger"
	"github.com/MrSnakeDoc/fellowship/internal/utils"
)

// hostSet holds exact host names and "*.domain" suffixes, lowercased.
type hostSet struct {
	exact    map[string]struct{}
	suffixes []string // ".example.com"
}

func newHostSet(hosts []string) hostSet {
	s := hostSet{exact: make(map[string]struct{}, len(hosts))}
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		switch {
		case h == "":
		case strings.HasPrefix(h, "*."):
			s.suffixes = append(s.suffixes, h[1:])
		default:
			s.exact[h] = struct{}{}
		}
	}
	return s
}

func (s hostSet) empty() bool { return len(s.exact) == 0 && len(s.suffixes) == 0 }

func (s hostSet) match(host string) bool {
	host = strings.ToLower(host)
	if _, ok := s.exact[host]; ok {
		return true
	}
	for _, suf := range s.suffixes {
		if strings.HasSuffix(host, suf) {
			return true
		}
	}
	return false
}

// EnforceHost rejects admin requests whose Host header (port ignored) is not
// listed. "*.example.com" matches any subdomain but not the apex. An empty
// list disables the check.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	set := newHostSet(allowedHosts)
	if set.empty() {
		return func(next http.Handler) http.Handler { return next }
	}
	log.Debug("host check enabled", logger.Any("hosts", allowedHosts))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := utils.ParseHostNoPort(r.Host)
			if !set.match(host) {
				log.Warn("admin request rejected by host check",
					logger.String("host", host),
					logger.String("path", r.URL.Path))
				reject(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
