// Package urlparts decomposes request URLs into their RFC 3986 components.
//
// Parsing never fails. Input that does not follow the generic syntax is
// split on a best-effort basis and whatever could not be recognised is left
// absent, so a bare path such as "/shop/catalog?page=2" still yields a path,
// a query and a fragment.
package urlparts

import (
	"maps"
	"net/url"
	"strconv"
	"strings"
)

// Components holds the parts of a single URL. It is read-only once built.
type Components struct {
	raw      string
	scheme   string
	user     string
	password string
	host     string
	port     int
	hasPort  bool
	path     string
	query    map[string]string
	fragment string
}

// Parse splits raw into its components.
func Parse(raw string) *Components {
	c := &Components{raw: raw}

	rest := raw
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		c.fragment = rest[i+1:]
		rest = rest[:i]
	}

	var rawQuery string
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rawQuery = rest[i+1:]
		rest = rest[:i]
	}
	c.query = parseQuery(rawQuery)

	c.scheme, rest = splitScheme(rest)

	if strings.HasPrefix(rest, "//") {
		authority := rest[2:]
		rest = ""
		if i := strings.IndexByte(authority, '/'); i >= 0 {
			rest = authority[i:]
			authority = authority[:i]
		}
		c.parseAuthority(authority)
	}

	c.path = rest
	return c
}

// FromRequest rebuilds the URL a front controller was reached with from the
// request scheme, the Host header and the request URI, then parses it.
// An absolute-form request URI, as sent to proxies, already names the
// scheme and host and is parsed as is.
func FromRequest(scheme, host, requestURI string) *Components {
	if sch, rest := splitScheme(requestURI); sch != "" && strings.HasPrefix(rest, "//") {
		return Parse(requestURI)
	}
	if requestURI != "" && !strings.HasPrefix(requestURI, "/") {
		requestURI = "/" + requestURI
	}
	if host == "" {
		return Parse(requestURI)
	}
	if scheme == "" {
		return Parse("//" + host + requestURI)
	}
	return Parse(scheme + "://" + host + requestURI)
}

// Raw returns the string the components were parsed from.
func (c *Components) Raw() string { return c.raw }

// Scheme returns the URL scheme, or "" when absent.
func (c *Components) Scheme() string { return c.scheme }

// User returns the user name from the userinfo, or "" when absent.
func (c *Components) User() string { return c.user }

// Password returns the password from the userinfo, or "" when absent.
func (c *Components) Password() string { return c.password }

// Host returns the host without port. IPv6 literals keep their brackets.
func (c *Components) Host() string { return c.host }

// Port returns the port and whether one was present.
func (c *Components) Port() (int, bool) { return c.port, c.hasPort }

// Path returns the raw path, or "" when the URL has none.
func (c *Components) Path() string { return c.path }

// Query returns a copy of the decoded query parameters. Never nil.
func (c *Components) Query() map[string]string { return maps.Clone(c.query) }

// QueryValue returns a single decoded query parameter.
func (c *Components) QueryValue(key string) (string, bool) {
	v, ok := c.query[key]
	return v, ok
}

// Fragment returns the text after '#', or "" when absent.
func (c *Components) Fragment() string { return c.fragment }

// splitScheme returns the scheme and the remainder when s starts with
// ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ) ":".
func splitScheme(s string) (scheme, rest string) {
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z':
		case '0' <= ch && ch <= '9' || ch == '+' || ch == '-' || ch == '.':
			if i == 0 {
				return "", s
			}
		case ch == ':':
			if i == 0 {
				return "", s
			}
			return s[:i], s[i+1:]
		default:
			return "", s
		}
	}
	return "", s
}

func (c *Components) parseAuthority(authority string) {
	hostport := authority
	if i := strings.LastIndexByte(authority, '@'); i >= 0 {
		userinfo := authority[:i]
		hostport = authority[i+1:]
		user, pass, _ := strings.Cut(userinfo, ":")
		c.user = unescape(user, false)
		c.password = unescape(pass, false)
	}

	host, port := splitHostPort(hostport)
	c.host = host
	if n, ok := parsePort(port); ok {
		c.port = n
		c.hasPort = true
	}
}

// splitHostPort separates "host:port", keeping IPv6 brackets on the host.
func splitHostPort(hostport string) (host, port string) {
	if strings.HasPrefix(hostport, "[") {
		end := strings.IndexByte(hostport, ']')
		if end < 0 {
			return hostport, ""
		}
		host = hostport[:end+1]
		if after := hostport[end+1:]; strings.HasPrefix(after, ":") {
			port = after[1:]
		}
		return host, port
	}
	if i := strings.LastIndexByte(hostport, ':'); i >= 0 {
		return hostport[:i], hostport[i+1:]
	}
	return hostport, ""
}

func parsePort(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > 65535 {
		return 0, false
	}
	return n, true
}

// parseQuery decodes "a=1&b=2". Later duplicates replace earlier ones.
func parseQuery(raw string) map[string]string {
	query := make(map[string]string)
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key = unescape(key, true)
		if key == "" {
			continue
		}
		query[key] = unescape(value, true)
	}
	return query
}

// unescape percent-decodes s, returning it untouched when the escapes are malformed.
func unescape(s string, query bool) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}
	var (
		out string
		err error
	)
	if query {
		out, err = url.QueryUnescape(s)
	} else {
		out, err = url.PathUnescape(s)
	}
	if err != nil {
		return s
	}
	return out
}
