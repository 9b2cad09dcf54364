package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPExtractor finds the client address of a request.
type IPExtractor interface {
	ExtractIP(r *http.Request) (string, error)
}

// RemoteAddrExtractor uses the TCP peer address only.
type RemoteAddrExtractor struct{}

func (RemoteAddrExtractor) ExtractIP(r *http.Request) (string, error) {
	return ipFromAddr(r.RemoteAddr)
}

// TrustedProxyExtractor reads X-Forwarded-For and X-Real-IP, but only when the
// peer is one of the configured proxies. Headers from anyone else are ignored,
// otherwise a client could pick its own rate-limit key.
type TrustedProxyExtractor struct {
	Proxies []netip.Prefix
	Logger  *slog.Logger
}

// ParseTrustedProxies accepts IPs and CIDRs, e.g. "10.0.0.0/8" or "172.17.0.1".
func ParseTrustedProxies(values []string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if p, err := netip.ParsePrefix(v); err == nil {
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: want an IP or CIDR", v)
		}
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

func (e TrustedProxyExtractor) ExtractIP(r *http.Request) (string, error) {
	peer, err := ipFromAddr(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	if !e.trusted(peer) {
		if r.Header.Get("X-Forwarded-For") != "" && e.Logger != nil {
			e.Logger.Debug("ignoring X-Forwarded-For from untrusted peer",
				slog.String("remote_addr", r.RemoteAddr))
		}
		return peer, nil
	}
	if ip := firstIP(r.Header.Get("X-Forwarded-For")); ip != "" {
		return ip, nil
	}
	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
		return ip.String(), nil
	}
	return peer, nil
}

func (e TrustedProxyExtractor) trusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range e.Proxies {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func ipFromAddr(addr string) (string, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		if ip := net.ParseIP(addr); ip != nil {
			return ip.String(), nil
		}
		return "", fmt.Errorf("invalid address format: %s", addr)
	}
	return host, nil
}

// firstIP returns the client entry of an X-Forwarded-For list.
func firstIP(xff string) string {
	first, _, _ := strings.Cut(xff, ",")
	if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
		return ip.String()
	}
	return ""
}
