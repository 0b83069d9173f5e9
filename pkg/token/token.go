// Package token normalizes raw list entries into canonical, comparable tokens.
package token

import (
	"errors"
	"net/netip"
	"strings"

	"github.com/miekg/dns"
)

// Kind classifies a token. The declaration order is the output order of
// artifact files: IPv4 prefixes, IPv6 prefixes, domains, everything else.
type Kind int

const (
	KindIPv4 Kind = iota
	KindIPv6
	KindDomain
	KindOpaque
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindIPv4:
		return "ipv4"
	case KindIPv6:
		return "ipv6"
	case KindDomain:
		return "domain"
	default:
		return "opaque"
	}
}

// ErrEmptyToken is returned for empty or whitespace-only input.
var ErrEmptyToken = errors.New("empty token")

// Token is one normalized list entry. Tokens are immutable values;
// two tokens are duplicates iff their canonical forms are equal.
type Token struct {
	Canonical string
	Kind      Kind

	prefix netip.Prefix
}

// Canonicalize normalizes a raw entry. IP addresses and networks are
// re-emitted in their compressed textual form with an explicit prefix
// length (a bare address becomes a /32 or /128), hostname-shaped
// entries are lowercased with any trailing dot removed, and anything
// else passes through unchanged as opaque so that unexpected upstream
// data stays visible in the output instead of being dropped. Only
// empty input is an error.
func Canonicalize(raw string) (Token, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Token{}, ErrEmptyToken
	}

	if prefix, err := netip.ParsePrefix(trimmed); err == nil {
		return fromPrefix(prefix), nil
	}
	if addr, err := netip.ParseAddr(trimmed); err == nil {
		addr = addr.Unmap().WithZone("")
		return fromPrefix(netip.PrefixFrom(addr, addr.BitLen())), nil
	}
	if name, ok := normalizeDomain(trimmed); ok {
		return Token{Canonical: name, Kind: KindDomain}, nil
	}
	return Token{Canonical: trimmed, Kind: KindOpaque}, nil
}

// Compare orders tokens for artifact output: kinds in declaration
// order, IP prefixes by network address then prefix length, domains
// and opaque entries lexicographically.
func Compare(a, b Token) int {
	if a.Kind != b.Kind {
		return int(a.Kind) - int(b.Kind)
	}
	switch a.Kind {
	case KindIPv4, KindIPv6:
		if c := a.prefix.Addr().Compare(b.prefix.Addr()); c != 0 {
			return c
		}
		return a.prefix.Bits() - b.prefix.Bits()
	default:
		return strings.Compare(a.Canonical, b.Canonical)
	}
}

func fromPrefix(prefix netip.Prefix) Token {
	masked := prefix.Masked()
	kind := KindIPv6
	if masked.Addr().Is4() {
		kind = KindIPv4
	}
	return Token{Canonical: masked.String(), Kind: kind, prefix: masked}
}

func normalizeDomain(raw string) (string, bool) {
	if strings.ContainsAny(raw, " \t") {
		return "", false
	}
	if strings.Contains(raw, "/") || strings.Contains(raw, ":") {
		return "", false
	}
	name := strings.ToLower(strings.TrimSuffix(raw, "."))
	if name == "" || !strings.Contains(name, ".") {
		return "", false
	}
	if _, ok := dns.IsDomainName(name); !ok {
		return "", false
	}
	return name, true
}
