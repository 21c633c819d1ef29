package checker

import (
	"context"
	"fmt"
	"net"
	"time"

	consts "github.com/guelfoweb/diga/internal/shared/constants"
	errs "github.com/guelfoweb/diga/internal/shared/errors"
	"github.com/miekg/dns"
)

// DNSResolver performs A record lookups against a single nameserver.
type DNSResolver struct {
	Nameserver string
	Timeout    time.Duration
}

// Resolve returns the A records of domain in the order the nameserver sent
// them. Any failure, including an empty answer, wraps ErrDNSFailure.
func (d *DNSResolver) Resolve(ctx context.Context, domain string) ([]string, error) {
	server := nameserverAddr(d.Nameserver)

	// Timeout bounds the whole query, TCP fallback included
	lookupCtx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	query := new(dns.Msg)
	query.SetQuestion(dns.Fqdn(domain), dns.TypeA)

	client := &dns.Client{Net: "udp", Timeout: d.Timeout}
	resp, _, err := client.ExchangeContext(lookupCtx, query, server)
	if err == nil && resp.Truncated {
		tcpClient := &dns.Client{Net: "tcp", Timeout: d.Timeout}
		resp, _, err = tcpClient.ExchangeContext(lookupCtx, query, server)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", errs.ErrDNSFailure, server, err)
	}

	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("%w: %s", errs.ErrDNSFailure, dns.RcodeToString[resp.Rcode])
	}

	addrs := make([]string, 0, len(resp.Answer))
	for _, rr := range resp.Answer {
		if a, ok := rr.(*dns.A); ok {
			addrs = append(addrs, a.A.String())
		}
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w: no A records found", errs.ErrDNSFailure)
	}

	return addrs, nil
}

// nameserverAddr appends the DNS port when the nameserver has none.
func nameserverAddr(nameserver string) string {
	if nameserver == "" {
		nameserver = consts.DefaultNameserver
	}
	if _, _, err := net.SplitHostPort(nameserver); err == nil {
		return nameserver
	}
	return net.JoinHostPort(nameserver, consts.DNSPort)
}
