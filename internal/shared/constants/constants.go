package constants

import "time"

const (
	// DefaultNameserver is queried when no --dns override is given.
	DefaultNameserver = "8.8.8.8"
	// DNSPort is appended to nameservers given without an explicit port.
	DNSPort = "53"
	// DefaultTimeout bounds every individual network call.
	DefaultTimeout = 500 * time.Millisecond
	// DefaultConcurrency is the worker pool width used for domain lists.
	DefaultConcurrency = 10
	// HTTPSPort is where certificates are fetched from.
	HTTPSPort = "443"
	// ISODate is the layout used for certificate expiry dates.
	ISODate = "2006-01-02"
)

// UserAgents is the pool a user agent is drawn from when none is configured.
var UserAgents = []string{
	"Mozilla/5.0 (Windows NT 6.1; WOW64; rv:33.0) Gecko/20120101 Firefox/33.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_10; rv:33.0) Gecko/20100101 Firefox/33.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_9_3) AppleWebKit/537.75.14 (KHTML, like Gecko) Version/7.0.3 Safari/7046A194A",
	"Mozilla/5.0 (MSIE 10.0; Windows NT 6.1; Trident/5.0)",
}
