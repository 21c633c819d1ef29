package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/guelfoweb/diga/internal/checker"
	errs "github.com/guelfoweb/diga/internal/shared/errors"
	"go.uber.org/zap"
)

// readDomainList loads one domain per line from path.
func readDomainList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputError{Source: path, Err: err}
	}
	defer f.Close()

	domains, err := parseDomainList(f)
	if err != nil {
		return nil, &InputError{Source: path, Err: err}
	}
	return domains, nil
}

// parseDomainList skips blank lines and # comments. Entries that fail
// normalization are kept verbatim so every listed domain still gets a slot.
func parseDomainList(r io.Reader) ([]string, error) {
	var domains []string
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		entry := strings.TrimSpace(scanner.Text())
		if entry == "" || strings.HasPrefix(entry, "#") {
			continue
		}

		domain, err := checker.NormalizeDomain(entry)
		if err != nil {
			if logger != nil {
				logger.Warn("keeping unnormalized domain", zap.Int("line", line), zap.String("domain", entry), zap.Error(err))
			}
			domain = entry
		}
		domains = append(domains, domain)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read domain list: %w", err)
	}
	if len(domains) == 0 {
		return nil, errs.ErrEmptyList
	}
	return domains, nil
}
