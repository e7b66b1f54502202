package core

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultIgnorePatterns keep obvious credentials out of the history.
var DefaultIgnorePatterns = []string{"password=", "token=", "apikey=", "secret=", "authorization: bearer"}

// PrivacyFilter decides whether captured text must stay out of the history.
// Patterns are case-insensitive substrings, or regular expressions when the
// filter is built with useRegex.
type PrivacyFilter struct {
	substrings []string
	regexps    []*regexp.Regexp
}

func NewPrivacyFilter(patterns []string, useRegex bool) (*PrivacyFilter, error) {
	pf := &PrivacyFilter{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !useRegex {
			pf.substrings = append(pf.substrings, strings.ToLower(p))
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("privacy: pattern %q: %w", p, err)
		}
		pf.regexps = append(pf.regexps, re)
	}
	return pf, nil
}

// ShouldIgnore reports whether content is blank or matches any pattern.
// A nil filter ignores blank content only.
func (pf *PrivacyFilter) ShouldIgnore(content string) bool {
	s := strings.TrimSpace(content)
	if s == "" {
		return true
	}
	if pf == nil {
		return false
	}
	for _, re := range pf.regexps {
		if re.MatchString(s) {
			return true
		}
	}
	low := strings.ToLower(s)
	for _, p := range pf.substrings {
		if strings.Contains(low, p) {
			return true
		}
	}
	return false
}
