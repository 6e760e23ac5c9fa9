package mux

import (
	"regexp"
	"sync"
)

// regexpCache holds compiled expressions keyed by source. Rebuilding the
// route table from cache recompiles every pattern, so identical sources
// are shared across rebuilds instead of compiled again.
var regexpCache sync.Map // map[string]*regexp.Regexp

// compileRegexp returns the shared *regexp.Regexp for pattern, compiling it
// on first use.
func compileRegexp(pattern string) (*regexp.Regexp, error) {
	if v, ok := regexpCache.Load(pattern); ok {
		return v.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	actual, _ := regexpCache.LoadOrStore(pattern, re)
	return actual.(*regexp.Regexp), nil
}
