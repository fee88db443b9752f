// Package resolver turns symbol paths into documentation URLs by delegating
// to rustdoc as an external oracle. Symbol scoping and versioning rules are
// never reimplemented here; rustdoc's own intra-doc link resolution is the
// single source of truth.
package resolver

import "context"

// Resolver resolves an ordered list of symbol paths into an ordered list of
// absolute documentation URLs. The output is in strict 1:1 positional
// correspondence with the input; implementations must fail rather than return
// a list of any other length.
type Resolver interface {
	Resolve(ctx context.Context, symbols []string) ([]string, error)
}
