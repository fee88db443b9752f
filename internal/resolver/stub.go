package resolver

import (
	"fmt"
	"strings"
)

// StubFileName is the synthetic source file rustdoc is pointed at.
const StubFileName = "a.rs"

// GeneratedHTMLPath is where rustdoc writes the rendered documentation for
// the stub, relative to the working directory.
const GeneratedHTMLPath = "doc/a/index.html"

// GenerateStub builds the synthetic Rust source driving rustdoc.
//
// Each symbol becomes one doc-comment line wrapping the symbol in rustdoc's
// own intra-doc link syntax, so scoping and versioning rules are applied
// exactly as they would be in real source. Broken references are promoted to
// hard errors so an unresolvable symbol fails the whole run; the redundancy
// lint is suppressed because explicit links to in-scope items (like
// `[Option](std::option::Option)`) are fine in book prose.
func GenerateStub(symbols []string) []byte {
	var b strings.Builder
	b.WriteString("#![deny(rustdoc::broken_intra_doc_links)]\n")
	b.WriteString("#![allow(rustdoc::redundant_explicit_links)]\n")
	// A list makes it easy to pull the links back out of the generated HTML.
	for _, s := range symbols {
		fmt.Fprintf(&b, "//! - LINK: [%s]\n", s)
	}
	// Put some common things into scope so that links to them work.
	b.WriteString("extern crate alloc;\nextern crate proc_macro;\nextern crate test;\n\n")
	return []byte(b.String())
}
