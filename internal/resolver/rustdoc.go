package resolver

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	serrors "git.home.luguber.info/inful/stdlinks/internal/errors"
	"git.home.luguber.info/inful/stdlinks/internal/logfields"
	"git.home.luguber.info/inful/stdlinks/internal/patterns"
	"git.home.luguber.info/inful/stdlinks/internal/workspace"
)

// DefaultBinary is the resolver binary used when no override is configured.
const DefaultBinary = "rustdoc"

// BinaryEnvVar overrides the rustdoc binary name or path.
const BinaryEnvVar = "RUSTDOC"

// Rustdoc implements Resolver by running the rustdoc binary over a generated
// stub in an isolated temporary workspace.
type Rustdoc struct {
	// Binary is the rustdoc binary name or path. The RUSTDOC environment
	// variable takes precedence; DefaultBinary is the fallback.
	Binary string

	// Edition is the Rust edition flag value, e.g. "2021".
	Edition string

	Patterns *patterns.Set
}

// NewRustdoc builds a Rustdoc resolver with the given pattern set.
func NewRustdoc(p *patterns.Set, binary, edition string) *Rustdoc {
	if edition == "" {
		edition = "2021"
	}
	return &Rustdoc{Binary: binary, Edition: edition, Patterns: p}
}

// Resolve writes the stub, runs rustdoc in a temporary workspace, and parses
// the resolved URLs back out of the generated HTML. The workspace is removed
// on every exit path.
func (r *Rustdoc) Resolve(ctx context.Context, symbols []string) ([]string, error) {
	ws := workspace.NewManager("")
	if err := ws.Create(); err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryFileSystem, serrors.SeverityFatal, "failed to create resolver workspace")
	}
	defer func() {
		if err := ws.Cleanup(); err != nil {
			slog.Warn("Failed to cleanup resolver workspace", logfields.Error(err))
		}
	}()

	stubPath := filepath.Join(ws.GetPath(), StubFileName)
	if err := os.WriteFile(stubPath, GenerateStub(symbols), 0o644); err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryFileSystem, serrors.SeverityFatal, "failed to write resolver stub").WithContext("path", stubPath)
	}

	if err := r.run(ctx, ws.GetPath()); err != nil {
		return nil, err
	}

	generated, err := os.ReadFile(filepath.Join(ws.GetPath(), GeneratedHTMLPath))
	if err != nil {
		return nil, serrors.Wrap(err, serrors.CategoryResolver, serrors.SeverityFatal, "rustdoc succeeded but produced no generated HTML").WithContext("path", GeneratedHTMLPath)
	}

	urls, err := ExtractURLs(r.Patterns, generated)
	if err != nil {
		return nil, err
	}
	if len(urls) != len(symbols) {
		return nil, serrors.ResolverError(
			fmt.Sprintf("expected rustdoc to generate %d links, but found %d", len(symbols), len(urls)))
	}
	return urls, nil
}

func (r *Rustdoc) run(ctx context.Context, dir string) error {
	binary := os.Getenv(BinaryEnvVar)
	if binary == "" {
		binary = r.Binary
	}
	if binary == "" {
		binary = DefaultBinary
	}

	cmd := exec.CommandContext(ctx, binary, "--edition="+r.Edition, StubFileName)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("Invoking resolver", slog.String("binary", binary), logfields.Path(dir))
	if err := cmd.Run(); err != nil {
		return serrors.Wrap(err, serrors.CategoryResolver, serrors.SeverityFatal,
			fmt.Sprintf("failed to extract std links with %s:\n%s", binary, stderr.String()))
	}
	return nil
}
