package parser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/OCAP2/acmi/internal/archive"
	"github.com/OCAP2/acmi/internal/logging"
	"github.com/OCAP2/acmi/internal/reader"
	"github.com/OCAP2/acmi/pkg/core"
)

// Result is one recording parsed from a file, named after its archive entry.
type Result struct {
	Source    string
	Recording *core.Recording
}

// ParseFile parses a plain or zipped ACMI file. Every archive entry is parsed
// as its own recording; the first failure aborts the whole file.
func (p *Parser) ParseFile(ctx context.Context, path string) ([]Result, error) {
	a, err := archive.Open(path)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	results := make([]Result, 0, len(a.Sources))
	for _, src := range a.Sources {
		rec, err := p.parseSource(logging.WithAttrs(ctx, slog.String("source", src.Name)), src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Name, err)
		}
		results = append(results, Result{Source: src.Name, Recording: rec})
	}
	return results, nil
}

func (p *Parser) parseSource(ctx context.Context, src archive.Source) (*core.Recording, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening source: %w", err)
	}
	defer rc.Close()

	p.logger.InfoContext(ctx, "Parsing ACMI recording")
	return p.Parse(ctx, reader.NewDecoder(rc))
}
