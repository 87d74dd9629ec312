package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/NordCoder/CloudCorrect/internal/engine"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

func runEvaluate(ctx context.Context, path, rawID, format string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid group id %q: %w", rawID, err)
	}
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unknown output format %q", format)
	}

	a, err := newApp(ctx, path)
	if err != nil {
		return err
	}
	defer a.close()

	out, err := a.agg.EvaluateGroup(ctx, id)
	if err != nil {
		return err
	}
	return writeOutcome(w, out, format)
}

func writeOutcome(w io.Writer, out *engine.Outcome, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(out)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
