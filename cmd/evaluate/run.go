package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/rgmining/amazon-dataset/internal/util"
	"github.com/rgmining/amazon-dataset/pkg/algo"
	"github.com/rgmining/amazon-dataset/pkg/amazon"
	"github.com/rgmining/amazon-dataset/pkg/logger"
	"github.com/rgmining/amazon-dataset/pkg/report"
)

type options struct {
	algorithm  string
	loop       int
	threshold  float64
	params     map[string]float64
	categories []string
}

// parseParams splits repeated "key=value" flags into a parameter map.
func parseParams(pairs []string) (map[string]float64, error) {
	params := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("malformed parameter %q, expected key=value", pair)
		}
		number, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse parameter %q: %w", pair, err)
		}
		params[key] = number
	}
	return params, nil
}

// run loads the dataset into the graph of the requested algorithm and
// iterates it, writing a report after every iteration and a terminal one
// tagged report.Final. An interrupt stops the loop quietly without the
// terminal report.
func run(ctx context.Context, out io.Writer, opts options) error {
	names := algo.Names()
	if len(names) == 0 {
		return errors.New("no algorithms registered")
	}
	a, ok := algo.Lookup(opts.algorithm)
	if !ok {
		return fmt.Errorf("unknown algorithm '%s', registered algorithms: %s",
			opts.algorithm, strings.Join(names, ", "))
	}

	g, err := a.New(opts.params)
	if err != nil {
		return fmt.Errorf("failed to create graph for %s: %w", a.Name, err)
	}
	if err := amazon.Load(ctx, g, opts.categories...); err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	if err := report.Write(out, g, 0); err != nil {
		return err
	}

	loop := opts.loop
	if a.OneShot {
		loop = 1
	}

	runID := util.NewRunID()
	logger.Info("Start iterations", "run", runID, "algorithm", a.Name, "loop", loop)
	for i := 0; i < loop; i++ {
		if ctx.Err() != nil {
			return nil
		}

		delta, converging := g.Update()
		if converging && delta < opts.threshold {
			break
		}

		var deltaVal any = "none"
		if converging {
			deltaVal = delta
		}
		logger.Info("Iteration ends", "run", runID, "iteration", i+1, "delta", deltaVal)
		if err := report.Write(out, g, i+1); err != nil {
			return err
		}
	}
	if ctx.Err() != nil {
		return nil
	}

	return report.Write(out, g, report.Final)
}

// writeSchema prints the JSON Schemas of both report record types for
// consumers of the NDJSON stream.
func writeSchema(w io.Writer) error {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}
	doc := map[string]any{
		"reviewer": reflector.Reflect(&report.ReviewerRecord{}),
		"product":  reflector.Reflect(&report.ProductRecord{}),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write report schema: %w", err)
	}
	return nil
}
