package cmd

import "context"

// Schema writes the schema of the host context as YAML. The result can be
// edited and passed back with --schema.
type Schema struct{}

// Run executes the schema command.
func (*Schema) Run(ctx context.Context) error {
	h := hostFrom(ctx)

	obj, err := h.Object(ctx)
	if err != nil {
		return commandError("schema", err)
	}

	s, err := h.Schema(ctx, obj)
	if err != nil {
		return commandError("schema", err)
	}

	if err := s.Encode(ctx, outputFrom(ctx)); err != nil {
		return commandError("schema", ErrWriteOutput.Wrap(err))
	}

	return nil
}
