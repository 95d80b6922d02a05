package bridge

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
)

// Invocation is what a handler sees of a request.
type Invocation struct {
	Context context.Context
	Command string
	Args    gjson.Result
}

func newInvocation(ctx context.Context, req Request) (*Invocation, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	raw := req.Args
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%s: %w", req.Command, ErrInvalidArgs)
	}
	args := gjson.ParseBytes(raw)
	if !args.IsObject() {
		return nil, fmt.Errorf("%s: %w: expected an object", req.Command, ErrInvalidArgs)
	}
	return &Invocation{Context: ctx, Command: req.Command, Args: args}, nil
}

// String returns the named argument as text, or "" when absent.
func (inv *Invocation) String(key string) string {
	return inv.Args.Get(key).String()
}

func (inv *Invocation) Bool(key string) bool {
	return inv.Args.Get(key).Bool()
}

// Strings returns an array argument. Non-array values yield nil.
func (inv *Invocation) Strings(key string) []string {
	v := inv.Args.Get(key)
	if !v.IsArray() {
		return nil
	}
	var out []string
	for _, item := range v.Array() {
		out = append(out, item.String())
	}
	return out
}

// Require returns the named argument as text and fails when it is absent.
func (inv *Invocation) Require(key string) (string, error) {
	v := inv.Args.Get(key)
	if !v.Exists() {
		return "", fmt.Errorf("%s: %w %q", inv.Command, ErrMissingArg, key)
	}
	return v.String(), nil
}
