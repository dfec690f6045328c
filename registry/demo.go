package registry

import (
	"bytes"
	"context"
	_ "embed"
)

//go:embed demo.yaml
var demoDocument []byte

// Demo returns the built-in demonstration registry: plain features n, m
// and o, and indexed feature p. Its expressions read token sequences with
// "word" and "tag" fields.
func Demo() *Table {
	t, err := Load(context.Background(), bytes.NewReader(demoDocument))
	if err != nil {
		panic(err)
	}

	return t
}
