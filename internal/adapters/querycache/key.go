package querycache

import (
	"fmt"

	"github.com/mitchellh/hashstructure/v2"
)

type keyArgs struct {
	Query map[string]string
	Body  any
}

// Key derives the cache key of req: "METHOD path", followed by a hash of the
// query and body when either is present. Map ordering does not affect it.
func Key(req Request) (string, error) {
	base := req.Method + " " + req.Path
	if len(req.Query) == 0 && req.Body == nil {
		return base, nil
	}
	h, err := hashstructure.Hash(keyArgs{Query: req.Query, Body: req.Body}, hashstructure.FormatV2, nil)
	if err != nil {
		return "", fmt.Errorf("hash arguments of %s: %w", base, err)
	}
	return fmt.Sprintf("%s?%016x", base, h), nil
}
