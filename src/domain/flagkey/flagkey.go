// Package flagkey derives the storage key of a flag from its owner, app and name.
//
// Each component is escaped with url.QueryEscape and the results are joined with ':'.
// Escaping turns every ':' and '%' inside a component into "%3A" and "%25", so the
// separator only ever appears between components and the key can be split back into
// exactly the triple it was built from. Components are taken literally: no case folding
// and no whitespace trimming.
package flagkey

import (
	"fmt"
	"net/url"
	"strings"

	"gitlab.com/devpro_studio/Flargd/src/model/apperr"
)

const separator = ":"

// Validate rejects empty components. Callers run it before Build.
func Validate(owner, app, name string) error {
	switch {
	case owner == "":
		return fmt.Errorf("%w: owner is required", apperr.ErrInvalidInput)
	case app == "":
		return fmt.Errorf("%w: app is required", apperr.ErrInvalidInput)
	case name == "":
		return fmt.Errorf("%w: flag name is required", apperr.ErrInvalidInput)
	}

	return nil
}

func Build(owner, app, name string) string {
	return url.QueryEscape(owner) + separator + url.QueryEscape(app) + separator + url.QueryEscape(name)
}

// Parse is the inverse of Build.
func Parse(key string) (owner, app, name string, err error) {
	parts := strings.Split(key, separator)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("%w: malformed flag key %q", apperr.ErrInvalidInput, key)
	}

	out := make([]string, 3)
	for i, p := range parts {
		out[i], err = url.QueryUnescape(p)
		if err != nil {
			return "", "", "", fmt.Errorf("%w: malformed flag key %q: %w", apperr.ErrInvalidInput, key, err)
		}
	}

	return out[0], out[1], out[2], nil
}
