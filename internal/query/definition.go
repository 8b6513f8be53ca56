package query

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

const (
	// DefaultDefinitionFile is read from the working directory unless another path is given.
	DefaultDefinitionFile = "query.json"
)

// Definition is the request body of a query submission. Its content is
// authored outside of this program and never interpreted.
type Definition []byte

// LoadDefinition reads the query definition at path. A JSON document is
// kept byte for byte; anything else is parsed as YAML and converted to JSON.
// The document must be an object.
func LoadDefinition(path string) (Definition, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, NewErrInvalidDefinition(path, err)
	}

	content = bytes.TrimSpace(content)
	if len(content) == 0 {
		return nil, NewErrInvalidDefinition(path, errors.New("file is empty"))
	}

	if !json.Valid(content) {
		converted, err := yaml.YAMLToJSON(content)
		if err != nil {
			return nil, NewErrInvalidDefinition(path, err)
		}
		content = converted
	}

	if content[0] != '{' {
		return nil, NewErrInvalidDefinition(path, fmt.Errorf("expected an object, got %q", firstToken(content)))
	}

	return Definition(content), nil
}

func firstToken(content []byte) string {
	if len(content) > 16 {
		return string(content[:16]) + "..."
	}
	return string(content)
}
