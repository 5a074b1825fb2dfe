package httpadapter

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/action.schema.json
var actionSchemaJSON string

var actionSchema = jsonschema.MustCompileString("action.schema.json", actionSchemaJSON)

var ErrInvalidJSON = errors.New("invalid json")

// checkActionShape reports whether body is a JSON object whose fields carry
// the expected types. Field presence rules beyond "type" are left to the
// validator so that rejections keep their rule names.
func checkActionShape(body []byte) error {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if err := actionSchema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return errors.New(describeSchemaError(verr))
		}
		return err
	}
	return nil
}

func describeSchemaError(verr *jsonschema.ValidationError) string {
	leaf := verr
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	loc := leaf.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("payload %s: %s", loc, leaf.Message)
}
