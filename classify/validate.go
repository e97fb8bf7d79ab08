package classify

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sirupsen/logrus"
)

//go:embed record.schema.json
var recordSchema []byte

const schemaURL = "record.schema.json"

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(recordSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// Invalid is a record that failed validation.
type Invalid struct {
	Path   string
	Reason string
}

// Validate checks each record and splits them into valid paths and invalid
// ones with the first violation found.
func (c *Classifier) Validate(paths []string) (valid []string, invalid []Invalid) {
	for _, path := range paths {
		reason, ok := c.check(path)
		if ok {
			valid = append(valid, path)
			continue
		}
		c.log.WithFields(logrus.Fields{"path": path, "reason": reason}).Info("record is incorrect")
		invalid = append(invalid, Invalid{Path: path, Reason: reason})
	}
	return valid, invalid
}

func (c *Classifier) check(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("read error: %v", err), false
	}
	if reason, ok := CheckRecord(data); !ok {
		return reason, false
	}
	if c.schema == nil {
		return "", true
	}

	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return "invalid JSON: " + err.Error(), false
	}
	if err := c.schema.Validate(v); err != nil {
		return "schema: " + err.Error(), false
	}
	return "", true
}

// CheckRecord reports whether data is a structurally correct record and,
// if not, why. The record must be one JSON object with a questions array
// whose every element has a non-blank string answer.
func CheckRecord(data []byte) (reason string, ok bool) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return "invalid JSON: " + err.Error(), false
	}

	doc, isObject := v.(map[string]interface{})
	if !isObject {
		return "invalid document structure", false
	}

	raw, present := doc["questions"]
	if !present {
		return "missing questions section", false
	}
	questions, isArray := raw.([]interface{})
	if !isArray {
		return "questions is not an array", false
	}

	for i, q := range questions {
		n := i + 1
		question, _ := q.(map[string]interface{})
		switch answer := question["answer"].(type) {
		case nil:
			return fmt.Sprintf("question %d: empty answer", n), false
		case string:
			if strings.TrimSpace(answer) == "" {
				return fmt.Sprintf("question %d: empty answer", n), false
			}
		default:
			return fmt.Sprintf("question %d: answer is not a string", n), false
		}
	}
	return "", true
}
