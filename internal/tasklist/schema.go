package tasklist

import (
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Makepad-fr/tada/internal/model"
)

const tasksSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "text", "completed"],
    "properties": {
      "id": {"type": "integer"},
      "text": {"type": "string"},
      "completed": {"type": "boolean"},
      "createdAt": {"type": "string"}
    }
  }
}`

var compiledTasksSchema = jsonschema.MustCompileString("tada://tasks.schema.json", tasksSchema)

// decodeTasks parses and validates a stored blob.
func decodeTasks(raw string) ([]model.Task, error) {
	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("parse stored tasks: %w", err)
	}
	if err := compiledTasksSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate stored tasks: %w", err)
	}
	var tasks []model.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("decode stored tasks: %w", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}
