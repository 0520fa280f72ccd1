package spec

const workflowSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "name", "states"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "name": {"type": "string", "minLength": 1},
    "version": {"type": "string"},
    "description": {"type": "string"},
    "start": {
      "oneOf": [
        {"type": "string"},
        {
          "type": "object",
          "properties": {
            "stateName": {"type": "string"},
            "schedule": {
              "type": "object",
              "required": ["cron"],
              "properties": {"cron": {"type": "string", "minLength": 1}}
            }
          }
        }
      ]
    },
    "functions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "operation": {"type": "string"},
          "type": {"enum": ["rest", "expression", "script", "human", "rule", "decision"]},
          "metadata": {"type": "object", "additionalProperties": {"type": "string"}}
        }
      }
    },
    "events": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "source": {"type": "string"},
          "type": {"type": "string"},
          "kind": {"enum": ["consumed", "produced"]}
        }
      }
    },
    "states": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "type"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "type": {"enum": ["inject", "operation", "event", "switch", "delay", "parallel", "subflow"]},
          "transition": {"type": "string"},
          "end": {"oneOf": [{"type": "boolean"}, {"type": "object"}]}
        }
      }
    },
    "metadata": {"type": "object", "additionalProperties": {"type": "string"}}
  }
}`
