// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commander

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// ObjectTicket is the only object kind the commander acts on.
const ObjectTicket = "ticket"

// Event is a recorded object-created event:
//
//	{
//	  // comments and trailing commas are allowed
//	  "object": "ticket",
//	  "ticket": "482913",
//	  "data": {"type": "note"},
//	}
type Event struct {
	Object string         `json:"object"`
	Ticket string         `json:"ticket"`
	Data   map[string]any `json:"data"`
}

// ParseEvent decodes a JSONC event.
func ParseEvent(data []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(jsonc.ToJSON(data), &event); err != nil {
		return Event{}, fmt.Errorf("parsing event: %w", err)
	}
	if event.Object == "" {
		return Event{}, fmt.Errorf("parsing event: missing \"object\"")
	}
	if event.Object == ObjectTicket && event.Ticket == "" {
		return Event{}, fmt.Errorf("parsing event: ticket event without \"ticket\" number")
	}
	if event.Data == nil {
		event.Data = map[string]any{}
	}
	return event, nil
}
