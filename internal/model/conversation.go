// Package model holds the data types shared by the backend and the widget.
package model

import (
	"encoding/json"
	"fmt"
)

// Turn roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is one message in a conversation. Turns are never mutated after creation.
//
// On the wire a turn uses the generative-language layout
// {"role":"user","parts":[{"text":"..."}]}, which is also how stored documents look.
// A flat {"role":"user","text":"..."} is accepted on input.
type Turn struct {
	Role string
	Text string
	// Local marks a turn that was produced without the remote assistant (fallback or
	// apology). Local turns are shown to the user but never persisted or forwarded.
	Local bool
}

// History is an ordered conversation, oldest turn first.
type History []Turn

type turnPart struct {
	Text string `json:"text"`
}

type turnWire struct {
	Role  string     `json:"role"`
	Parts []turnPart `json:"parts,omitempty"`
	Text  string     `json:"text,omitempty"`
}

// UserTurn builds a turn spoken by the user.
func UserTurn(text string) Turn { return Turn{Role: RoleUser, Text: text} }

// ModelTurn builds a turn spoken by the assistant.
func ModelTurn(text string) Turn { return Turn{Role: RoleModel, Text: text} }

// IsUser reports whether the turn was written by the user.
func (t Turn) IsUser() bool { return t.Role == RoleUser }

// MarshalJSON implements json.Marshaler.
func (t Turn) MarshalJSON() ([]byte, error) {
	return json.Marshal(turnWire{Role: t.Role, Parts: []turnPart{{Text: t.Text}}})
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Turn) UnmarshalJSON(data []byte) error {
	var w turnWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	role := w.Role
	if role == "assistant" {
		role = RoleModel
	}
	if role != RoleUser && role != RoleModel {
		return fmt.Errorf("unknown turn role %q", w.Role)
	}
	text := w.Text
	if len(w.Parts) > 0 {
		text = ""
		for _, p := range w.Parts {
			text += p.Text
		}
	}
	*t = Turn{Role: role, Text: text}
	return nil
}

// Persistable returns the turns that may be stored or sent upstream, i.e. all non-local turns.
func (h History) Persistable() History {
	out := make(History, 0, len(h))
	for _, t := range h {
		if !t.Local {
			out = append(out, t)
		}
	}
	return out
}

// Tail keeps at most max turns from the end of the history. The kept window always starts
// with a user turn so a trimmed history still alternates from the user side.
// max <= 0 disables trimming.
func (h History) Tail(max int) History {
	if max <= 0 || len(h) <= max {
		return h
	}
	tail := h[len(h)-max:]
	for len(tail) > 0 && !tail[0].IsUser() {
		tail = tail[1:]
	}
	return tail
}
