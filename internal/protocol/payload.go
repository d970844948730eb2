package protocol

import (
	"encoding/json"
	"fmt"
)

// CommandChatMessage is the sole command carried over the bridge.
const CommandChatMessage = "chatMessage"

// ChatPayload is the two-field request payload. Arg1 is the raw user text;
// Arg2 is the literal text of the last fenced code block from the most
// recent reply, or "" when no reply exists yet.
type ChatPayload struct {
	Arg1 string `json:"arg1"`
	Arg2 string `json:"arg2"`
}

// EncodeChatPayload marshals a chat payload for a bridge call.
func EncodeChatPayload(userText, priorCode string) ([]byte, error) {
	data, err := json.Marshal(ChatPayload{Arg1: userText, Arg2: priorCode})
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat payload: %w", err)
	}
	return data, nil
}

// DecodeChatPayload unmarshals a chat payload on the host side of the bridge.
func DecodeChatPayload(data []byte) (ChatPayload, error) {
	var p ChatPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return ChatPayload{}, fmt.Errorf("failed to decode chat payload: %w", err)
	}
	return p, nil
}
