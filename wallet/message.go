package wallet

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Kind tells how a message payload was produced
type Kind int

const (
	KindText Kind = iota
	KindBinary
)

func (k Kind) String() string {
	if k == KindBinary {
		return "binary"
	}
	return "text"
}

// Message is the payload handed to a wallet for signing
type Message struct {
	Kind    Kind
	Payload []byte
	// Schema and Values are only set for binary messages
	Schema abi.Arguments
	Values []interface{}
}

// StringMessage wraps free text
func StringMessage(s string) Message {
	return Message{Kind: KindText, Payload: []byte(s)}
}

// ParseSchema decodes a base64 JSON ABI argument list, e.g. the base64 of
// [{"name":"amount","type":"uint256"},{"name":"to","type":"address"}]
func ParseSchema(b64 string) (abi.Arguments, error) {
	b64 = strings.TrimSpace(b64)
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		// tolerate unpadded input
		var rawErr error
		if data, rawErr = base64.RawStdEncoding.DecodeString(b64); rawErr != nil {
			return nil, fmt.Errorf("schema is not base64: %w", err)
		}
	}

	var args abi.Arguments
	if err := json.Unmarshal(data, &args); err != nil {
		return nil, fmt.Errorf("schema is not an ABI argument list: %w", err)
	}
	if len(args) == 0 {
		return nil, errors.New("schema has no arguments")
	}
	return args, nil
}

// BinaryMessageFromHex decodes hex input and checks it against schema
func BinaryMessageFromHex(input string, schema abi.Arguments) (Message, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(input), "0x")
	data, err := hex.DecodeString(raw)
	if err != nil {
		return Message{}, fmt.Errorf("message is not hex: %w", err)
	}

	values, err := schema.Unpack(data)
	if err != nil {
		return Message{}, fmt.Errorf("message does not match schema: %w", err)
	}

	return Message{Kind: KindBinary, Payload: data, Schema: schema, Values: values}, nil
}

// BuildMessage turns user input into a Message. Without a schema the input is
// signed as text; with one it must be hex encoding matching the schema.
func BuildMessage(input, schemaB64 string) (Message, error) {
	if input == "" {
		return Message{}, ErrEmptyMessage
	}
	if strings.TrimSpace(schemaB64) == "" {
		return StringMessage(input), nil
	}

	schema, err := ParseSchema(schemaB64)
	if err != nil {
		return Message{}, err
	}
	return BinaryMessageFromHex(input, schema)
}

// Describe renders decoded binary values as name=value pairs
func (m Message) Describe() string {
	if m.Kind != KindBinary {
		return string(m.Payload)
	}
	parts := make([]string, 0, len(m.Values))
	for i, v := range m.Values {
		name := fmt.Sprintf("arg%d", i)
		if i < len(m.Schema) && m.Schema[i].Name != "" {
			name = m.Schema[i].Name
		}
		parts = append(parts, fmt.Sprintf("%s=%v", name, v))
	}
	return strings.Join(parts, " ")
}
