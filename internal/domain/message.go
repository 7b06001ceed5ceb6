package domain

import (
	"encoding/json"
	"fmt"
)

// Severity grades an advisor message.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// CognitionBlock explains how the advisor reached a message.
type CognitionBlock struct {
	SignalsObserved   []string `json:"signals_observed" yaml:"signals_observed"`
	DataUsed          []string `json:"data_used" yaml:"data_used"`
	LensApplied       string   `json:"lens_applied" yaml:"lens_applied"`
	Conclusion        string   `json:"conclusion" yaml:"conclusion"`
	ConfidenceCaveats string   `json:"confidence_caveats,omitempty" yaml:"confidence_caveats"`
}

// Message is either an *AdvisorMessage or a *UserMessage.
type Message interface {
	MessageID() string
	messageKind() MessageKind
}

// MessageKind is the JSON discriminator of a Message.
type MessageKind string

const (
	KindAdvisor MessageKind = "advisor"
	KindUser    MessageKind = "user"
)

// AdvisorMessage carries both tone variants of the advisor's text.
type AdvisorMessage struct {
	ID        string          `json:"id" yaml:"id"`
	Friendly  string          `json:"friendly" yaml:"friendly"`
	Direct    string          `json:"direct" yaml:"direct"`
	Severity  Severity        `json:"severity,omitempty" yaml:"severity,omitempty"`
	Cognition *CognitionBlock `json:"cognition,omitempty" yaml:"cognition,omitempty"`
	FollowUps []string        `json:"follow_ups,omitempty" yaml:"follow_ups,omitempty"`
}

func (m *AdvisorMessage) MessageID() string        { return m.ID }
func (m *AdvisorMessage) messageKind() MessageKind { return KindAdvisor }

// Text returns the body written in tone t.
func (m *AdvisorMessage) Text(t Tone) string {
	if t == ToneDirect {
		return m.Direct
	}
	return m.Friendly
}

// UserMessage is a scripted line spoken by the persona.
type UserMessage struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

func (m *UserMessage) MessageID() string        { return m.ID }
func (m *UserMessage) messageKind() MessageKind { return KindUser }

type messageEnvelope struct {
	Type MessageKind     `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Transcript is an ordered list of messages with a tagged JSON encoding.
type Transcript []Message

// MarshalJSON encodes each message as {"type": ..., "data": ...}.
func (t Transcript) MarshalJSON() ([]byte, error) {
	out := make([]messageEnvelope, 0, len(t))
	for _, m := range t {
		data, err := json.Marshal(m)
		if err != nil {
			return nil, err
		}
		out = append(out, messageEnvelope{Type: m.messageKind(), Data: data})
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the tagged form produced by MarshalJSON.
func (t *Transcript) UnmarshalJSON(b []byte) error {
	var envs []messageEnvelope
	if err := json.Unmarshal(b, &envs); err != nil {
		return err
	}
	out := make(Transcript, 0, len(envs))
	for _, env := range envs {
		switch env.Type {
		case KindAdvisor:
			var m AdvisorMessage
			if err := json.Unmarshal(env.Data, &m); err != nil {
				return err
			}
			out = append(out, &m)
		case KindUser:
			var m UserMessage
			if err := json.Unmarshal(env.Data, &m); err != nil {
				return err
			}
			out = append(out, &m)
		default:
			return fmt.Errorf("unknown message type %q", env.Type)
		}
	}
	*t = out
	return nil
}

// RenderedMessage is a message with its text resolved for one tone.
type RenderedMessage struct {
	Type      MessageKind     `json:"type"`
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	Severity  Severity        `json:"severity,omitempty"`
	Cognition *CognitionBlock `json:"cognition,omitempty"`
	FollowUps []string        `json:"follow_ups,omitempty"`
}

// Render resolves a message for display in tone t.
func Render(m Message, t Tone) RenderedMessage {
	switch m := m.(type) {
	case *AdvisorMessage:
		return RenderedMessage{
			Type:      KindAdvisor,
			ID:        m.ID,
			Text:      m.Text(t),
			Severity:  m.Severity,
			Cognition: m.Cognition,
			FollowUps: m.FollowUps,
		}
	case *UserMessage:
		return RenderedMessage{Type: KindUser, ID: m.ID, Text: m.Text}
	default:
		panic(fmt.Sprintf("domain: unhandled message type %T", m))
	}
}

// RenderAll resolves every message of a transcript in tone t.
func RenderAll(msgs Transcript, t Tone) []RenderedMessage {
	out := make([]RenderedMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, Render(m, t))
	}
	return out
}
