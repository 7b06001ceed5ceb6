package domain

import "time"

// StorageNamespace is the key under which a device's durable session fields are kept.
const StorageNamespace = "fula-storage"

// SessionRecord is the persisted part of a device's session: the selections
// that survive a reload. Derived content is never stored.
type SessionRecord struct {
	DeviceID  string     `json:"device_id"`
	Namespace string     `json:"namespace"`
	PersonaID PersonaID  `json:"persona_id"`
	Scenario  ScenarioID `json:"scenario_id"`
	Tone      Tone       `json:"tone"`
	Phase     Phase      `json:"current_phase"`
	Goals     []string   `json:"goals"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
