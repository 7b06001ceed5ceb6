package domain

// PersonaID identifies one of the fixed personas.
type PersonaID string

// ScenarioID identifies a scenario from the scenario library.
type ScenarioID string

const (
	ScenarioFreedom       ScenarioID = "freedom"
	ScenarioConcentration ScenarioID = "concentration"
	ScenarioLiquidity     ScenarioID = "liquidity"
	ScenarioAudit         ScenarioID = "audit"
)

// Tone selects one of the two canned writing styles.
type Tone string

const (
	ToneFriendly Tone = "friendly"
	ToneDirect   Tone = "direct"
)

// Valid reports whether t is a known tone.
func (t Tone) Valid() bool {
	return t == ToneFriendly || t == ToneDirect
}

// Persona wraps an account profile with its display metadata.
type Persona struct {
	ID                  PersonaID      `json:"id" yaml:"id"`
	Name                string         `json:"name" yaml:"name"`
	DescriptionFriendly string         `json:"description_friendly" yaml:"description_friendly"`
	DescriptionDirect   string         `json:"description_direct" yaml:"description_direct"`
	DefaultTone         Tone           `json:"default_tone" yaml:"default_tone"`
	DefaultScenario     ScenarioID     `json:"default_scenario" yaml:"default_scenario"`
	Profile             AccountProfile `json:"profile" yaml:"profile"`
	Personality         Personality    `json:"personality" yaml:"personality"`
}

// Personality is the behavioural portrait shown on the profile page.
type Personality struct {
	Archetype          string   `json:"archetype" yaml:"archetype"`
	CorePersonality    string   `json:"core_personality" yaml:"core_personality"`
	MoneyStory         string   `json:"money_story" yaml:"money_story"`
	HowYouTalk         []string `json:"how_you_talk" yaml:"how_you_talk"`
	DefaultBeliefs     []string `json:"default_beliefs" yaml:"default_beliefs"`
	BehavioralPatterns []string `json:"behavioral_patterns" yaml:"behavioral_patterns"`
	Strengths          []string `json:"strengths" yaml:"strengths"`
	FailureModes       []string `json:"failure_modes" yaml:"failure_modes"`
	AdvisorMust        []string `json:"advisor_must" yaml:"advisor_must"`
	Stress             Stress   `json:"stress" yaml:"stress"`
	Habits             []string `json:"habits" yaml:"habits"`
	SpendingInvesting  []string `json:"spending_investing" yaml:"spending_investing"`
	Communication      []string `json:"communication" yaml:"communication"`
}

// Stress describes how a persona reacts under pressure and what the advisor does about it.
type Stress struct {
	Trigger         string   `json:"trigger" yaml:"trigger"`
	TypicalReaction string   `json:"typical_reaction" yaml:"typical_reaction"`
	BadImpulse      string   `json:"bad_impulse" yaml:"bad_impulse"`
	Countermeasure  string   `json:"countermeasure" yaml:"countermeasure"`
	Behavior        []string `json:"behavior" yaml:"behavior"`
	Recovery        string   `json:"recovery" yaml:"recovery"`
}

// Description returns the description written in the given tone.
func (p *Persona) Description(t Tone) string {
	if t == ToneDirect {
		return p.DescriptionDirect
	}
	return p.DescriptionFriendly
}

// Scenario is an entry of the scenario library.
type Scenario struct {
	ID          ScenarioID `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
}
