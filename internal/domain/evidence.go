package domain

// BlockKind tells the view how to draw an evidence card block.
type BlockKind string

const (
	BlockField   BlockKind = "field"
	BlockText    BlockKind = "text"
	BlockList    BlockKind = "list"
	BlockCallout BlockKind = "callout"
)

// CalloutTone colours a callout block.
type CalloutTone string

const (
	CalloutInfo    CalloutTone = "info"
	CalloutWarning CalloutTone = "warning"
	CalloutDanger  CalloutTone = "danger"
)

// Block is one rendered piece of an evidence card body.
type Block struct {
	Kind  BlockKind   `json:"kind"`
	Label string      `json:"label,omitempty"`
	Text  string      `json:"text,omitempty"`
	Items []string    `json:"items,omitempty"`
	Tone  CalloutTone `json:"tone,omitempty"`
}

// Field is a "label: value" block.
func Field(label, value string) Block {
	return Block{Kind: BlockField, Label: label, Text: value}
}

// Text is a plain paragraph block.
func Text(s string) Block {
	return Block{Kind: BlockText, Text: s}
}

// List is a titled bullet list block. The title may be empty.
func List(title string, items ...string) Block {
	return Block{Kind: BlockList, Label: title, Items: items}
}

// Callout is a highlighted block with an optional bullet list.
func Callout(tone CalloutTone, label, text string, items ...string) Block {
	return Block{Kind: BlockCallout, Tone: tone, Label: label, Text: text, Items: items}
}

// EvidenceCard is presentation-ready content derived from a profile for one phase.
type EvidenceCard struct {
	ID    string  `json:"id"`
	Phase Phase   `json:"phase"`
	Title string  `json:"title"`
	Body  []Block `json:"body"`
}
