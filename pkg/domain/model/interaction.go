package model

// Interaction is the result of checking a new medication against an existing one
type Interaction struct {
	Existing string `json:"existing"`
	New      string `json:"new"`
	Safe     bool   `json:"safe"`
	Reason   string `json:"reason,omitempty"`
}
