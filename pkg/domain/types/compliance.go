package types

import "fmt"

// Compliance is the verification outcome attached to a medication log
type Compliance string

const (
	ComplianceCorrect   Compliance = "correct"
	ComplianceIncorrect Compliance = "incorrect"
	ComplianceWarning   Compliance = "warning"
)

// AllCompliances returns all valid compliance classifications
func AllCompliances() []Compliance {
	return []Compliance{
		ComplianceCorrect,
		ComplianceIncorrect,
		ComplianceWarning,
	}
}

// IsValid checks if the compliance classification is valid
func (c Compliance) IsValid() bool {
	switch c {
	case ComplianceCorrect,
		ComplianceIncorrect,
		ComplianceWarning:
		return true
	default:
		return false
	}
}

// Label returns the badge text shown next to a log entry
func (c Compliance) Label() string {
	switch c {
	case ComplianceCorrect:
		return "Verified"
	case ComplianceWarning:
		return "Warning"
	case ComplianceIncorrect:
		return "Error"
	default:
		return "Unknown"
	}
}

// String returns the string representation of the compliance classification
func (c Compliance) String() string {
	return string(c)
}

// ParseCompliance parses a string into a Compliance
func ParseCompliance(s string) (Compliance, error) {
	c := Compliance(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid compliance: %s", s)
	}
	return c, nil
}
