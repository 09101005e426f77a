package trust

import "fmt"

// EchoIntensity is how vividly a stored callback to a past player choice
// renders. Higher trust recalls more detail.
type EchoIntensity string

const (
	EchoFaded     EchoIntensity = "faded"
	EchoHazy      EchoIntensity = "hazy"
	EchoClear     EchoIntensity = "clear"
	EchoVivid     EchoIntensity = "vivid"
	EchoIndelible EchoIntensity = "indelible"
)

// echoRank orders intensities for monotonicity checks and formatting.
var echoRank = map[EchoIntensity]int{
	EchoFaded:     0,
	EchoHazy:      1,
	EchoClear:     2,
	EchoVivid:     3,
	EchoIndelible: 4,
}

// Rank returns the ordinal position of an intensity, faded = 0.
func (e EchoIntensity) Rank() int {
	return echoRank[e]
}

// EchoIntensityForTrust buckets the 0-10 trust range into five intensities.
func EchoIntensityForTrust(trust int) EchoIntensity {
	switch {
	case trust >= 9:
		return EchoIndelible
	case trust >= 7:
		return EchoVivid
	case trust >= 4:
		return EchoClear
	case trust >= 2:
		return EchoHazy
	default:
		return EchoFaded
	}
}

// Echo is a remembered player moment a character can call back to.
type Echo struct {
	CharacterID string `json:"character_id"`
	NodeID      string `json:"node_id"`
	Moment      string `json:"moment"`  // short clause, e.g. "you stayed while the train left"
	Feeling     string `json:"feeling"` // e.g. "steadiness"
}

// FormatEchoByIntensity renders an echo with detail proportional to intensity.
// Each step up adds text rather than substituting, so higher intensities are
// strictly longer.
func FormatEchoByIntensity(e Echo, intensity EchoIntensity) string {
	switch intensity {
	case EchoIndelible:
		return fmt.Sprintf("They remember everything: %s. The %s of it has never left them, and they tell you so, word for word, like it happened this morning.", e.Moment, e.Feeling)
	case EchoVivid:
		return fmt.Sprintf("They remember it clearly: %s. The %s of that moment still colors how they talk to you.", e.Moment, e.Feeling)
	case EchoClear:
		return fmt.Sprintf("They remember that %s, and something like %s crosses their face.", e.Moment, e.Feeling)
	case EchoHazy:
		return fmt.Sprintf("They half-remember something... %s, maybe.", e.Moment)
	default:
		return "They pause, as if trying to place you."
	}
}
