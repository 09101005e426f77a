// Package trust derives secondary signals (voice tone, echo intensity,
// asymmetry, momentum, inheritance) from raw per-character trust values. All
// functions are pure; the evaluator and presentation layers share them.
package trust

// Trust thresholds for relationship-gated behavior. Aligned with the pattern
// unlock tiers so authors only reason about one scale.
const (
	ThresholdFriendly = 3
	ThresholdTrusted  = 6
	ThresholdBonded   = 9
)

// VoiceTone is how forcefully a character's inner voice comes through at the
// player's current trust level.
type VoiceTone string

const (
	ToneWhisper VoiceTone = "whisper"
	ToneSpeak   VoiceTone = "speak"
	ToneUrge    VoiceTone = "urge"
	ToneCommand VoiceTone = "command"
)

// VoiceToneForTrust is a monotonic step function over the trust range.
func VoiceToneForTrust(trust int) VoiceTone {
	switch {
	case trust >= ThresholdBonded:
		return ToneCommand
	case trust >= ThresholdTrusted:
		return ToneUrge
	case trust >= ThresholdFriendly:
		return ToneSpeak
	default:
		return ToneWhisper
	}
}
