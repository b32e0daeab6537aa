package domain

import "strings"

// IntentKind labels the outcome of interpreting one utterance.
type IntentKind string

const (
	// IntentUnrecognized means the transcript matched no trigger; the
	// caller should present guidance text rather than an error.
	IntentUnrecognized IntentKind = "unrecognized"
	// IntentRecordHazard carries a description to record.
	IntentRecordHazard IntentKind = "record_hazard"
	// IntentRequestDelete signals a delete wish; authorization and the
	// deletion itself happen in the store layer, not here.
	IntentRequestDelete IntentKind = "request_delete"
)

// Intent is the result of interpreting a single recognized utterance.
type Intent struct {
	Kind        IntentKind
	Description string // set only for IntentRecordHazard
}

const (
	recordTrigger = "зафиксируй"
	deleteTrigger = "удали"

	// defaultDescription substitutes for an empty extraction.
	defaultDescription = "инцидент"
)

// Interpret classifies one utterance into an intent. It is a flat,
// stateless, single-shot dispatch: every call sees exactly one transcript
// and retains nothing. The delete trigger wins over the record trigger;
// for record intents the description is whatever follows the last
// occurrence of the trigger word, trimmed.
func Interpret(transcript string) Intent {
	t := strings.ToLower(transcript)

	if strings.Contains(t, deleteTrigger) {
		return Intent{Kind: IntentRequestDelete}
	}

	if idx := strings.LastIndex(t, recordTrigger); idx >= 0 {
		desc := strings.TrimSpace(t[idx+len(recordTrigger):])
		if desc == "" {
			desc = defaultDescription
		}
		return Intent{Kind: IntentRecordHazard, Description: desc}
	}

	return Intent{Kind: IntentUnrecognized}
}
