package activity

import (
	"strings"
	"time"
)

// GraphEventInput describes the common fields for dependency-graph lifecycle
// events emitted during a cascade.
type GraphEventInput struct {
	ActorID        string
	UserID         string
	TenantID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	TriggerID      string
	Element        string
	Node           string
	OccurredAt     time.Time
}

// BuildFieldChangedEvent constructs a normalized event for a change signal
// received on a dependency element.
func BuildFieldChangedEvent(input GraphEventInput) Event {
	return buildGraphEvent("field.changed", "cascade.element", input)
}

// BuildStateActivatedEvent constructs a normalized event for a state that
// published during a cascade.
func BuildStateActivatedEvent(input GraphEventInput) Event {
	return buildGraphEvent("state.activated", "cascade.state", input)
}

// BuildModifierAppliedEvent constructs a normalized event for an executed
// modifier mutation.
func BuildModifierAppliedEvent(input GraphEventInput) Event {
	return buildGraphEvent("modifier.applied", "cascade.modifier", input)
}

func buildGraphEvent(verb, objectType string, input GraphEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.TriggerID != "" {
		metadata = ensureMetadata(metadata)
		metadata["trigger_id"] = input.TriggerID
	}
	if input.Element != "" {
		metadata = ensureMetadata(metadata)
		metadata["element"] = input.Element
	}
	if input.Node != "" {
		metadata = ensureMetadata(metadata)
		metadata["node"] = input.Node
	}

	recipients := input.Recipients
	if len(recipients) > 0 {
		recipients = append([]string{}, input.Recipients...)
	}

	objectID := strings.TrimSpace(input.Node)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Element)
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:           verb,
		ActorID:        strings.TrimSpace(input.ActorID),
		UserID:         strings.TrimSpace(input.UserID),
		TenantID:       strings.TrimSpace(input.TenantID),
		ObjectType:     objectType,
		ObjectID:       objectID,
		Channel:        strings.TrimSpace(input.Channel),
		DefinitionCode: strings.TrimSpace(input.DefinitionCode),
		Recipients:     recipients,
		Metadata:       metadata,
		OccurredAt:     input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
