package room_constants

import "time"

// Room codes
const ROOM_CODE_LENGTH = 6
const ROOM_CODE_ALPHABET = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const MAX_ROOM_CODE_ATTEMPTS = 5

// Participant names are trimmed before the length check
const MAX_NAME_LENGTH = 50

// Choice values as stored in participants.choice (NULL means unset)
const (
	CHOICE_COOPERATE = "cooperate"
	CHOICE_DEFECT    = "defect"
)

// Deployment policies. A deployment runs exactly one of each pair.
const (
	CHOICE_POLICY_FINAL      = "final"      // a recorded choice can never change
	CHOICE_POLICY_RESETTABLE = "resettable" // a participant may go back to unset
	LEAVE_POLICY_KEEP        = "keep"       // leaving only clears the device session
	LEAVE_POLICY_DELETE      = "delete"     // leaving also removes the participant row
)

// Change feed
const PARTICIPANTS_CHANNEL = "participants_changes"
const FEED_POSTGRES = "postgres"
const FEED_REDIS = "redis"
const FEED_MEMORY = "memory"

// Dashboard streams
const STREAM_TOKEN_TTL = 12 * time.Hour
const SNAPSHOT_EVENT = "participants_updated"
