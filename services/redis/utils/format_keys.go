package utils

/**
 * This file contains utility functions to format the keys and channels used
 * in Redis. Keeps the channel layout in one place.
 */

import "fmt"

func FormatRoomParticipantsChannel(roomID string) string {
	return fmt.Sprintf("dilemma:room:%s:participants", roomID)
}
