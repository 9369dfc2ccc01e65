package services

// LiveBroadcaster pushes realtime updates to clients watching a tournament.
// *live.Hub satisfies it; services treat broadcasting as fire-and-forget.
type LiveBroadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

func strPtr(s string) *string {
	return &s
}
