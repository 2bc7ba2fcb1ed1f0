package session

import "github.com/google/uuid"

type View string

const (
	ViewLanding   View = "landing"
	ViewChoice    View = "choice"
	ViewDashboard View = "dashboard"
)

// Participant is what the browser remembers about the room it joined.
type Participant struct {
	ID       string
	Name     string
	RoomCode string
	RoomID   string
}

// Admin is what the browser remembers about the room it facilitates.
type Admin struct {
	RoomID   string
	RoomCode string
	Creator  bool
}

// EnsureSessionID returns the browser's session id, generating and storing
// one on first use. The id is never cleared.
func EnsureSessionID(sess Context) string {
	if id := sess.Get(KeySessionID); id != "" {
		return id
	}
	id := uuid.NewString()
	sess.Set(KeySessionID, id)
	return id
}

// ParticipantOf returns the joined room, ok=false unless both the
// participant id and the room code are present.
func ParticipantOf(sess Context) (Participant, bool) {
	p := Participant{
		ID:       sess.Get(KeyParticipantID),
		Name:     sess.Get(KeyParticipantName),
		RoomCode: sess.Get(KeyRoomCode),
		RoomID:   sess.Get(KeyRoomID),
	}
	return p, p.ID != "" && p.RoomCode != ""
}

func SetParticipant(sess Context, p Participant) {
	sess.Set(KeyParticipantID, p.ID)
	sess.Set(KeyParticipantName, p.Name)
	sess.Set(KeyRoomCode, p.RoomCode)
	sess.Set(KeyRoomID, p.RoomID)
}

func ClearParticipant(sess Context) {
	sess.Delete(KeyParticipantID, KeyParticipantName, KeyRoomCode, KeyRoomID)
}

// AdminOf returns the facilitated room, ok=false without a cached code.
func AdminOf(sess Context) (Admin, bool) {
	a := Admin{
		RoomID:   sess.Get(KeyAdminRoomID),
		RoomCode: sess.Get(KeyAdminRoomCode),
		Creator:  sess.Get(KeyIsRoomCreator) == "true",
	}
	return a, a.RoomCode != ""
}

func SetAdmin(sess Context, a Admin) {
	sess.Set(KeyAdminRoomID, a.RoomID)
	sess.Set(KeyAdminRoomCode, a.RoomCode)
	if a.Creator {
		sess.Set(KeyIsRoomCreator, "true")
	}
}

func ClearAdmin(sess Context) {
	sess.Delete(KeyAdminRoomID, KeyAdminRoomCode, KeyIsRoomCreator)
}

// ResolveView picks the view a browser starts on. A browser that is both a
// participant and a facilitator starts on the choice view.
func ResolveView(sess Context) View {
	if _, ok := ParticipantOf(sess); ok {
		return ViewChoice
	}
	if _, ok := AdminOf(sess); ok {
		return ViewDashboard
	}
	return ViewLanding
}
