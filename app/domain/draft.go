package domain

import "fmt"

// PickPlayer is the snapshot of a drafted player stored on the executed pick.
type PickPlayer struct {
	PlayerID string   `json:"playerId"`
	Name     string   `json:"name"`
	Pos      Position `json:"pos"`
	Overall  int      `json:"overall"`
}

// DraftPick is one slot in a draft. Overall, Round, PickInRound and TeamID are
// fixed when the pick order is generated; Player fills in when the pick
// executes.
type DraftPick struct {
	ID          string      `json:"id"`
	Year        int         `json:"year"`
	Overall     int         `json:"overall"`
	Round       int         `json:"round"`
	PickInRound int         `json:"pickInRound"`
	TeamID      string      `json:"teamId"`
	Player      *PickPlayer `json:"player,omitempty"`
}

// DraftPickID builds the pick key from draft year and overall slot.
func DraftPickID(year, overall int) string {
	return fmt.Sprintf("%d-%03d", year, overall)
}
