package domain

// Position is a player's position group.
type Position string

const (
	PosQB Position = "QB"
	PosRB Position = "RB"
	PosWR Position = "WR"
	PosTE Position = "TE"
	PosOL Position = "OL"
	PosDL Position = "DL"
	PosLB Position = "LB"
	PosCB Position = "CB"
	PosS  Position = "S"
	PosK  Position = "K"
)

// Positions lists every position group in roster order.
var Positions = []Position{PosQB, PosRB, PosWR, PosTE, PosOL, PosDL, PosLB, PosCB, PosS, PosK}

// RosterTemplate is the target headcount per position group. Generation fills
// to it and the AI measures positional need against it.
var RosterTemplate = map[Position]int{
	PosQB: 2, PosRB: 3, PosWR: 4, PosTE: 2, PosOL: 5,
	PosDL: 5, PosLB: 4, PosCB: 4, PosS: 3, PosK: 1,
}

// PlayerStatus tracks where a player sits in the league.
type PlayerStatus string

const (
	StatusActive        PlayerStatus = "active"
	StatusFreeAgent     PlayerStatus = "free_agent"
	StatusDraftEligible PlayerStatus = "draft_eligible"
	// StatusRetired is terminal: a retiring player is deleted from the live
	// set, so the status only ever appears on historical payloads.
	StatusRetired PlayerStatus = "retired"
)

// Contract is a player contract. Money is in cap units (millions).
type Contract struct {
	Years         int     `json:"years"`
	BaseAnnual    float64 `json:"baseAnnual"`
	SigningBonus  float64 `json:"signingBonus"`
	GuaranteedPct float64 `json:"guaranteedPct"`
}

// CapHit is the annual charge against the salary cap: base salary plus the
// signing bonus prorated over the contract length.
func (c Contract) CapHit() float64 {
	if c.Years <= 0 {
		return c.BaseAnnual
	}
	return c.BaseAnnual + c.SigningBonus/float64(c.Years)
}

// Offer is a pending free-agency offer from a team.
type Offer struct {
	TeamID   string   `json:"teamId"`
	Contract Contract `json:"contract"`
}

// Player is a league player.
//
// Invariants: status == active iff teamID refers to a team; a free agent or
// draft-eligible player always has an empty teamID.
type Player struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Pos       Position     `json:"pos"`
	Age       int          `json:"age"`
	Overall   int          `json:"overall"`
	Potential int          `json:"potential"`
	Contract  Contract     `json:"contract"`
	Status    PlayerStatus `json:"status"`
	TeamID    string       `json:"teamId,omitempty"`
	Offers    []Offer      `json:"offers,omitempty"`
}
