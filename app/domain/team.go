package domain

// Conference names. The league is split into two conferences of four
// divisions each.
const (
	ConferenceAFC = "AFC"
	ConferenceNFC = "NFC"
)

// Coach is a team's head coach.
type Coach struct {
	Name   string `json:"name"`
	Scheme string `json:"scheme"`
}

// Team is a franchise. Owned exclusively by the entity cache; mutated by
// result application, cap recalculation, trades and free agency.
type Team struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Abbr          string  `json:"abbr"`
	Conference    string  `json:"conference"`
	Division      string  `json:"division"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	PointsFor     int     `json:"pointsFor"`
	PointsAgainst int     `json:"pointsAgainst"`
	CapTotal      float64 `json:"capTotal"`
	CapUsed       float64 `json:"capUsed"`
	CapRoom       float64 `json:"capRoom"`
	Coach         Coach   `json:"coach"`
}

// PointDiff is the team's season point differential, the standings tiebreaker.
func (t *Team) PointDiff() int {
	return t.PointsFor - t.PointsAgainst
}

// RecalcCap recomputes a team's cap usage from its active roster. capRoom is
// always derived, never stored independently of capTotal and capUsed.
func RecalcCap(t *Team, activePlayers []*Player) {
	used := 0.0
	for _, p := range activePlayers {
		used += p.Contract.CapHit()
	}
	t.CapUsed = used
	t.CapRoom = t.CapTotal - used
}
