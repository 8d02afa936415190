// Package rosterevents defines the roster module's command types, payloads
// and player view models.
package rosterevents

import "github.com/gridiron-gm/engine/app/domain"

// Command types handled by the roster module.
const (
	CmdGetRoster     = "cmd.roster.get"
	CmdGetFreeAgents = "cmd.freeagents.get"
	CmdSignPlayer    = "cmd.player.sign"
	CmdSubmitOffer   = "cmd.player.offer"
	CmdReleasePlayer = "cmd.player.release"
	CmdTradeOffer    = "cmd.trade.offer"
)

// Event types the roster module emits.
const (
	EventRoster        = "roster"
	EventFreeAgents    = "freeagents"
	EventTradeResponse = "trade.response"
)

// PlayerView is one player on the wire.
type PlayerView struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Pos       domain.Position     `json:"pos"`
	Age       int                 `json:"age"`
	Overall   int                 `json:"overall"`
	Potential int                 `json:"potential"`
	TeamID    string              `json:"teamId,omitempty"`
	Status    domain.PlayerStatus `json:"status"`
	Contract  domain.Contract     `json:"contract"`
	CapHit    float64             `json:"capHit"`
	Asking    *domain.Contract    `json:"asking,omitempty"`
	Offers    int                 `json:"offers,omitempty"`
}

// TeamHeader is the cap summary shown above a roster.
type TeamHeader struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Abbr     string  `json:"abbr"`
	CapTotal float64 `json:"capTotal"`
	CapUsed  float64 `json:"capUsed"`
	CapRoom  float64 `json:"capRoom"`
}

// RosterView answers a roster query.
type RosterView struct {
	Team    TeamHeader   `json:"team"`
	Players []PlayerView `json:"players"`
}

// FreeAgentsView answers the free-agent pool query.
type FreeAgentsView struct {
	Players []PlayerView `json:"players"`
}

// GetRosterRequest selects a team; empty means the user's team.
type GetRosterRequest struct {
	TeamID string `json:"teamId,omitempty"`
}

// SignPlayerRequest signs a free agent to the user's team at his asking price.
type SignPlayerRequest struct {
	PlayerID string `json:"playerId"`
}

// SubmitOfferRequest places a contract offer on a free agent, to be resolved
// on the next free-agency day.
type SubmitOfferRequest struct {
	PlayerID     string  `json:"playerId"`
	Years        int     `json:"years"`
	BaseAnnual   float64 `json:"baseAnnual"`
	SigningBonus float64 `json:"signingBonus"`
}

// ReleasePlayerRequest cuts a player from the user's team.
type ReleasePlayerRequest struct {
	PlayerID string `json:"playerId"`
}

// TradeOfferRequest proposes a player swap with an AI team.
type TradeOfferRequest struct {
	ToTeamID         string   `json:"toTeamId"`
	OfferPlayerIDs   []string `json:"offerPlayerIds"`
	RequestPlayerIDs []string `json:"requestPlayerIds"`
}

// TradeResponse is the AI team's answer.
type TradeResponse struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason"`
}

// NewPlayerView flattens a player for the wire.
func NewPlayerView(p *domain.Player) PlayerView {
	pv := PlayerView{
		ID:        p.ID,
		Name:      p.Name,
		Pos:       p.Pos,
		Age:       p.Age,
		Overall:   p.Overall,
		Potential: p.Potential,
		TeamID:    p.TeamID,
		Status:    p.Status,
		Contract:  p.Contract,
		CapHit:    p.Contract.CapHit(),
		Offers:    len(p.Offers),
	}
	return pv
}
