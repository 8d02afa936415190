package gen

// franchise is one fixed entry of the 32-team league template.
type franchise struct {
	Name       string
	Abbr       string
	Conference string
	Division   string
}

var franchises = []franchise{
	// AFC East
	{"Boston Admirals", "BOS", "AFC", "East"},
	{"Albany Aces", "ALB", "AFC", "East"},
	{"Newark Knights", "NWK", "AFC", "East"},
	{"Providence Pilots", "PRV", "AFC", "East"},
	// AFC North
	{"Pittsburgh Forgemen", "PIT", "AFC", "North"},
	{"Cincinnati Cranes", "CIN", "AFC", "North"},
	{"Cleveland Rockers", "CLV", "AFC", "North"},
	{"Baltimore Cannons", "BAL", "AFC", "North"},
	// AFC South
	{"Nashville Stampede", "NSH", "AFC", "South"},
	{"Memphis Kings", "MEM", "AFC", "South"},
	{"Jacksonville Sharks", "JAX", "AFC", "South"},
	{"Houston Mavericks", "HOU", "AFC", "South"},
	// AFC West
	{"Denver Peaks", "DEN", "AFC", "West"},
	{"Omaha Cyclones", "OMA", "AFC", "West"},
	{"San Diego Armada", "SD", "AFC", "West"},
	{"Las Vegas Scorpions", "LV", "AFC", "West"},
	// NFC East
	{"Philadelphia Liberty", "PHI", "NFC", "East"},
	{"Washington Senators", "WAS", "NFC", "East"},
	{"New Jersey Generals", "NJG", "NFC", "East"},
	{"Richmond Raptors", "RIC", "NFC", "East"},
	// NFC North
	{"Chicago Blizzard", "CHI", "NFC", "North"},
	{"Detroit Motors", "DET", "NFC", "North"},
	{"Milwaukee Mariners", "MIL", "NFC", "North"},
	{"Minneapolis Millers", "MIN", "NFC", "North"},
	// NFC South
	{"Atlanta Firebirds", "ATL", "NFC", "South"},
	{"New Orleans Jesters", "NO", "NFC", "South"},
	{"Tampa Typhoons", "TB", "NFC", "South"},
	{"Charlotte Monarchs", "CLT", "NFC", "South"},
	// NFC West
	{"Seattle Cascades", "SEA", "NFC", "West"},
	{"Portland Lumberjacks", "POR", "NFC", "West"},
	{"San Francisco Fog", "SF", "NFC", "West"},
	{"Phoenix Scorch", "PHX", "NFC", "West"},
}
