package espn

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nbaTeamAbbreviations maps full NBA team names to their standard
// abbreviations, which we use as team IDs.
var nbaTeamAbbreviations = map[string]string{
	"atlanta hawks":          "ATL",
	"boston celtics":         "BOS",
	"brooklyn nets":          "BKN",
	"charlotte hornets":      "CHA",
	"chicago bulls":          "CHI",
	"cleveland cavaliers":    "CLE",
	"dallas mavericks":       "DAL",
	"denver nuggets":         "DEN",
	"detroit pistons":        "DET",
	"golden state warriors":  "GSW",
	"houston rockets":        "HOU",
	"indiana pacers":         "IND",
	"los angeles clippers":   "LAC",
	"los angeles lakers":     "LAL",
	"memphis grizzlies":      "MEM",
	"miami heat":             "MIA",
	"milwaukee bucks":        "MIL",
	"minnesota timberwolves": "MIN",
	"new orleans pelicans":   "NOP",
	"new york knicks":        "NYK",
	"oklahoma city thunder":  "OKC",
	"orlando magic":          "ORL",
	"philadelphia 76ers":     "PHI",
	"phoenix suns":           "PHX",
	"portland trail blazers": "POR",
	"sacramento kings":       "SAC",
	"san antonio spurs":      "SAS",
	"toronto raptors":        "TOR",
	"utah jazz":              "UTA",
	"washington wizards":     "WAS",
}

// nhlTeamAbbreviations maps full NHL team names to abbreviations.
var nhlTeamAbbreviations = map[string]string{
	"anaheim ducks":         "ANA",
	"boston bruins":         "BOS",
	"buffalo sabres":        "BUF",
	"calgary flames":        "CGY",
	"carolina hurricanes":   "CAR",
	"chicago blackhawks":    "CHI",
	"colorado avalanche":    "COL",
	"columbus blue jackets": "CBJ",
	"dallas stars":          "DAL",
	"detroit red wings":     "DET",
	"edmonton oilers":       "EDM",
	"florida panthers":      "FLA",
	"los angeles kings":     "LAK",
	"minnesota wild":        "MIN",
	"montreal canadiens":    "MTL",
	"nashville predators":   "NSH",
	"new jersey devils":     "NJD",
	"new york islanders":    "NYI",
	"new york rangers":      "NYR",
	"ottawa senators":       "OTT",
	"philadelphia flyers":   "PHI",
	"pittsburgh penguins":   "PIT",
	"san jose sharks":       "SJS",
	"seattle kraken":        "SEA",
	"st. louis blues":       "STL",
	"tampa bay lightning":   "TBL",
	"toronto maple leafs":   "TOR",
	"utah hockey club":      "UTA",
	"vancouver canucks":     "VAN",
	"vegas golden knights":  "VGK",
	"washington capitals":   "WSH",
	"winnipeg jets":         "WPG",
}

var teamTables = map[string]map[string]string{
	"basketball_nba": nbaTeamAbbreviations,
	"ice_hockey_nhl": nhlTeamAbbreviations,
}

// normalizeName normalizes a team name for table lookup: lowercase,
// accents stripped, whitespace collapsed.
func normalizeName(name string) string {
	name = strings.ToLower(name)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	name, _, _ = transform.String(t, name)

	return strings.Join(strings.Fields(name), " ")
}

// TeamID resolves a provider team name to our canonical team ID. Names
// that already look like an abbreviation pass through uppercased;
// unknown names pass through as given.
func TeamID(sportKey, name string) string {
	table := teamTables[sportKey]
	if table != nil {
		if abbr, ok := table[normalizeName(name)]; ok {
			return abbr
		}
	}
	if len(name) <= 3 {
		return strings.ToUpper(name)
	}
	return name
}
