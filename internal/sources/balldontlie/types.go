package balldontlie

type page[T any] struct {
	Data []T         `json:"data"`
	Meta pageCursors `json:"meta"`
}

type pageCursors struct {
	NextCursor int `json:"next_cursor"`
	PerPage    int `json:"per_page"`
}

type teamResponse struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
	FullName     string `json:"full_name"`
	Name         string `json:"name"`
}

type gameResponse struct {
	ID               int          `json:"id"`
	Date             string       `json:"date"`
	DateTime         string       `json:"datetime"`
	Season           int          `json:"season"`
	Status           string       `json:"status"`
	Postseason       bool         `json:"postseason"`
	HomeTeam         teamResponse `json:"home_team"`
	VisitorTeam      teamResponse `json:"visitor_team"`
	HomeTeamScore    int          `json:"home_team_score"`
	VisitorTeamScore int          `json:"visitor_team_score"`
}

// statGame is the trimmed game object embedded in a stat line.
type statGame struct {
	ID               int    `json:"id"`
	Date             string `json:"date"`
	Season           int    `json:"season"`
	Postseason       bool   `json:"postseason"`
	HomeTeamID       int    `json:"home_team_id"`
	VisitorTeamID    int    `json:"visitor_team_id"`
	HomeTeamScore    int    `json:"home_team_score"`
	VisitorTeamScore int    `json:"visitor_team_score"`
}

type statPlayer struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
}

type statResponse struct {
	ID       int          `json:"id"`
	Min      string       `json:"min"`
	FGM      int          `json:"fgm"`
	FGA      int          `json:"fga"`
	FG3M     int          `json:"fg3m"`
	FG3A     int          `json:"fg3a"`
	FTM      int          `json:"ftm"`
	FTA      int          `json:"fta"`
	OReb     int          `json:"oreb"`
	DReb     int          `json:"dreb"`
	Reb      int          `json:"reb"`
	Ast      int          `json:"ast"`
	Stl      int          `json:"stl"`
	Blk      int          `json:"blk"`
	Turnover int          `json:"turnover"`
	PF       int          `json:"pf"`
	Pts      int          `json:"pts"`
	Player   statPlayer   `json:"player"`
	Team     teamResponse `json:"team"`
	Game     statGame     `json:"game"`
}

type playerResponse struct {
	ID           int           `json:"id"`
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	Position     string        `json:"position"`
	Height       string        `json:"height"`
	Weight       string        `json:"weight"`
	JerseyNumber string        `json:"jersey_number"`
	Team         *teamResponse `json:"team"`
}
