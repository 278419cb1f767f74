package teams

// Team is immutable reference data shared by game logs, matchups, players and projections.
type Team struct {
	ID           string `json:"teamId" bson:"teamId"`
	Abbreviation string `json:"abbreviation" bson:"abbreviation"`
	City         string `json:"location" bson:"location"`
	Name         string `json:"name" bson:"name"`
}

// FullName joins city and name, e.g. "Boston Celtics".
func (t Team) FullName() string {
	switch {
	case t.City == "":
		return t.Name
	case t.Name == "":
		return t.City
	default:
		return t.City + " " + t.Name
	}
}
