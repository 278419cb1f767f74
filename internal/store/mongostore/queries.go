package mongostore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/players"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/projections"
	"github.com/preston-bernstein/nba-projections-service/internal/store"
)

func dateRangeFilter(field string, from, to time.Time) bson.M {
	return bson.M{field: bson.M{"$gte": from.UTC(), "$lt": to.UTC()}}
}

func projectionFilter(f store.ProjectionFilter) bson.M {
	filter := bson.M{}
	if f.PlayerID != "" {
		filter["playerId"] = f.PlayerID
	}
	if f.GameID != "" {
		filter["gameId"] = f.GameID
	}
	return filter
}

// playerSetDoc renders a player for $set. A nil current-week view is left out so roster
// refreshes never wipe stored projections.
func playerSetDoc(p players.Player) (bson.M, error) {
	raw, err := bson.Marshal(p)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if p.CurrentWeekProjections == nil {
		delete(doc, "currentWeekProjections")
	}
	return doc, nil
}

// currentWeekPipeline keeps the player's stored projections that fall in the week and are not
// replaced by incoming, then appends incoming.
func currentWeekPipeline(incoming []projections.Projection, weekStart time.Time) mongo.Pipeline {
	weekEnd := weekStart.AddDate(0, 0, 7)
	gameIDs := make(bson.A, 0, len(incoming))
	for _, p := range incoming {
		gameIDs = append(gameIDs, p.GameID)
	}

	kept := bson.D{{Key: "$filter", Value: bson.D{
		{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$currentWeekProjections", bson.A{}}}}},
		{Key: "as", Value: "p"},
		{Key: "cond", Value: bson.D{{Key: "$and", Value: bson.A{
			bson.D{{Key: "$gte", Value: bson.A{"$$p.dateUTC", weekStart.UTC()}}},
			bson.D{{Key: "$lt", Value: bson.A{"$$p.dateUTC", weekEnd.UTC()}}},
			bson.D{{Key: "$not", Value: bson.A{bson.D{{Key: "$in", Value: bson.A{"$$p.gameId", gameIDs}}}}}},
		}}}},
	}}}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "currentWeekProjections", Value: bson.D{
			{Key: "$concatArrays", Value: bson.A{kept, bson.D{{Key: "$literal", Value: incoming}}}},
		}}}}},
	}
}
