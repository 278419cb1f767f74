package mongostore

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	gameLogsCollection    = "gamelogs"
	matchupsCollection    = "scheduled_matchups"
	playersCollection     = "players"
	projectionsCollection = "projections"
	teamsCollection       = "teams"
)

// naturalKeys are the unique indexes every collection is upserted against.
var naturalKeys = map[string]bson.D{
	gameLogsCollection:    {{Key: "playerId", Value: 1}, {Key: "gameId", Value: 1}},
	matchupsCollection:    {{Key: "gameId", Value: 1}},
	playersCollection:     {{Key: "playerId", Value: 1}},
	projectionsCollection: {{Key: "gameId", Value: 1}, {Key: "playerId", Value: 1}},
	teamsCollection:       {{Key: "teamId", Value: 1}},
}

// secondaryIndexes back the range queries issued by a forecast run.
var secondaryIndexes = map[string][]bson.D{
	gameLogsCollection: {
		{{Key: "dateUTC", Value: 1}},
		{{Key: "playerId", Value: 1}, {Key: "season", Value: 1}},
	},
	matchupsCollection: {
		{{Key: "dateTimeUTC", Value: 1}},
	},
}

func indexModels(collection string) []mongo.IndexModel {
	models := []mongo.IndexModel{{
		Keys:    naturalKeys[collection],
		Options: options.Index().SetUnique(true),
	}}
	for _, keys := range secondaryIndexes[collection] {
		models = append(models, mongo.IndexModel{Keys: keys})
	}
	return models
}
