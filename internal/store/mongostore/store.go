// Package mongostore implements store.Store on top of MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/gamelogs"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/matchups"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/players"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/projections"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/teams"
	"github.com/preston-bernstein/nba-projections-service/internal/logging"
	"github.com/preston-bernstein/nba-projections-service/internal/store"
	"github.com/preston-bernstein/nba-projections-service/internal/timeutil"
)

const defaultTimeout = 10 * time.Second

// Options configures the connection.
type Options struct {
	URL      string
	Database string
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Store reads and writes the league collections.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
	logger  *slog.Logger
}

var _ store.Store = (*Store)(nil)

// Connect dials MongoDB, verifies the connection and ensures indexes exist.
func Connect(ctx context.Context, opts Options) (*Store, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	connectCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(opts.URL).SetTimeout(opts.Timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	s := &Store{
		client:  client,
		db:      client.Database(opts.Database),
		timeout: opts.Timeout,
		logger:  opts.Logger,
	}
	if err := s.Ping(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	if err := s.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	for name := range naturalKeys {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, indexModels(name)); err != nil {
			return fmt.Errorf("mongo indexes %s: %w", name, err)
		}
	}
	return nil
}

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func find[T any](ctx context.Context, coll *mongo.Collection, filter any, sort bson.D) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("mongo find %s: %w", coll.Name(), err)
	}
	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongo decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

func (s *Store) bulkUpsert(ctx context.Context, name string, ops []mongo.WriteModel) error {
	if len(ops) == 0 {
		logging.Debug(s.logger, "no documents to upsert", "collection", name)
		return nil
	}
	result, err := s.collection(name).BulkWrite(ctx, ops, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("mongo upsert %s: %w", name, err)
	}
	logging.Debug(s.logger, "upserted documents",
		"collection", name,
		"upserted", result.UpsertedCount,
		"modified", result.ModifiedCount,
	)
	return nil
}

func upsertModel(filter bson.M, doc any) mongo.WriteModel {
	return mongo.NewUpdateOneModel().
		SetFilter(filter).
		SetUpdate(bson.M{"$set": doc}).
		SetUpsert(true)
}

// UpsertTeams upserts teams by teamId.
func (s *Store) UpsertTeams(ctx context.Context, items []teams.Team) error {
	ops := make([]mongo.WriteModel, 0, len(items))
	for _, t := range items {
		ops = append(ops, upsertModel(bson.M{"teamId": t.ID}, t))
	}
	return s.bulkUpsert(ctx, teamsCollection, ops)
}

// UpsertPlayers upserts players by playerId.
func (s *Store) UpsertPlayers(ctx context.Context, items []players.Player) error {
	ops := make([]mongo.WriteModel, 0, len(items))
	for _, p := range items {
		doc, err := playerSetDoc(p)
		if err != nil {
			return fmt.Errorf("encode player %s: %w", p.ID, err)
		}
		ops = append(ops, upsertModel(bson.M{"playerId": p.ID}, doc))
	}
	return s.bulkUpsert(ctx, playersCollection, ops)
}

// UpsertGameLogs upserts logs by {playerId, gameId}.
func (s *Store) UpsertGameLogs(ctx context.Context, items []gamelogs.GameLog) error {
	ops := make([]mongo.WriteModel, 0, len(items))
	for _, g := range items {
		ops = append(ops, upsertModel(bson.M{"playerId": g.PlayerID, "gameId": g.GameID}, g))
	}
	return s.bulkUpsert(ctx, gameLogsCollection, ops)
}

// UpsertMatchups upserts matchups by gameId.
func (s *Store) UpsertMatchups(ctx context.Context, items []matchups.Matchup) error {
	ops := make([]mongo.WriteModel, 0, len(items))
	for _, m := range items {
		ops = append(ops, upsertModel(bson.M{"gameId": m.GameID}, m))
	}
	return s.bulkUpsert(ctx, matchupsCollection, ops)
}

// Teams returns every team ordered by teamId.
func (s *Store) Teams(ctx context.Context) ([]teams.Team, error) {
	return find[teams.Team](ctx, s.collection(teamsCollection), bson.M{}, bson.D{{Key: "teamId", Value: 1}})
}

// Players returns every player ordered by playerId.
func (s *Store) Players(ctx context.Context) ([]players.Player, error) {
	return find[players.Player](ctx, s.collection(playersCollection), bson.M{}, bson.D{{Key: "playerId", Value: 1}})
}

// Player returns one player or store.ErrNotFound.
func (s *Store) Player(ctx context.Context, id string) (players.Player, error) {
	var p players.Player
	err := s.collection(playersCollection).FindOne(ctx, bson.M{"playerId": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return players.Player{}, fmt.Errorf("player %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return players.Player{}, fmt.Errorf("mongo find player %s: %w", id, err)
	}
	return p, nil
}

// RecentGameLogs returns logs dated in [since, until).
func (s *Store) RecentGameLogs(ctx context.Context, since, until time.Time) ([]gamelogs.GameLog, error) {
	return find[gamelogs.GameLog](ctx, s.collection(gameLogsCollection),
		dateRangeFilter("dateUTC", since, until),
		bson.D{{Key: "dateUTC", Value: 1}, {Key: "playerId", Value: 1}, {Key: "gameId", Value: 1}},
	)
}

// PlayerGameLogs returns one player's logs for a season.
func (s *Store) PlayerGameLogs(ctx context.Context, playerID string, season int) ([]gamelogs.GameLog, error) {
	return find[gamelogs.GameLog](ctx, s.collection(gameLogsCollection),
		bson.M{"playerId": playerID, "season": season},
		bson.D{{Key: "dateUTC", Value: 1}, {Key: "gameId", Value: 1}},
	)
}

// MatchupsBetween returns matchups starting in [start, end).
func (s *Store) MatchupsBetween(ctx context.Context, start, end time.Time) ([]matchups.Matchup, error) {
	return find[matchups.Matchup](ctx, s.collection(matchupsCollection),
		dateRangeFilter("dateTimeUTC", start, end),
		bson.D{{Key: "dateTimeUTC", Value: 1}, {Key: "gameId", Value: 1}},
	)
}

// ListProjections returns stored projections matching filter.
func (s *Store) ListProjections(ctx context.Context, filter store.ProjectionFilter) ([]projections.Projection, error) {
	return find[projections.Projection](ctx, s.collection(projectionsCollection),
		projectionFilter(filter),
		bson.D{{Key: "dateUTC", Value: 1}, {Key: "gameId", Value: 1}, {Key: "playerId", Value: 1}},
	)
}

// SaveProjections upserts projections by {gameId, playerId} and refreshes each player's
// current-week view with a pipeline update.
func (s *Store) SaveProjections(ctx context.Context, week projections.WeekSnapshot) error {
	weekStart, err := timeutil.ParseDate(week.WeekStart)
	if err != nil {
		return fmt.Errorf("save projections: week start: %w", err)
	}

	ops := make([]mongo.WriteModel, 0, len(week.Projections))
	byPlayer := make(map[string][]projections.Projection)
	var order []string
	for _, p := range week.Projections {
		ops = append(ops, upsertModel(bson.M{"gameId": p.GameID, "playerId": p.PlayerID}, p))
		if _, seen := byPlayer[p.PlayerID]; !seen {
			order = append(order, p.PlayerID)
		}
		byPlayer[p.PlayerID] = append(byPlayer[p.PlayerID], p)
	}
	if err := s.bulkUpsert(ctx, projectionsCollection, ops); err != nil {
		return err
	}

	views := make([]mongo.WriteModel, 0, len(order))
	for _, id := range order {
		views = append(views, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"playerId": id}).
			SetUpdate(currentWeekPipeline(byPlayer[id], weekStart)))
	}
	return s.bulkUpsert(ctx, playersCollection, views)
}
