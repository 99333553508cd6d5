package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civicstats/identity-api/internal/core/domain"
)

const (
	infoCollection = "info"
	gdpCollection  = "gdp"
)

// RefDataRepository reads the public reference datasets. Both collections
// are load-once datasets maintained outside this service; the repository is
// read-only.
type RefDataRepository struct {
	info *mongo.Collection
	gdp  *mongo.Collection
}

func NewRefDataRepository(db *mongo.Database) *RefDataRepository {
	return &RefDataRepository{
		info: db.Collection(infoCollection),
		gdp:  db.Collection(gdpCollection),
	}
}

type mongoInfo struct {
	ID          int64  `bson:"_id"`
	Title       string `bson:"title"`
	Content     string `bson:"content"`
	PublishedAt int64  `bson:"published_at"`
}

type mongoGdp struct {
	Year   int     `bson:"year"`
	Region string  `bson:"region"`
	Value  float64 `bson:"value"`
}

// ListInfo returns one page of articles, newest first, plus the total count.
func (r *RefDataRepository) ListInfo(ctx context.Context, pageNumber, pageSize int) ([]*domain.Info, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.info.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count info: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "published_at", Value: -1}}).
		SetSkip(int64(pageNumber-1) * int64(pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.info.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list info: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []*domain.Info
	for cursor.Next(ctx) {
		var mi mongoInfo
		if err := cursor.Decode(&mi); err != nil {
			return nil, 0, fmt.Errorf("decode info: %w", err)
		}
		rows = append(rows, &domain.Info{
			ID:          mi.ID,
			Title:       mi.Title,
			Content:     mi.Content,
			PublishedAt: time.Unix(mi.PublishedAt, 0).UTC(),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("list info: %w", err)
	}
	return rows, total, nil
}

// GdpRange returns observations for years in [yearStart, yearEnd] ascending.
func (r *RefDataRepository) GdpRange(ctx context.Context, yearStart, yearEnd int) ([]*domain.Gdp, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"year": bson.M{"$gte": yearStart, "$lte": yearEnd}}
	opts := options.Find().SetSort(bson.D{{Key: "year", Value: 1}})

	cursor, err := r.gdp.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("gdp range: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []*domain.Gdp
	for cursor.Next(ctx) {
		var mg mongoGdp
		if err := cursor.Decode(&mg); err != nil {
			return nil, fmt.Errorf("decode gdp: %w", err)
		}
		rows = append(rows, &domain.Gdp{Year: mg.Year, Region: mg.Region, Value: mg.Value})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("gdp range: %w", err)
	}
	return rows, nil
}
