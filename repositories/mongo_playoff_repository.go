package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Cienszki/automatic-tournament-sub001/models"
)

const playoffCollection = "playoffs"

type mongoPlayoffRepository struct {
	collection *mongo.Collection
}

func NewMongoPlayoffRepository(db *mongo.Database) PlayoffRepository {
	return &mongoPlayoffRepository{
		collection: db.Collection(playoffCollection),
	}
}

func (r *mongoPlayoffRepository) Create(ctx context.Context, playoff *models.PlayoffData) error {
	if _, err := r.collection.InsertOne(ctx, playoff); err != nil {
		return fmt.Errorf("failed to insert playoff %s: %w", playoff.ID, err)
	}
	return nil
}

func (r *mongoPlayoffRepository) GetByID(ctx context.Context, id string) (*models.PlayoffData, error) {
	var playoff models.PlayoffData
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&playoff)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPlayoffNotFound
		}
		return nil, fmt.Errorf("failed to fetch playoff %s: %w", id, err)
	}
	return &playoff, nil
}

func (r *mongoPlayoffRepository) List(ctx context.Context) ([]*models.PlayoffData, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list playoffs: %w", err)
	}
	defer cursor.Close(ctx)

	var playoffs []*models.PlayoffData
	if err := cursor.All(ctx, &playoffs); err != nil {
		return nil, fmt.Errorf("failed to decode playoffs: %w", err)
	}
	return playoffs, nil
}

// Update replaces the full document, but only if the stored version still
// matches what the caller read. A matched count of zero means either the
// document is gone or another writer got there first.
func (r *mongoPlayoffRepository) Update(ctx context.Context, playoff *models.PlayoffData, expectedVersion int64) error {
	filter := bson.M{"_id": playoff.ID, "version": expectedVersion}
	res, err := r.collection.ReplaceOne(ctx, filter, playoff)
	if err != nil {
		return fmt.Errorf("failed to save playoff %s: %w", playoff.ID, err)
	}
	if res.MatchedCount == 0 {
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": playoff.ID})
		if countErr != nil {
			return fmt.Errorf("failed to save playoff %s: %w", playoff.ID, countErr)
		}
		if count == 0 {
			return ErrPlayoffNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

func (r *mongoPlayoffRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete playoff %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrPlayoffNotFound
	}
	return nil
}
