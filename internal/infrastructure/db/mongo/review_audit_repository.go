package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/microtasks/internal/core/domain"
)

const reviewCollection = "submission_reviews"

// ReviewAuditRepository stores accepted reviews in the submission_reviews collection.
type ReviewAuditRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewReviewAuditRepository(db *mongo.Database) *ReviewAuditRepository {
	return &ReviewAuditRepository{
		coll: db.Collection(reviewCollection),
		now:  time.Now,
	}
}

// Insert persists a single review event.
func (r *ReviewAuditRepository) Insert(ctx context.Context, event domain.ReviewEvent) error {
	doc := bson.M{
		"submission_id": event.SubmissionID,
		"reviewer_id":   event.ReviewerID,
		"from":          string(event.From),
		"to":            string(event.To),
		"reviewed_at":   event.ReviewedAt.UTC(),
		"recorded_at":   r.now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert review event: %w", err)
	}
	return nil
}
