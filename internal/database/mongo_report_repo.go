package database

import (
	"context"
	"errors"
	"fmt"

	"participium/internal/database/models"
	"participium/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReportRepository implements ReportRepository for MongoDB.
type MongoReportRepository struct {
	collection *mongo.Collection
}

// NewMongoReportRepository creates a new MongoDB report repository.
func NewMongoReportRepository(db *mongo.Database) *MongoReportRepository {
	return &MongoReportRepository{
		collection: db.Collection(reportsCollection),
	}
}

// CreateReport inserts a new report document.
func (r *MongoReportRepository) CreateReport(ctx context.Context, report *domain.Report) error {
	if _, err := r.collection.InsertOne(ctx, models.ReportFromDomain(report)); err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// GetReportByID retrieves a single report.
func (r *MongoReportRepository) GetReportByID(ctx context.Context, id string) (*domain.Report, error) {
	var doc models.Report
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to find report %s: %w", id, err)
	}
	return doc.ToDomain(), nil
}

// ListReports returns reports matching filter, newest first.
func (r *MongoReportRepository) ListReports(ctx context.Context, filter models.ReportFilter) ([]domain.Report, error) {
	query := bson.M{}
	statusCond := bson.M{}
	if filter.Status != nil {
		statusCond["$eq"] = string(*filter.Status)
	}
	if filter.ExcludeStatus != nil {
		statusCond["$ne"] = string(*filter.ExcludeStatus)
	}
	if len(statusCond) > 0 {
		query["status"] = statusCond
	}
	if filter.Category != nil {
		query["category"] = string(*filter.Category)
	}
	if filter.AssigneeID != nil {
		query["assignee_id"] = *filter.AssigneeID
	}

	findOptions := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to find reports: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []models.Report
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode reports: %w", err)
	}

	reports := make([]domain.Report, 0, len(docs))
	for i := range docs {
		reports = append(reports, *docs[i].ToDomain())
	}
	return reports, nil
}

// TransitionReport performs a compare-and-set on the status field.
func (r *MongoReportRepository) TransitionReport(ctx context.Context, id string, from domain.Status, t models.Transition) (*domain.Report, error) {
	set := bson.M{
		"status":           string(t.Status),
		"assignee_id":      t.AssigneeID,
		"rejection_reason": t.RejectionReason,
		"updated_at":       t.At,
	}
	if t.Category != nil {
		set["category"] = string(*t.Category)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc models.Report
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": string(from)},
		bson.M{"$set": set},
		opts,
	).Decode(&doc)
	if err == nil {
		return doc.ToDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update report %s: %w", id, err)
	}

	// Nothing matched: either the report is gone or its status moved on.
	count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if countErr != nil {
		return nil, fmt.Errorf("failed to check report %s: %w", id, countErr)
	}
	if count == 0 {
		return nil, ErrReportNotFound
	}
	return nil, ErrStatusConflict
}

// CountOpenByAssignee aggregates open report counts per assignee.
func (r *MongoReportRepository) CountOpenByAssignee(ctx context.Context, assigneeIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(assigneeIDs))
	if len(assigneeIDs) == 0 {
		return counts, nil
	}

	open := make([]string, 0, len(OpenStatuses))
	for _, s := range OpenStatuses {
		open = append(open, string(s))
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"assignee_id": bson.M{"$in": assigneeIDs},
			"status":      bson.M{"$in": open},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$assignee_id",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate open reports: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode open report counts: %w", err)
	}
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}
