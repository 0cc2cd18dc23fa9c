package repository

import (
	"context"
	"fmt"
	"time"

	"elderease/internal/model"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// historyDocument is the layout of chats/<userId>.
type historyDocument struct {
	History     string    `firestore:"history"`
	LastUpdated time.Time `firestore:"lastUpdated"`
}

type firestoreHistoryRepository struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreHistoryRepository keeps each history in collection/<userId>.
func NewFirestoreHistoryRepository(client *firestore.Client, collection string) HistoryRepository {
	return &firestoreHistoryRepository{client: client, collection: collection}
}

func (r *firestoreHistoryRepository) doc(userID string) *firestore.DocumentRef {
	return r.client.Collection(r.collection).Doc(userID)
}

func (r *firestoreHistoryRepository) Save(ctx context.Context, userID string, history model.History) error {
	data, err := encodeHistory(history)
	if err != nil {
		return err
	}
	_, err = r.doc(userID).Set(ctx, map[string]interface{}{
		"history":     data,
		"lastUpdated": firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to write chat document: %w", err)
	}
	return nil
}

func (r *firestoreHistoryRepository) Load(ctx context.Context, userID string) (model.History, error) {
	snap, err := r.doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return model.History{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read chat document: %w", err)
	}
	var doc historyDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode chat document: %w", err)
	}
	return decodeHistory(doc.History)
}

func (r *firestoreHistoryRepository) Delete(ctx context.Context, userID string) error {
	if _, err := r.doc(userID).Delete(ctx); err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to delete chat document: %w", err)
	}
	return nil
}
