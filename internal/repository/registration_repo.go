package repository

import (
	"context"
	"liveexperience/internal/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RegistrationRepo handles MongoDB operations for event registrations
type RegistrationRepo interface {
	Create(ctx context.Context, reg *model.Registration) (string, error)
	FindByEmail(ctx context.Context, eventID, email string) (*model.Registration, error)
}

type registrationRepo struct {
	collection *mongo.Collection
}

// NewRegistrationRepo creates a new registration repository
func NewRegistrationRepo(db *mongo.Database) RegistrationRepo {
	return &registrationRepo{
		collection: db.Collection("registrations"),
	}
}

func (r *registrationRepo) Create(ctx context.Context, reg *model.Registration) (string, error) {
	reg.ID = primitive.NewObjectID().Hex()
	reg.RegisteredAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, reg); err != nil {
		return "", err
	}
	return reg.ID, nil
}

func (r *registrationRepo) FindByEmail(ctx context.Context, eventID, email string) (*model.Registration, error) {
	var reg model.Registration
	err := r.collection.FindOne(ctx, bson.M{"eventId": eventID, "email": email}).Decode(&reg)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}
