package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domain "github.com/quangdo/shopcart-api/internal/entity"
	"github.com/quangdo/shopcart-api/internal/usecase"
)

type MongoCartRepo struct {
	coll *mongo.Collection
}

func NewMongoCartRepo(db *mongo.Database) *MongoCartRepo {
	return &MongoCartRepo{coll: db.Collection(cartsColl)}
}

type cartItemDoc struct {
	ProductID      string `bson:"product_id"`
	Name           string `bson:"name"`
	ImageURL       string `bson:"image_url"`
	UnitPriceCents int64  `bson:"unit_price_cents"`
	Quantity       int    `bson:"quantity"`
}

type cartDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"user_id"`
	Items      []cartItemDoc      `bson:"items"`
	TotalCents int64              `bson:"total_cents"`
	ItemCount  int                `bson:"item_count"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func (d *cartDoc) toDomain() *domain.Cart {
	c := &domain.Cart{
		ID:         d.ID.Hex(),
		UserID:     d.UserID,
		TotalCents: d.TotalCents,
		ItemCount:  d.ItemCount,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	for _, it := range d.Items {
		c.Items = append(c.Items, domain.CartItem{
			ProductID:      it.ProductID,
			Name:           it.Name,
			ImageURL:       it.ImageURL,
			UnitPriceCents: it.UnitPriceCents,
			Quantity:       it.Quantity,
		})
	}
	return c
}

func cartToDoc(c *domain.Cart) cartDoc {
	d := cartDoc{
		UserID:     c.UserID,
		Items:      []cartItemDoc{},
		TotalCents: c.TotalCents,
		ItemCount:  c.ItemCount,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	for _, it := range c.Items {
		d.Items = append(d.Items, cartItemDoc{
			ProductID:      it.ProductID,
			Name:           it.Name,
			ImageURL:       it.ImageURL,
			UnitPriceCents: it.UnitPriceCents,
			Quantity:       it.Quantity,
		})
	}
	return d
}

func (r *MongoCartRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	var d cartDoc
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartNotFound
		}
		return nil, err
	}
	return d.toDomain(), nil
}

// Save replaces the whole cart document keyed by user, creating it on first
// add (the one-cart-per-user unique index makes the upsert race-safe).
func (r *MongoCartRepo) Save(ctx context.Context, c *domain.Cart) error {
	d := cartToDoc(c)
	res, err := r.coll.ReplaceOne(ctx,
		bson.M{"user_id": c.UserID},
		d,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return err
	}
	if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
		c.ID = oid.Hex()
	}
	return nil
}

// Clear empties the cart in place; the document survives (checkout clears,
// it does not delete). A missing cart is a no-op.
func (r *MongoCartRepo) Clear(ctx context.Context, userID string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{
			"items":       []cartItemDoc{},
			"total_cents": int64(0),
			"item_count":  0,
			"updated_at":  time.Now().UTC(),
		}},
	)
	return err
}

var _ usecase.CartRepo = (*MongoCartRepo)(nil)
