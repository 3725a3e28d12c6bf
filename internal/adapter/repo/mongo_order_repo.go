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

type MongoOrderRepo struct {
	coll *mongo.Collection
}

func NewMongoOrderRepo(db *mongo.Database) *MongoOrderRepo {
	return &MongoOrderRepo{coll: db.Collection(ordersColl)}
}

type orderItemDoc struct {
	ProductID      string `bson:"product_id"`
	Name           string `bson:"name"`
	ImageURL       string `bson:"image_url"`
	UnitPriceCents int64  `bson:"unit_price_cents"`
	Quantity       int    `bson:"quantity"`
}

type addressDoc struct {
	FullName   string `bson:"full_name"`
	Line1      string `bson:"line1"`
	Line2      string `bson:"line2,omitempty"`
	City       string `bson:"city"`
	State      string `bson:"state,omitempty"`
	PostalCode string `bson:"postal_code"`
	Country    string `bson:"country"`
	Phone      string `bson:"phone,omitempty"`
}

type orderDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OrderNumber string             `bson:"order_number"`
	UserID      string             `bson:"user_id"`
	Email       string             `bson:"email"`
	Items       []orderItemDoc     `bson:"items"`

	SubtotalCents int64  `bson:"subtotal_cents"`
	ShippingCents int64  `bson:"shipping_cents"`
	TaxCents      int64  `bson:"tax_cents"`
	TotalCents    int64  `bson:"total_cents"`
	Currency      string `bson:"currency"`

	OrderStatus   string `bson:"order_status"`
	PaymentStatus string `bson:"payment_status"`

	ShippingAddress addressDoc `bson:"shipping_address"`
	Notes           string     `bson:"notes,omitempty"`
	AdminNotes      string     `bson:"admin_notes,omitempty"`

	TrackingNumber    string     `bson:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time `bson:"estimated_delivery,omitempty"`
	DeliveredAt       *time.Time `bson:"delivered_at,omitempty"`
	CancelledAt       *time.Time `bson:"cancelled_at,omitempty"`
	CancelReason      string     `bson:"cancel_reason,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func orderToDoc(o *domain.Order) orderDoc {
	d := orderDoc{
		OrderNumber:   o.OrderNumber,
		UserID:        o.UserID,
		Email:         o.Email,
		SubtotalCents: o.SubtotalCents,
		ShippingCents: o.ShippingCents,
		TaxCents:      o.TaxCents,
		TotalCents:    o.TotalCents,
		Currency:      o.Currency,
		OrderStatus:   string(o.OrderStatus),
		PaymentStatus: string(o.PaymentStatus),
		ShippingAddress: addressDoc{
			FullName:   o.ShippingAddress.FullName,
			Line1:      o.ShippingAddress.Line1,
			Line2:      o.ShippingAddress.Line2,
			City:       o.ShippingAddress.City,
			State:      o.ShippingAddress.State,
			PostalCode: o.ShippingAddress.PostalCode,
			Country:    o.ShippingAddress.Country,
			Phone:      o.ShippingAddress.Phone,
		},
		Notes:             o.Notes,
		AdminNotes:        o.AdminNotes,
		TrackingNumber:    o.TrackingNumber,
		EstimatedDelivery: o.EstimatedDelivery,
		DeliveredAt:       o.DeliveredAt,
		CancelledAt:       o.CancelledAt,
		CancelReason:      o.CancelReason,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
	for _, it := range o.Items {
		d.Items = append(d.Items, orderItemDoc{
			ProductID:      it.ProductID,
			Name:           it.Name,
			ImageURL:       it.ImageURL,
			UnitPriceCents: it.UnitPriceCents,
			Quantity:       it.Quantity,
		})
	}
	return d
}

func (d *orderDoc) toDomain() *domain.Order {
	o := &domain.Order{
		ID:            d.ID.Hex(),
		OrderNumber:   d.OrderNumber,
		UserID:        d.UserID,
		Email:         d.Email,
		SubtotalCents: d.SubtotalCents,
		ShippingCents: d.ShippingCents,
		TaxCents:      d.TaxCents,
		TotalCents:    d.TotalCents,
		Currency:      d.Currency,
		OrderStatus:   domain.OrderStatus(d.OrderStatus),
		PaymentStatus: domain.PaymentStatus(d.PaymentStatus),
		ShippingAddress: domain.ShippingAddress{
			FullName:   d.ShippingAddress.FullName,
			Line1:      d.ShippingAddress.Line1,
			Line2:      d.ShippingAddress.Line2,
			City:       d.ShippingAddress.City,
			State:      d.ShippingAddress.State,
			PostalCode: d.ShippingAddress.PostalCode,
			Country:    d.ShippingAddress.Country,
			Phone:      d.ShippingAddress.Phone,
		},
		Notes:             d.Notes,
		AdminNotes:        d.AdminNotes,
		TrackingNumber:    d.TrackingNumber,
		EstimatedDelivery: d.EstimatedDelivery,
		DeliveredAt:       d.DeliveredAt,
		CancelledAt:       d.CancelledAt,
		CancelReason:      d.CancelReason,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
	for _, it := range d.Items {
		o.Items = append(o.Items, domain.OrderItem{
			ProductID:      it.ProductID,
			Name:           it.Name,
			ImageURL:       it.ImageURL,
			UnitPriceCents: it.UnitPriceCents,
			Quantity:       it.Quantity,
		})
	}
	return o
}

func orderOID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrOrderNotFound
	}
	return oid, nil
}

func (r *MongoOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	res, err := r.coll.InsertOne(ctx, orderToDoc(o))
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		o.ID = oid.Hex()
	}
	return nil
}

func (r *MongoOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := orderOID(id)
	if err != nil {
		return nil, err
	}
	var d orderDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return d.toDomain(), nil
}

func (r *MongoOrderRepo) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	var d orderDoc
	if err := r.coll.FindOne(ctx, bson.M{"order_number": orderNumber}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return d.toDomain(), nil
}

func (r *MongoOrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

func (r *MongoOrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, bson.M{})
}

func (r *MongoOrderRepo) list(ctx context.Context, filter bson.M) ([]domain.Order, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Order
	for cur.Next(ctx) {
		var d orderDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, *d.toDomain())
	}
	return out, cur.Err()
}

func (r *MongoOrderRepo) Update(ctx context.Context, o *domain.Order) error {
	oid, err := orderOID(o.ID)
	if err != nil {
		return err
	}
	d := orderToDoc(o)
	d.ID = oid
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, d)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *MongoOrderRepo) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	oid, err := orderOID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"payment_status": string(status),
		"updated_at":     time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *MongoOrderRepo) Delete(ctx context.Context, id string) error {
	oid, err := orderOID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

var _ usecase.OrderRepo = (*MongoOrderRepo)(nil)
