package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

const (
	colUsers    = "users"
	colCarts    = "carts"
	colProducts = "products"
	colFeedback = "feedback"
	colContacts = "contacts"
)

type MongoRepo struct {
	client *mongo.Client
	db     *mongo.Database
}

func Connect(ctx context.Context, uri, dbName string) (*MongoRepo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(20)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &MongoRepo{client: client, db: client.Database(dbName)}, nil
}

// EnsureIndexes creates the unique indexes the cart and account flows rely on.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	if _, err := r.db.Collection(colCarts).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("carts index: %w", err)
	}

	if _, err := r.db.Collection(colUsers).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		{Keys: bson.D{
			{Key: "address", Value: 1},
			{Key: "city", Value: 1},
			{Key: "state", Value: 1},
			{Key: "pincode", Value: 1},
		}},
	}); err != nil {
		return fmt.Errorf("users index: %w", err)
	}
	return nil
}

func (r *MongoRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

func (r *MongoRepo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

func (r *MongoRepo) findOne(ctx context.Context, col string, filter bson.M, out any) error {
	err := r.db.Collection(col).FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repo.ErrNotFound
	}
	return err
}

func (r *MongoRepo) insert(ctx context.Context, col string, doc any) error {
	_, err := r.db.Collection(col).InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return repo.ErrDuplicate
	}
	return err
}

func (r *MongoRepo) FindCartByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.findOne(ctx, colCarts, bson.M{"userId": userID}, &cart); err != nil {
		return nil, err
	}
	if cart.Products == nil {
		cart.Products = []models.CartLine{}
	}
	return &cart, nil
}

func (r *MongoRepo) CreateCart(ctx context.Context, c *models.Cart) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Products == nil {
		c.Products = []models.CartLine{}
	}
	c.UpdatedAt = time.Now().UTC()
	return r.insert(ctx, colCarts, c)
}

func (r *MongoRepo) SaveCart(ctx context.Context, c *models.Cart) error {
	now := time.Now().UTC()
	res, err := r.db.Collection(colCarts).UpdateOne(ctx,
		bson.M{"_id": c.ID, "version": c.Version},
		bson.M{
			"$set": bson.M{"products": c.Products, "updatedAt": now},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repo.ErrVersionConflict
	}
	c.Version++
	c.UpdatedAt = now
	return nil
}

func (r *MongoRepo) FindProducts(ctx context.Context, ids []string) (map[string]models.Product, error) {
	out := make(map[string]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := r.db.Collection(colProducts).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (r *MongoRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return r.insert(ctx, colProducts, p)
}

func (r *MongoRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.findOne(ctx, colUsers, bson.M{"email": email}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *MongoRepo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.findOne(ctx, colUsers, bson.M{"username": username}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *MongoRepo) FindUserByAddress(ctx context.Context, address, city, state, pincode string) (*models.User, error) {
	var u models.User
	filter := bson.M{"address": address, "city": city, "state": state, "pincode": pincode}
	if err := r.findOne(ctx, colUsers, filter, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *MongoRepo) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	return r.insert(ctx, colUsers, u)
}

func (r *MongoRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.db.Collection(colUsers).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoRepo) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.SubmittedAt.IsZero() {
		f.SubmittedAt = time.Now().UTC()
	}
	return r.insert(ctx, colFeedback, f)
}

func (r *MongoRepo) CreateContact(ctx context.Context, c *models.Contact) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.SubmittedAt.IsZero() {
		c.SubmittedAt = time.Now().UTC()
	}
	return r.insert(ctx, colContacts, c)
}
