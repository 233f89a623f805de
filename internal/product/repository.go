package product

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const repoTimeout = 5 * time.Second

// Repository provides access to the products collection.
type Repository struct {
	collection *mongo.Collection
}

// NewRepository builds a new product repository.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection("products")}
}

// Create inserts a new product document.
func (r *Repository) Create(ctx context.Context, p Product) (Product, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	p.ID = primitive.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, p); err != nil {
		return Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

// GetByID fetches one product.
func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (Product, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	var p Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Product{}, ErrProductNotFound
		}
		return Product{}, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}

// ListAll returns every product.
func (r *Repository) ListAll(ctx context.Context) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// Update applies a $set with only the provided fields and returns the
// resulting document.
func (r *Repository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (Product, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p Product
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Product{}, ErrProductNotFound
		}
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// Delete removes the product and returns the deleted document so the caller
// can cascade-delete owned file records.
func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) (Product, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	var p Product
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Product{}, ErrProductNotFound
		}
		return Product{}, fmt.Errorf("delete product: %w", err)
	}
	return p, nil
}

// DistinctCategories groups subcategories under each category.
func (r *Repository) DistinctCategories(ctx context.Context) ([]CategoryGroup, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"category": bson.M{"$exists": true, "$ne": ""}}}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$category",
			"subcategories": bson.M{"$addToSet": "$subcategory"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate categories: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []CategoryGroup
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}

	// $addToSet is unordered and may include empty subcategories.
	for i := range groups {
		groups[i].Subcategories = cleanSubcategories(groups[i].Subcategories)
	}
	return groups, nil
}

// FindBySubcategory returns products tagged with the subcategory.
func (r *Repository) FindBySubcategory(ctx context.Context, name string) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"subcategory": name})
	if err != nil {
		return nil, fmt.Errorf("find by subcategory: %w", err)
	}
	defer cursor.Close(ctx)

	var products []Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func cleanSubcategories(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
