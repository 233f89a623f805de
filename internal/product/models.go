package product

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Image is one entry of a product's image list. Bucket backends populate
// FileID (the stored file's id); the CDN backend populates ExternalID and
// the passthrough format/dimension fields instead.
type Image struct {
	FileID     primitive.ObjectID `bson:"id,omitempty" json:"id,omitempty"`
	Filename   string             `bson:"filename,omitempty" json:"filename,omitempty"`
	URL        string             `bson:"url" json:"url"`
	ExternalID string             `bson:"externalId,omitempty" json:"external_id,omitempty"`
	Format     string             `bson:"format,omitempty" json:"format,omitempty"`
	Width      int                `bson:"width,omitempty" json:"width,omitempty"`
	Height     int                `bson:"height,omitempty" json:"height,omitempty"`
}

// Product is a catalog entry. It exclusively owns its image list.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Price       float64            `bson:"price" json:"price"`
	Description string             `bson:"description" json:"description"`
	Sizes       []string           `bson:"sizes" json:"sizes"`
	Images      []Image            `bson:"images" json:"images"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Subcategory string             `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
}

// CategoryGroup lists the subcategories observed under one category.
type CategoryGroup struct {
	Category      string   `bson:"_id" json:"category"`
	Subcategories []string `bson:"subcategories" json:"subcategories"`
}
