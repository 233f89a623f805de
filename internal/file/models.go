package file

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Record describes one stored blob. Its id equals the blob store's file id,
// and the record is owned by exactly one product.
type Record struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Filename    string             `bson:"filename" json:"filename"`
	ContentType string             `bson:"contentType" json:"content_type"`
	Length      int64              `bson:"length" json:"length"`
	UploadDate  time.Time          `bson:"uploadDate" json:"upload_date"`
	URL         string             `bson:"url" json:"url"`
}
