package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfilePicture stores metadata about a user's avatar. The image itself
// resides in S3.
type ProfilePicture struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	S3ObjectKey string             `bson:"s3ObjectKey" json:"-"`           // internal use
	ContentType string             `bson:"contentType" json:"contentType"` // MIME type (e.g., "image/jpeg")
	Size        int64              `bson:"size" json:"size"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
