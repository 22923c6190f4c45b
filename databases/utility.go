package databases

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoPage is an offset/limit window over a mongo collection
type mongoPage struct {
	skip  int64
	limit int64
}

func newMongoPage(offset, limit int) *mongoPage {
	return &mongoPage{
		skip:  int64(offset),
		limit: int64(limit),
	}
}

// newestFirst returns the find options of the page sorted by key descending.
// Ties on key are broken by _id so pages never overlap.
func (mp *mongoPage) newestFirst(key string) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: key, Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(mp.skip).
		SetLimit(mp.limit)
}
