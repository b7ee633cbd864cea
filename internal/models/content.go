package models

import "time"

// Reference content collection names. Each maps to its own MongoDB collection.
const (
	CollectionAgbya  = "agbya"
	CollectionTaks   = "taks"
	CollectionCoptic = "coptic"
	CollectionHymns  = "hymns"
)

// ContentCollections lists the recognized reference collections.
var ContentCollections = []string{CollectionAgbya, CollectionTaks, CollectionCoptic, CollectionHymns}

// ValidContentCollection reports whether name is a recognized collection.
func ValidContentCollection(name string) bool {
	for _, collection := range ContentCollections {
		if collection == name {
			return true
		}
	}
	return false
}

// ContentDocument is a reference lesson document (Agbya, Taks, Coptic or
// Hymns). Field names follow the documents already stored by the portal.
type ContentDocument struct {
	ID                  string    `bson:"_id" json:"id"`
	Title               string    `bson:"title" json:"title"`
	ArabicContent       string    `bson:"arabicContent,omitempty" json:"arabicContent,omitempty"`
	CopticContent       string    `bson:"copticContent,omitempty" json:"copticContent,omitempty"`
	CopticArabicContent string    `bson:"copticArabicContent,omitempty" json:"copticArabicContent,omitempty"`
	Term                int       `bson:"term" json:"term"`
	YearNumber          int       `bson:"yearNumber" json:"yearNumber"`
	AgeLevel            []int     `bson:"ageLevel,omitempty" json:"ageLevel,omitempty"`
	Audio               string    `bson:"audio,omitempty" json:"audio,omitempty"`
	CreatedAt           time.Time `bson:"createdAt,omitempty" json:"created_at,omitempty"`
	UpdatedAt           time.Time `bson:"updatedAt,omitempty" json:"updated_at,omitempty"`
}
