package domain

import (
	"errors"
	"time"
)

// Rating is an owned entity with a soft reference to a recipe in the recipe
// service's store. UserID is set from the resolved credential at create time;
// (UserID, RecipeID) is unique, enforced both by a pre-insert check and a
// storage constraint.
type Rating struct {
	ID        int64
	Rating    int
	Comment   string
	UserID    int64
	RecipeID  int64
	CreatedAt time.Time
}

// Validate validates the rating for persistence.
func (r *Rating) Validate() error {
	if r.RecipeID == 0 {
		return errors.New("recipe_id is required")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	return nil
}

// Patch carries the fields of a partial update; nil means absent.
type Patch struct {
	Rating  *int
	Comment *string
}

// Apply overwrites r's fields with the patch's present fields.
func (p Patch) Apply(r *Rating) {
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
	if p.Comment != nil {
		r.Comment = *p.Comment
	}
}
