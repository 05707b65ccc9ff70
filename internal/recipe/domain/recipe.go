package domain

import (
	"errors"
	"time"
)

// Recipe is an owned entity. UserID is a copy of the owning identity's id in
// the user service's store; it is set from the resolved credential at create
// time and never from client input.
type Recipe struct {
	ID           int64
	Title        string
	Description  string
	Ingredients  string
	Instructions string
	CookingTime  int
	UserID       int64
	CreatedAt    time.Time
}

// Validate validates the recipe for persistence.
func (r *Recipe) Validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	return nil
}

// Patch carries the fields of a partial update. Each field is tri-state: nil
// means absent (leave the stored value untouched), non-nil means set.
type Patch struct {
	Title        *string
	Description  *string
	Ingredients  *string
	Instructions *string
	CookingTime  *int
}

// Apply overwrites r's fields with the patch's present fields.
func (p Patch) Apply(r *Recipe) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Ingredients != nil {
		r.Ingredients = *p.Ingredients
	}
	if p.Instructions != nil {
		r.Instructions = *p.Instructions
	}
	if p.CookingTime != nil {
		r.CookingTime = *p.CookingTime
	}
}

// Empty reports whether the patch carries no fields.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Ingredients == nil &&
		p.Instructions == nil && p.CookingTime == nil
}
