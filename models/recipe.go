package models

import "time"

// Recipe is owned by exactly one user. Owner carries the public profile only.
type Recipe struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Instructions      string    `json:"instructions"`
	MinutesToComplete int       `json:"minutes_to_complete"`
	UserID            int64     `json:"user_id"`
	Owner             Profile   `json:"user"`
	CreatedAt         time.Time `json:"-"`
}

// CreateRecipeRequest is the POST /recipes body.
// MinutesToComplete is a pointer so a missing field can be told apart from 0.
type CreateRecipeRequest struct {
	Title             string `json:"title"`
	Instructions      string `json:"instructions"`
	MinutesToComplete *int   `json:"minutes_to_complete"`
}

// NewRecipe is the input to the recipe repository.
type NewRecipe struct {
	Title             string
	Instructions      string
	MinutesToComplete *int
}
