package user

import "time"

type User struct {
	ID       int    `json:"userId"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Name     string `json:"name"`
	IsAdmin  bool   `json:"isAdmin"`

	FavoriteProductIDs []int `json:"favoriteProductIds,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// sanitize blanks the password hash before a user leaves the API.
func sanitize(u User) User {
	u.Password = ""
	return u
}
