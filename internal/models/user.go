package models

// UserDoc cuenta registrada. Los usuarios de MovieLens solo existen en
// ratings; los registrados reciben un userId mayor a todos ellos.
type UserDoc struct {
	UserID          int      `json:"userId" bson:"userId"`
	Email           string   `json:"email" bson:"email"`
	PasswordHash    string   `json:"-" bson:"passwordHash"`
	Role            string   `json:"role" bson:"role"`
	Username        string   `json:"username,omitempty" bson:"username,omitempty"`
	PreferredGenres []string `json:"preferredGenres,omitempty" bson:"preferredGenres,omitempty"`
	CreatedAt       string   `json:"createdAt" bson:"createdAt"`
}
