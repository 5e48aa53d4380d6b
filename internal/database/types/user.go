package types

import "time"

// User holds the author/voter identity rows that content, votes and
// reputation accounts reference. Profile data lives outside this service.
type User struct {
	ID        uint64    `bun:",pk,autoincrement" json:"id"`
	Username  string    `bun:",notnull,unique"   json:"username"`
	CreatedAt time.Time `bun:",notnull"          json:"createdAt"`
}
