package domain

// User is a registered account. ID is assigned by the store on insert and
// never changes afterwards.
type User struct {
	ID           int64
	Username     string
	PasswordHash string // bcrypt or argon2id encoded
}

// DemoUser is the account created by the demo seed.
type DemoUser struct {
	Username string
	Password string
}
