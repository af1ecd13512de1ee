package club

// Club is a named entity with a hashed shared secret. The secret only gates
// creating events "organized by" the club; it never creates a session.
type Club struct {
	ID         string
	Name       string
	SecretHash string
}
